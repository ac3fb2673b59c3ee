package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk-service/internal/events"
	"github.com/campus-kit/helpdesk-service/internal/repository"
)

const (
	reportCacheKey = "reports:aggregate"
	reportCacheTTL = 30 * time.Second
)

// Report is the dashboard aggregate: grouped counts plus a total that
// always equals the sum of the grouped counts.
type Report struct {
	Total      int64                      `json:"total"`
	ByStatus   []repository.StatusCount   `json:"by_status"`
	ByCategory []repository.CategoryCount `json:"by_category"`
}

// ReportService computes grouped ticket counts, with a short-lived
// Redis cache in front of the database. Cache failures degrade to a
// direct query and never fail the request.
type ReportService struct {
	tickets repository.TicketRepository
	cache   *redis.Client
	logger  *zap.Logger
}

// NewReportService constructs the service. cache may be nil.
func NewReportService(tickets repository.TicketRepository, cache *redis.Client, logger *zap.Logger) *ReportService {
	return &ReportService{tickets: tickets, cache: cache, logger: logger}
}

// RegisterInvalidation drops the cached aggregate whenever tickets
// change, so reports are never more than one mutation stale.
func (s *ReportService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		s.Invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventTicketCreated, invalidate)
	dispatcher.Subscribe(events.EventTicketUpdated, invalidate)
}

// Aggregate returns grouped counts by status and category. The total is
// derived by summing the by-status counts and cross-checked against the
// overall ticket count.
func (s *ReportService) Aggregate(ctx context.Context) (*Report, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	byStatus, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.tickets.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range byStatus {
		total += row.Count
	}

	if all, err := s.tickets.CountAll(ctx); err == nil && all != total {
		// Grouped counts came from separate queries; a concurrent write
		// can skew them. Log it rather than serve a hard failure.
		s.logger.Warn("report counts out of sync",
			zap.Int64("summed", total),
			zap.Int64("counted", all))
	}

	report := &Report{
		Total:      total,
		ByStatus:   byStatus,
		ByCategory: byCategory,
	}
	s.toCache(ctx, report)
	return report, nil
}

// Invalidate drops the cached aggregate.
func (s *ReportService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, reportCacheKey).Err(); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

func (s *ReportService) fromCache(ctx context.Context) *Report {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, reportCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("report cache read failed", zap.Error(err))
		}
		return nil
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		s.logger.Warn("report cache payload corrupt", zap.Error(err))
		return nil
	}
	return &report
}

func (s *ReportService) toCache(ctx context.Context, report *Report) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey, payload, reportCacheTTL).Err(); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}
}
