package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/events"
)

func seedReportTickets(t *testing.T, tickets *fakeTicketRepo) {
	t.Helper()
	rows := []domain.Ticket{
		{UserID: 1, Title: "wifi down", Category: "IT Support", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium},
		{UserID: 1, Title: "vpn broken", Category: "IT Support", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh},
		{UserID: 2, Title: "refund", Category: "Accounts", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow},
		{UserID: 2, Title: "invoice", Category: "Accounts", Status: domain.TicketStatusClosed, Priority: domain.TicketPriorityMedium},
	}
	for i := range rows {
		require.NoError(t, tickets.Create(context.Background(), &rows[i], nil))
	}
}

func TestAggregateCountsSumToTotal(t *testing.T) {
	tickets := newFakeTicketRepo(newFakeAttachmentRepo())
	seedReportTickets(t, tickets)
	svc := NewReportService(tickets, nil, zap.NewNop())

	report, err := svc.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.Total)

	var byStatus int64
	statuses := make(map[domain.TicketStatus]int64)
	for _, row := range report.ByStatus {
		byStatus += row.Count
		statuses[row.Status] = row.Count
	}
	assert.Equal(t, report.Total, byStatus)
	assert.Equal(t, int64(2), statuses[domain.TicketStatusOpen])
	assert.Equal(t, int64(1), statuses[domain.TicketStatusInProgress])
	assert.Equal(t, int64(1), statuses[domain.TicketStatusClosed])

	categories := make(map[string]int64)
	for _, row := range report.ByCategory {
		categories[row.Category] = row.Count
	}
	assert.Equal(t, map[string]int64{"IT Support": 2, "Accounts": 2}, categories)
}

func TestAggregateEmptySystem(t *testing.T) {
	tickets := newFakeTicketRepo(newFakeAttachmentRepo())
	svc := NewReportService(tickets, nil, zap.NewNop())

	report, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.Empty(t, report.ByStatus)
	assert.Empty(t, report.ByCategory)
}

func TestAggregateServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	tickets := newFakeTicketRepo(newFakeAttachmentRepo())
	seedReportTickets(t, tickets)
	svc := NewReportService(tickets, client, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Aggregate(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists("reports:aggregate"))

	// A new ticket behind the cache's back is not visible until the
	// entry expires or is invalidated.
	extra := domain.Ticket{UserID: 3, Title: "leak", Category: "Facilities", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityMedium}
	require.NoError(t, tickets.Create(ctx, &extra, nil))

	second, err := svc.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)

	mr.FastForward(31 * time.Second)

	third, err := svc.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Total+1, third.Total)
}

func TestAggregateInvalidatedByTicketEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	tickets := newFakeTicketRepo(newFakeAttachmentRepo())
	seedReportTickets(t, tickets)
	svc := NewReportService(tickets, client, zap.NewNop())

	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterInvalidation(dispatcher)
	ctx := context.Background()

	_, err := svc.Aggregate(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists("reports:aggregate"))

	err = dispatcher.Publish(ctx, events.Event{
		ID:        "evt-1",
		Type:      events.EventTicketCreated,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("reports:aggregate"))
}

func TestAggregateIgnoresCorruptCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set("reports:aggregate", "not json"))

	tickets := newFakeTicketRepo(newFakeAttachmentRepo())
	seedReportTickets(t, tickets)
	svc := NewReportService(tickets, client, zap.NewNop())

	report, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.Total)
}
