package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/helpdesk-service/internal/authz"
	"github.com/campus-kit/helpdesk-service/internal/classifier"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/events"
	"github.com/campus-kit/helpdesk-service/internal/repository"
	"github.com/campus-kit/helpdesk-service/internal/storage"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows: creation with derived
// category, permission-gated partial updates, and append-only comments.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	users       repository.UserRepository
	classifier  *classifier.Classifier
	store       storage.ObjectStore
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	UserRepo       repository.UserRepository
	Classifier     *classifier.Classifier
	Store          storage.ObjectStore
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		users:       deps.UserRepo,
		classifier:  deps.Classifier,
		store:       deps.Store,
		dispatcher:  deps.Dispatcher,
	}
}

// AttachmentUpload carries an uploaded file into ticket creation.
type AttachmentUpload struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Reader    io.Reader
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Attachment  *AttachmentUpload
}

// TicketUpdateInput carries a partial update: nil fields stay unchanged.
type TicketUpdateInput struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssigneeID *int64
}

// TicketListFilter describes dashboard listing filters.
type TicketListFilter struct {
	Query    string
	Status   *domain.TicketStatus
	Category *string
	Limit    int
	Offset   int
}

// TicketDetail aggregates a ticket with its comments and attachments.
type TicketDetail struct {
	Ticket      *domain.Ticket
	Comments    []domain.Comment
	Attachments []domain.Attachment
}

// CreateTicket files a new ticket. The category is derived from title
// and description by the keyword classifier; status starts open and an
// unspecified priority defaults to Medium. When an attachment is
// supplied, its payload goes to object storage and the metadata row is
// inserted in the same transaction as the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if !authz.Can(actor.Role, authz.ActionCreateTicket) {
		return nil, apperrors.NewForbidden("not allowed to create tickets")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	description := strings.TrimSpace(input.Description)

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	ticket := &domain.Ticket{
		UserID:      actor.ID,
		Title:       title,
		Description: description,
		Category:    s.classifier.Classify(title + " " + description),
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
	}

	var attachment *domain.Attachment
	if input.Attachment != nil {
		if s.store == nil {
			return nil, apperrors.NewInternalError(errors.New("attachment storage not configured"))
		}
		key := uuid.NewString() + filepath.Ext(input.Attachment.FileName)
		if err := s.store.Put(ctx, key, input.Attachment.Reader, input.Attachment.SizeBytes, input.Attachment.MimeType); err != nil {
			return nil, err
		}
		attachment = &domain.Attachment{
			FileName:   input.Attachment.FileName,
			StorageKey: key,
			MimeType:   input.Attachment.MimeType,
			SizeBytes:  input.Attachment.SizeBytes,
		}
	}

	if err := s.tickets.Create(ctx, ticket, attachment); err != nil {
		if attachment != nil {
			_ = s.store.Remove(ctx, attachment.StorageKey)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: actor.ID,
		Payload: events.TicketCreatedPayload{
			TicketID:      ticket.ID,
			Title:         ticket.Title,
			Category:      ticket.Category,
			Priority:      ticket.Priority,
			HasAttachment: attachment != nil,
		},
	})
	return ticket, nil
}

// ListTickets returns the filtered dashboard listing, newest first.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if !authz.Can(actor.Role, authz.ActionView) {
		return nil, apperrors.NewForbidden("not allowed to view tickets")
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *filter.Status})
	}

	repoFilter := repository.TicketFilter{
		Status:   filter.Status,
		Category: filter.Category,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		repoFilter.SearchTerm = &q
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicket fetches a ticket with its comments and attachments. A
// missing id is an explicit not-found, never a crash.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID int64) (*TicketDetail, error) {
	if !authz.Can(actor.Role, authz.ActionView) {
		return nil, apperrors.NewForbidden("not allowed to view tickets")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNoRows(err, "ticket")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	return &TicketDetail{Ticket: ticket, Comments: comments, Attachments: attachments}, nil
}

// UpdateTicket applies a partial status/priority/assignee update. Only
// staff may mutate; omitted fields are left untouched. Assignment is
// restricted to agent or admin accounts.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.User, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	if !authz.Can(actor.Role, authz.ActionUpdateTicket) {
		return nil, apperrors.NewForbidden("only agents or admins may update tickets")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNoRows(err, "ticket")
	}
	oldStatus := ticket.Status

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *input.AssigneeID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("assignee not found", map[string]any{"assignee_id": *input.AssigneeID})
			}
			return nil, err
		}
		if !assignee.Role.IsStaff() {
			return nil, apperrors.NewValidationError("assignee must be an agent or admin", map[string]any{"assignee_id": *input.AssigneeID})
		}
		ticket.AssignedTo = input.AssigneeID
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapNoRows(err, "ticket")
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketUpdated,
		ActorID: actor.ID,
		Payload: events.TicketUpdatedPayload{
			TicketID:    ticket.ID,
			OldStatus:   oldStatus,
			NewStatus:   input.Status,
			NewPriority: input.Priority,
			NewAssignee: input.AssigneeID,
		},
	})
	return ticket, nil
}

// AddComment appends a comment. Whitespace-only content is a silent
// no-op: both returns are nil and nothing is stored.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID int64, content string) (*domain.Comment, error) {
	if !authz.Can(actor.Role, authz.ActionComment) {
		return nil, apperrors.NewForbidden("not allowed to comment")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, mapNoRows(err, "ticket")
	}

	comment := &domain.Comment{
		TicketID: ticketID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketCommented,
		ActorID: actor.ID,
		Payload: events.TicketCommentedPayload{
			TicketID:    ticketID,
			CommentID:   comment.ID,
			AuthorID:    actor.ID,
			BodyPreview: stringPreview(content, 120),
		},
	})
	return comment, nil
}

// OpenAttachment returns attachment metadata and a reader over its
// payload. The caller must close the reader.
func (s *TicketService) OpenAttachment(ctx context.Context, actor *domain.User, attachmentID int64) (*domain.Attachment, io.ReadCloser, error) {
	if !authz.Can(actor.Role, authz.ActionView) {
		return nil, nil, apperrors.NewForbidden("not allowed to view attachments")
	}
	att, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, mapNoRows(err, "attachment")
	}
	if s.store == nil {
		return nil, nil, apperrors.NewInternalError(errors.New("attachment storage not configured"))
	}
	reader, err := s.store.Get(ctx, att.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return att, reader, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapNoRows(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
