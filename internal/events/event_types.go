package events

import (
	"time"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketUpdated   EventType = "ticket_updated"
	EventTicketCommented EventType = "ticket_commented"
	EventUserRoleChanged EventType = "user_role_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID      int64                 `json:"ticket_id"`
	Title         string                `json:"title"`
	Category      string                `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	HasAttachment bool                  `json:"has_attachment"`
}

// TicketUpdatedPayload carries the fields touched by a partial update;
// nil means the field was left unchanged.
type TicketUpdatedPayload struct {
	TicketID    int64                  `json:"ticket_id"`
	OldStatus   domain.TicketStatus    `json:"old_status"`
	NewStatus   *domain.TicketStatus   `json:"new_status,omitempty"`
	NewPriority *domain.TicketPriority `json:"new_priority,omitempty"`
	NewAssignee *int64                 `json:"new_assignee,omitempty"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	TicketID    int64  `json:"ticket_id"`
	CommentID   int64  `json:"comment_id"`
	AuthorID    int64  `json:"author_id"`
	BodyPreview string `json:"body_preview"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	UserID  int64       `json:"user_id"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}
