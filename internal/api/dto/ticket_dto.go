package dto

import (
	"time"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"user_id"`
	Title      string                `json:"title"`
	Category   string                `json:"category"`
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
	AssignedTo *int64                `json:"assigned_to"`
	CreatedAt  time.Time             `json:"created_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID          int64                 `json:"id"`
	UserID      int64                 `json:"user_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	AssignedTo  *int64                `json:"assigned_to"`
	CreatedAt   time.Time             `json:"created_at"`
	Comments    []CommentResponse     `json:"comments"`
	Attachments []AttachmentResponse  `json:"attachments"`
}

// UpdateTicketRequest carries a partial update; absent fields are left
// unchanged.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus   `json:"status"`
	Priority   *domain.TicketPriority `json:"priority"`
	AssigneeID *int64                 `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        int64  `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}
