package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// AttachmentRepository reads attachment metadata. Rows are written by
// TicketRepository.Create inside the ticket transaction.
type AttachmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository instantiates repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) GetByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_name, storage_key, mime_type, size_bytes, created_at
        FROM attachments WHERE id=$1`

	var att domain.Attachment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&att.ID,
		&att.TicketID,
		&att.FileName,
		&att.StorageKey,
		&att.MimeType,
		&att.SizeBytes,
		&att.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_name, storage_key, mime_type, size_bytes, created_at
        FROM attachments WHERE ticket_id=$1 ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var att domain.Attachment
		if err := rows.Scan(
			&att.ID,
			&att.TicketID,
			&att.FileName,
			&att.StorageKey,
			&att.MimeType,
			&att.SizeBytes,
			&att.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}
