package domain

import "time"

// Attachment records a file stored alongside a ticket at creation time.
// The payload lives in object storage under StorageKey; the row keeps
// the original filename for display and download.
type Attachment struct {
	ID         int64
	TicketID   int64
	FileName   string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
