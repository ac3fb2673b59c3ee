package domain

import "time"

// KBArticle is a self-service help document, publicly readable and
// searchable. Creation and edits are restricted to staff.
type KBArticle struct {
	ID        int64
	Title     string
	Content   string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
