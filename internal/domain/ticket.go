package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Transitions are
// flat: any staff member may set any of the three values.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is one of the known values.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// Valid reports whether the priority is one of the known values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Title and description
// are immutable after creation; category is derived by the classifier
// but remains mutable by staff.
type Ticket struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Category    string
	Status      TicketStatus
	Priority    TicketPriority
	AssignedTo  *int64
	CreatedAt   time.Time
}
