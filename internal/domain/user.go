package domain

import "time"

// Role determines what actions a user may perform.
type Role string

const (
	RoleStudent Role = "student"
	RoleAgent   Role = "agent"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role carries triage privileges.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is the domain model for helpdesk accounts. A user holds exactly
// one role; role changes are admin-only.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
