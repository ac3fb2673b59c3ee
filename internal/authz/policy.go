// Package authz holds the role/action permission table. Every mutating
// operation consults Can at its boundary instead of scattering ad hoc
// role comparisons through the handlers.
package authz

import "github.com/campus-kit/helpdesk-service/internal/domain"

// Action enumerates the operations gated by role.
type Action string

const (
	ActionCreateTicket Action = "ticket:create"
	ActionComment      Action = "ticket:comment"
	ActionView         Action = "view"
	ActionUpdateTicket Action = "ticket:update"
	ActionManageKB     Action = "kb:manage"
	ActionChangeRole   Action = "user:change_role"
)

var policy = map[domain.Role]map[Action]bool{
	domain.RoleStudent: {
		ActionCreateTicket: true,
		ActionComment:      true,
		ActionView:         true,
	},
	domain.RoleAgent: {
		ActionCreateTicket: true,
		ActionComment:      true,
		ActionView:         true,
		ActionUpdateTicket: true,
		ActionManageKB:     true,
	},
	domain.RoleAdmin: {
		ActionCreateTicket: true,
		ActionComment:      true,
		ActionView:         true,
		ActionUpdateTicket: true,
		ActionManageKB:     true,
		ActionChangeRole:   true,
	},
}

// Can reports whether the role may perform the action. Unknown roles
// and unknown actions are denied.
func Can(role domain.Role, action Action) bool {
	return policy[role][action]
}
