package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

func TestCanMatchesPermissionTable(t *testing.T) {
	tests := []struct {
		action  Action
		student bool
		agent   bool
		admin   bool
	}{
		{ActionCreateTicket, true, true, true},
		{ActionComment, true, true, true},
		{ActionView, true, true, true},
		{ActionUpdateTicket, false, true, true},
		{ActionManageKB, false, true, true},
		{ActionChangeRole, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.student, Can(domain.RoleStudent, tt.action), "student")
			assert.Equal(t, tt.agent, Can(domain.RoleAgent, tt.action), "agent")
			assert.Equal(t, tt.admin, Can(domain.RoleAdmin, tt.action), "admin")
		})
	}
}

func TestCanDeniesUnknowns(t *testing.T) {
	for _, action := range []Action{
		ActionCreateTicket, ActionComment, ActionView,
		ActionUpdateTicket, ActionManageKB, ActionChangeRole,
	} {
		assert.False(t, Can(domain.Role("visitor"), action))
		assert.False(t, Can(domain.Role(""), action))
	}
	assert.False(t, Can(domain.RoleAdmin, Action("ticket:delete")))
}
