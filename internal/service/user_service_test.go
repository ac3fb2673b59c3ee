package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/events"
)

func TestChangeRolePromotesStudent(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &captureDispatcher{}
	svc := NewUserService(users, dispatcher)

	admin := users.add("admin1", domain.RoleAdmin)
	student := users.add("student1", domain.RoleStudent)

	updated, err := svc.ChangeRole(context.Background(), admin, student.ID, domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, updated.Role)

	stored, err := users.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, stored.Role)

	changed := dispatcher.byType(events.EventUserRoleChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.UserRoleChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.RoleStudent, payload.OldRole)
	assert.Equal(t, domain.RoleAgent, payload.NewRole)
}

func TestChangeRoleLastAdminGuard(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &captureDispatcher{})

	admin := users.add("admin1", domain.RoleAdmin)

	_, err := svc.ChangeRole(context.Background(), admin, admin.ID, domain.RoleAgent)
	assertDomainCode(t, err, "CONFLICT")

	// With a second admin the demotion goes through.
	users.add("admin2", domain.RoleAdmin)
	updated, err := svc.ChangeRole(context.Background(), admin, admin.ID, domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, updated.Role)
}

func TestChangeRoleSameRoleIsNoOp(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &captureDispatcher{}
	svc := NewUserService(users, dispatcher)

	admin := users.add("admin1", domain.RoleAdmin)
	agent := users.add("agent1", domain.RoleAgent)

	updated, err := svc.ChangeRole(context.Background(), admin, agent.ID, domain.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, updated.Role)
	assert.Empty(t, dispatcher.byType(events.EventUserRoleChanged))
}

func TestChangeRoleAuthorization(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &captureDispatcher{})

	agent := users.add("agent1", domain.RoleAgent)
	student := users.add("student1", domain.RoleStudent)

	for _, actor := range []*domain.User{agent, student} {
		_, err := svc.ChangeRole(context.Background(), actor, student.ID, domain.RoleAgent)
		assertDomainCode(t, err, "FORBIDDEN")
	}
}

func TestChangeRoleValidation(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &captureDispatcher{})
	admin := users.add("admin1", domain.RoleAdmin)

	_, err := svc.ChangeRole(context.Background(), admin, admin.ID, domain.Role("superuser"))
	assertDomainCode(t, err, "VALIDATION_FAILED")

	_, err = svc.ChangeRole(context.Background(), admin, 9999, domain.RoleAgent)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestListAssignableReturnsStaffOnly(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewUserService(users, &captureDispatcher{})

	users.add("student1", domain.RoleStudent)
	users.add("agent1", domain.RoleAgent)
	admin := users.add("admin1", domain.RoleAdmin)

	listed, err := svc.ListAssignable(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, user := range listed {
		assert.True(t, user.Role.IsStaff())
	}
}
