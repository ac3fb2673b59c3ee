package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campus-kit/helpdesk-service/internal/authz"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/events"
	"github.com/campus-kit/helpdesk-service/internal/repository"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util"
)

// UserService covers account administration: role changes and the
// assignable-staff listing used by assignment pickers.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// ListAssignable returns agents and admins ordered by username.
func (s *UserService) ListAssignable(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !authz.Can(actor.Role, authz.ActionView) {
		return nil, apperrors.NewForbidden("not allowed")
	}
	return s.users.ListAssignable(ctx)
}

// ChangeRole sets a user's role. Admin only. Demoting the last
// remaining admin is rejected so the system always has one.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.User, userID int64, newRole domain.Role) (*domain.User, error) {
	if !authz.Can(actor.Role, authz.ActionChangeRole) {
		return nil, apperrors.NewForbidden("only admins may change roles")
	}
	if !newRole.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": newRole})
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNoRows(err, "user")
	}
	if target.Role == newRole {
		return target, nil
	}

	if target.Role == domain.RoleAdmin {
		admins, err := s.users.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, apperrors.NewConflict("cannot demote the last admin", nil)
		}
	}

	oldRole := target.Role
	if err := s.users.UpdateRole(ctx, target.ID, newRole); err != nil {
		return nil, mapNoRows(err, "user")
	}
	target.Role = newRole

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRoleChanged,
			ActorID:   actor.ID,
			Timestamp: time.Now(),
			Payload: events.UserRoleChangedPayload{
				UserID:  target.ID,
				OldRole: oldRole,
				NewRole: newRole,
			},
		})
	}
	return target, nil
}
