package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/authz"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util"
)

// RequireAuth ensures the caller is authenticated.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAction gates a route on the permission table: the principal's
// role must allow the action.
func RequireAction(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !authz.Can(principal.Role(), action) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
