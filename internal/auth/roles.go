package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mintickets/helpdesk/internal/domain"
	apperrors "github.com/mintickets/helpdesk/pkg/util"
)

// RequireUser ensures a locally registered user is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeUser || principal.User == nil {
			return apperrors.NewForbidden("user account required")
		}
		return c.Next()
	}
}

// RequireAny ensures the caller is authenticated, user or specialist.
func RequireAny() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
