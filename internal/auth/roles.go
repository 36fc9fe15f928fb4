package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/blog-platform/pkg/util"
)

// RequireUser ensures the caller is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromContext(c); !ok {
			return apperrors.NewUnauthenticated("not authenticated")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is authenticated and holds the admin role.
// A logged-in non-admin gets 403, not 401; callers must be able to tell the
// two apart.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("not authenticated")
		}
		if !session.IsAdmin() {
			return apperrors.NewForbidden("admins only")
		}
		return c.Next()
	}
}
