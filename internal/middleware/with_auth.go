package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny      = "any"
	AuthRoleReviewer = "reviewer"
	AuthRoleAdmin    = models.RoleAdmin
	AuthRoleStudent  = models.RoleStudent
)

// AuthOptions configures the WithAuth helper.
// AuthRoleAny admits anonymous callers unless RequireUser is set; any other role implies it.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with basic authentication/authorization guards.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	check := authCheck(opts)
	return func(c *fiber.Ctx) error {
		if status, message := check(c); status != 0 {
			return utils.Fail(c, status, message, nil)
		}
		return handler(c)
	}
}

// Authorize returns a group middleware enforcing the same rules as WithAuth.
func Authorize(opts AuthOptions) fiber.Handler {
	return WithAuth(func(c *fiber.Ctx) error { return c.Next() }, opts)
}

func authCheck(opts AuthOptions) func(c *fiber.Ctx) (int, string) {
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser
	if !requireUser && role != AuthRoleAny {
		requireUser = true
	}

	return func(c *fiber.Ctx) (int, string) {
		if requireUser && c.Locals("user_id") == nil {
			return fiber.StatusUnauthorized, "authentication required"
		}
		if role == AuthRoleAny {
			return 0, ""
		}

		currentRole := normalizeRoleValue(c.Locals("user_role"))
		switch role {
		case AuthRoleReviewer:
			if !models.IsReviewerRole(currentRole) {
				return fiber.StatusForbidden, "insufficient permissions"
			}
		default:
			if currentRole != role {
				return fiber.StatusForbidden, "insufficient permissions"
			}
		}
		return 0, ""
	}
}
