package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Authorize reports whether principal may access a route that declares
// allowed. No declared roles means no restriction; no principal is denied.
func Authorize(allowed []string, principal *Principal) bool {
	if len(allowed) == 0 {
		return true
	}
	if principal == nil {
		return false
	}
	for _, role := range allowed {
		if role == principal.RoleName {
			return true
		}
	}
	return false
}

// RequireRoles gates a route on the caller's resolved role name.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := append([]string(nil), roles...)
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if principal == nil && len(allowed) > 0 {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !Authorize(allowed, principal) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
