package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller and its resolved role name.
type Principal struct {
	User     *domain.User
	RoleName string
}

// UserID returns the caller id or an empty string.
func (p *Principal) UserID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

// IdentityStore is the slice of the user store the middleware needs.
type IdentityStore interface {
	GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error)
	RoleNameForUser(ctx context.Context, userID string) (string, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  IdentityStore
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users IdentityStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseAccess(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("Not Authorized")
	}

	ctx := c.UserContext()
	user, err := m.users.GetByID(ctx, claims.UserID, false)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NewUnauthorized("Not Authorized")
		}
		return apperrors.MapError(err)
	}

	roleName, err := m.users.RoleNameForUser(ctx, user.ID)
	if err != nil && !repository.IsNotFound(err) {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, RoleName: roleName})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}
