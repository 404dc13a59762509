package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/session-auth-service/pkg/util"
)

// RequireRole ensures the authenticated identity carries one of the allowed roles.
// With no roles given it only requires authentication.
func RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromFiber(c)
		if !ok {
			return apperrors.NewUnauthorized()
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		for _, role := range identity.Roles {
			if _, exists := allowedSet[role]; exists {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
