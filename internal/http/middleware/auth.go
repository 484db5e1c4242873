package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"contentproof/internal/auth"
)

// ClaimsLocalKey is the Fiber locals key holding the verified token claims.
const ClaimsLocalKey = "claims"

// TokenVerifier checks a bearer token. *auth.Issuer satisfies it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth verifies the Authorization bearer token and stores its claims.
func RequireAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return reject(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, no token")
		}

		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return reject(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, token failed")
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}
