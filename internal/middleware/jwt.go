package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nairalock/nairalock/internal/identity"
)

const identityLocal = "identity"

// TokenAuthenticator resolves a bearer token to the active identity.
type TokenAuthenticator interface {
	Authenticate(token string) (identity.Identity, error)
}

// SessionAuth returns a middleware that accepts only tokens issued for the
// current session. Logging out or switching identity invalidates older tokens.
func SessionAuth(auth TokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		id, err := auth.Authenticate(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}
		c.Locals(identityLocal, id)
		return c.Next()
	}
}

// CurrentIdentity returns the identity attached by SessionAuth.
func CurrentIdentity(c *fiber.Ctx) (identity.Identity, bool) {
	id, ok := c.Locals(identityLocal).(identity.Identity)
	return id, ok
}
