package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/auth"
)

// IdentityKey is where AdminAuth stashes a bearer-token identity in the
// request locals for handlers that need more than a yes/no answer.
const IdentityKey = "identity"

// AdminAuth guards the admin JSON API. A browser gets in via the login
// session; operator tooling gets in via an HS256 bearer token. Everything
// else is answered 401 with a JSON body rather than a login redirect.
//
// In development mode anonymous callers pass through without an identity;
// handlers that run their own authorization decide what anonymity means.
func AdminAuth(sessionMgr *cartridge.SessionManager, secret string, devMode bool, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			identity, err := auth.ParseToken(secret, token)
			if err != nil {
				logger.Debug("Rejected bearer token", slog.Any("error", err))
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "not authenticated",
				})
			}
			c.Locals(IdentityKey, identity)
			return c.Next()
		}

		if sessionMgr.IsAuthenticated(c) {
			return c.Next()
		}

		if devMode {
			return c.Next()
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}
}
