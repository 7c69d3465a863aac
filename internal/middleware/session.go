package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/civiceye/internal/auth"
)

// SessionAuth validates bearer session tokens on protected routes. A missing
// token is reported distinctly from an invalid or expired one; the latter two
// are indistinguishable to the caller.
func SessionAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := auth.VerifySession(secret, tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, auth.ErrTokenInvalid.Error())
		}
		citizenID, err := claims.CitizenID()
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, auth.ErrTokenInvalid.Error())
		}

		c.Locals("citizen_id", citizenID)
		c.Locals("citizen_email", claims.Email)
		return c.Next()
	}
}
