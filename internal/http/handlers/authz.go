package handlers

import (
	"strings"

	applog "storefront/internal/log"

	"github.com/gofiber/fiber/v2"
)

const localSubject = "subject"

type TokenVerifier interface {
	Verify(token string) (subject string, ok bool)
}

// RequireBearer admits requests carrying a valid "Authorization: Bearer" token
// and stores its subject in Locals.
func RequireBearer(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(fiber.HeaderAuthorization)
		scheme, tok, found := strings.Cut(raw, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
			applog.Security(c, "access.denied.token", map[string]any{"reason": "missing"})
			return ErrUnauthenticated
		}
		sub, ok := tokens.Verify(strings.TrimSpace(tok))
		if !ok {
			applog.Security(c, "access.denied.token", map[string]any{"reason": "invalid"})
			return ErrUnauthenticated
		}
		c.Locals(localSubject, sub)
		return c.Next()
	}
}

func subject(c *fiber.Ctx) string {
	s, _ := c.Locals(localSubject).(string)
	return s
}
