package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"

	localSession = "sessionId"
	localRole    = "role"
	localUser    = "userId"
)

// NewSessionMiddleware attaches a session id to every request. The id comes
// from the session cookie or the X-Session-ID header; a fresh one is issued
// when neither is present. The id outlives the request as a map key, so it
// is copied out of the fasthttp buffer.
func NewSessionMiddleware(cookie string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookie)
		if sessionID == "" {
			sessionID = c.Get(SessionHeader)
		}
		sessionID = strings.Clone(sessionID)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		c.Cookie(&fiber.Cookie{
			Name:     cookie,
			Value:    sessionID,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Set(SessionHeader, sessionID)

		c.Locals(localSession, sessionID)
		return c.Next()
	}
}

func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(localSession).(string)
	return id
}
