package api

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-it/backoffice/storage/model"
)

const localsActor = "actor"

// authMiddleware enforces optional authentication for admin routes.
// If there are no users in storage, all requests are allowed and changes are
// attributed to defaultActor.
// If there is at least one user, it requires HTTP Basic authentication
// and validates credentials using UsersStore; the username becomes the actor.
func authMiddleware(users model.UsersStore, defaultActor string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// If no users are configured, allow access
		count, err := users.Count()
		if err != nil {
			return RespondError(c, err)
		}
		if count == 0 {
			c.Locals(localsActor, defaultActor)
			return c.Next()
		}

		// Require Basic auth
		username, password, ok := parseBasicAuth(c)
		if !ok {
			return unauthorized(c, "missing credentials")
		}
		// Validate credentials
		if _, err = users.Authenticate(username, password); err != nil {
			return unauthorized(c, "invalid credentials")
		}
		c.Locals(localsActor, username)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Basic realm=backoffice")
	return c.Status(fiber.StatusUnauthorized).JSON(Envelope{Message: msg})
}

// actor returns who performs the current request
func actor(c *fiber.Ctx, fallback string) string {
	if a, ok := c.Locals(localsActor).(string); ok && a != "" {
		return a
	}
	return fallback
}

// parseBasicAuth extracts Basic auth credentials from request headers
func parseBasicAuth(c *fiber.Ctx) (username, password string, ok bool) {
	auth := c.Get(fiber.HeaderAuthorization)
	if auth == "" {
		return "", "", false
	}
	const prefix = "Basic "
	if !strings.HasPrefix(auth, prefix) {
		return "", "", false
	}
	b, err := base64.StdEncoding.DecodeString(auth[len(prefix):])
	if err != nil {
		return "", "", false
	}
	creds := string(b)
	i := strings.IndexByte(creds, ':')
	if i < 0 {
		return "", "", false
	}
	return creds[:i], creds[i+1:], true
}
