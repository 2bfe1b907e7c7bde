package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/brightpath-it/backoffice/internal/cache"
	"github.com/brightpath-it/backoffice/storage"
	"github.com/brightpath-it/backoffice/storage/model"
)

const settingsListKey = "_all"

// registerSettings wires the site settings, e.g. the About page text.
// Reads are public; changes require admin access.
func registerSettings(r fiber.Router, kv model.KeyValueStore, admin fiber.Handler, cacheTTL time.Duration) {
	g := r.Group("/settings")

	g.Get(
		"/", func(c *fiber.Ctx) error {
			key := cache.Key(cache.KeySettings, settingsListKey)
			var cached map[string]json.RawMessage
			if found, err := cache.Get(key, &cached); err == nil && found {
				return respond(c, fiber.StatusOK, cached)
			}
			settings, err := storage.SiteSettings(kv)
			if err != nil {
				return RespondError(c, err)
			}
			out := make(map[string]json.RawMessage, len(settings))
			for k, v := range settings {
				out[k] = json.RawMessage(v)
			}
			if err = cache.Set(key, out, cacheTTL); err != nil {
				log.WithError(err).Warn("could not cache settings")
			}
			return respond(c, fiber.StatusOK, out)
		},
	)

	g.Get(
		"/:key", func(c *fiber.Ctx) error {
			name := c.Params("key")
			key := cache.Key(cache.KeySettings, name)
			var cached json.RawMessage
			if found, err := cache.Get(key, &cached); err == nil && found {
				return respond(c, fiber.StatusOK, cached)
			}
			value, err := kv.Get(model.KeyValueScopeSite, name)
			if err != nil {
				return RespondError(c, err)
			}
			if value == nil {
				return RespondError(c, model.NotFoundErrorFmt("setting not found: %s", name))
			}
			if err = cache.Set(key, json.RawMessage(value), cacheTTL); err != nil {
				log.WithError(err).Warn("could not cache setting")
			}
			return respond(c, fiber.StatusOK, json.RawMessage(value))
		},
	)

	g.Put(
		"/:key", admin, settingsCacheInvalidationMiddleware, func(c *fiber.Ctx) error {
			name := c.Params("key")
			value := datatypes.JSON(append([]byte(nil), c.Body()...))
			if err := kv.Set(model.KeyValueScopeSite, name, value); err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, json.RawMessage(value))
		},
	)

	g.Delete(
		"/:key", admin, settingsCacheInvalidationMiddleware, func(c *fiber.Ctx) error {
			name := c.Params("key")
			if err := kv.Delete(model.KeyValueScopeSite, name); err != nil {
				return RespondError(c, err)
			}
			return respondMessage(c, fiber.StatusOK, "setting deleted", fiber.Map{"key": name})
		},
	)
}
