package api

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/brightpath-it/backoffice/internal/cache"
)

// catalogCacheInvalidationMiddleware clears all cached reads of a catalog
// for requests that successfully modify it.
// It should be attached only to non-GET routes.
func catalogCacheInvalidationMiddleware(catalog string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if successful(c) {
			if err := cache.Clear(cache.Key(cache.KeyCatalog, catalog)); err != nil {
				log.WithError(err).WithField("catalog", catalog).Warn("could not clear catalog cache")
			}
		}
		return nil
	}
}

// settingsCacheInvalidationMiddleware clears the cached settings
// It checks if the request path contains a settings key,
// if so only that setting and the listing are cleared,
// otherwise all settings are cleared
func settingsCacheInvalidationMiddleware(c *fiber.Ctx) error {
	if err := c.Next(); err != nil {
		return err
	}
	if !successful(c) {
		return nil
	}
	var err error
	if key := c.Params("key"); key != "" {
		err = cache.Delete(cache.Key(cache.KeySettings, key))
		if err == nil {
			err = cache.Delete(cache.Key(cache.KeySettings, settingsListKey))
		}
	} else {
		err = cache.Clear(cache.KeySettings)
	}
	if err != nil {
		log.WithError(err).Warn("could not clear settings cache")
	}
	return nil
}

func successful(c *fiber.Ctx) bool {
	status := c.Response().StatusCode()
	return status >= 200 && status < 400
}
