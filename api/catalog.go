package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/brightpath-it/backoffice/internal/cache"
	"github.com/brightpath-it/backoffice/storage/model"
)

// registerCatalog wires the handlers of one catalog. Reads are public and
// cached; changes require admin access and clear the cached reads.
func registerCatalog[T model.CatalogItem](
	r fiber.Router, store model.CatalogStore[T], admin fiber.Handler, cacheTTL time.Duration,
) {
	name := store.Name()
	g := r.Group("/" + name)
	invalidate := catalogCacheInvalidationMiddleware(name)

	g.Get(
		"/", func(c *fiber.Ctx) error {
			filter := model.CatalogFilter{
				Field: c.Query("field"),
				Value: c.Query("value"),
			}
			key := cache.Key(cache.KeyCatalog, name, "list", filter.Field, filter.Value)
			var items []T
			if found, err := cache.Get(key, &items); err != nil {
				log.WithError(err).Warn("could not read catalog from cache")
			} else if found {
				return respond(c, fiber.StatusOK, items)
			}
			items, err := store.List(filter)
			if err != nil {
				return RespondError(c, err)
			}
			if items == nil {
				items = []T{}
			}
			if err = cache.Set(key, items, cacheTTL); err != nil {
				log.WithError(err).Warn("could not cache catalog")
			}
			return respond(c, fiber.StatusOK, items)
		},
	)

	g.Get(
		"/:slug", func(c *fiber.Ctx) error {
			slug := c.Params("slug")
			key := cache.Key(cache.KeyCatalog, name, "item", slug)
			var item T
			if found, err := cache.Get(key, &item); err != nil {
				log.WithError(err).Warn("could not read catalog item from cache")
			} else if found {
				return respond(c, fiber.StatusOK, item)
			}
			stored, err := store.Get(slug)
			if err != nil {
				return RespondError(c, err)
			}
			if err = cache.Set(key, stored, cacheTTL); err != nil {
				log.WithError(err).Warn("could not cache catalog item")
			}
			return respond(c, fiber.StatusOK, stored)
		},
	)

	g.Post(
		"/", admin, invalidate, func(c *fiber.Ctx) error {
			var item T
			if err := c.BodyParser(&item); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			created, err := store.Create(item)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusCreated, created)
		},
	)

	g.Put(
		"/:slug", admin, invalidate, func(c *fiber.Ctx) error {
			var item T
			if err := c.BodyParser(&item); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			updated, err := store.Update(c.Params("slug"), item)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, updated)
		},
	)

	g.Delete(
		"/:slug", admin, invalidate, func(c *fiber.Ctx) error {
			slug := c.Params("slug")
			if err := store.Delete(slug); err != nil {
				return RespondError(c, err)
			}
			return respondMessage(c, fiber.StatusOK, name+" item deleted", fiber.Map{"slug": slug})
		},
	)
}
