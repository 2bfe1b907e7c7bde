package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-it/backoffice/storage/model"
)

// statusUpdateBody is the body of PUT /api/<kind>-requests/:id
type statusUpdateBody struct {
	Status *model.Status `json:"status"`
	Note   string        `json:"note"`
	model.ContactPatch
}

// bulkStatusBody is the body of POST /api/<kind>-requests/bulk-status
type bulkStatusBody struct {
	RequestIDs []string      `json:"requestIds"`
	Status     *model.Status `json:"status"`
	Note       string        `json:"note"`
}

// registerRequests wires the handlers of one request kind. Creating a
// request is public, everything else requires admin access.
func registerRequests(r fiber.Router, store model.RequestStore, admin fiber.Handler, opts Options) {
	kind := store.Kind()
	g := r.Group("/" + kind.Name + "-requests")

	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req model.NewRequest
			if err := c.BodyParser(&req); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			req.SourceCountry = opts.GeoIP.Country(c.IP())
			created, err := store.Create(req, opts.PublicActor)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusCreated, created)
		},
	)

	g.Get(
		"/", admin, func(c *fiber.Ctx) error {
			filter, err := requestFilter(c, kind)
			if err != nil {
				return RespondError(c, err)
			}
			list, err := store.List(filter)
			if err != nil {
				return RespondError(c, err)
			}
			if list == nil {
				list = []model.Request{}
			}
			return respond(c, fiber.StatusOK, list)
		},
	)

	g.Get(
		"/stats", admin, func(c *fiber.Ctx) error {
			stats, err := store.Stats()
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, stats)
		},
	)

	g.Post(
		"/bulk-status", admin, func(c *fiber.Ctx) error {
			var body bulkStatusBody
			if err := c.BodyParser(&body); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			res, err := store.BulkAppendStatus(
				body.RequestIDs, model.StatusUpdate{
					Status: body.Status,
					Note:   body.Note,
				}, actor(c, opts.DefaultActor),
			)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, res)
		},
	)

	g.Get(
		"/:id", admin, func(c *fiber.Ctx) error {
			req, err := store.Get(c.Params("id"))
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, req)
		},
	)

	g.Get(
		"/:id/history", admin, func(c *fiber.Ctx) error {
			req, err := store.Get(c.Params("id"))
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, req.StatusHistory)
		},
	)

	g.Put(
		"/:id", admin, func(c *fiber.Ctx) error {
			var body statusUpdateBody
			if err := c.BodyParser(&body); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			updated, err := store.AppendStatus(
				c.Params("id"), model.StatusUpdate{
					Status: body.Status,
					Note:   body.Note,
					Patch:  body.ContactPatch,
				}, actor(c, opts.DefaultActor),
			)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, updated)
		},
	)

	g.Delete(
		"/:id", admin, func(c *fiber.Ctx) error {
			record, err := store.Delete(c.Params("id"), actor(c, opts.DefaultActor))
			if err != nil {
				return RespondError(c, err)
			}
			return respondMessage(c, fiber.StatusOK, kind.Name+" request deleted", record)
		},
	)
}

// requestFilter reads the listing filter from the query. A filter field can
// be passed as field=<name>&value=<v> or directly as <name>=<v>; status takes
// a comma separated list of current statuses.
func requestFilter(c *fiber.Ctx, kind model.Kind) (model.RequestFilter, error) {
	filter := model.RequestFilter{
		Field: c.Query("field"),
		Value: c.Query("value"),
	}
	if filter.Field == "" {
		for _, f := range kind.FilterFields {
			if v := c.Query(f); v != "" {
				filter.Field = f
				filter.Value = v
				break
			}
		}
	}
	statuses, err := model.ParseStatuses(kind, c.Query("status"))
	if err != nil {
		return filter, err
	}
	filter.Statuses = statuses
	return filter, nil
}
