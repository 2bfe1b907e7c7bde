package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-it/backoffice/storage/model"
)

// registerUsers wires handlers using a UsersStore abstraction.
func registerUsers(r fiber.Router, users model.UsersStore, admin fiber.Handler) {
	g := r.Group("/users", admin)

	g.Get(
		"/", func(c *fiber.Ctx) error {
			list, err := users.List()
			if err != nil {
				return RespondError(c, err)
			}
			if list == nil {
				list = []model.User{}
			}
			return respond(c, fiber.StatusOK, list)
		},
	)

	type createReq struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req createReq
			if err := c.BodyParser(&req); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			u, err := users.Create(req.Username, req.Password, req.DisplayName)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusCreated, u)
		},
	)

	type updateReq struct {
		DisplayName *string `json:"display_name"`
		Password    *string `json:"password"`
		Disabled    *bool   `json:"disabled"`
	}
	g.Put(
		"/:username", func(c *fiber.Ctx) error {
			var req updateReq
			if err := c.BodyParser(&req); err != nil {
				return RespondError(c, badRequest("invalid body"))
			}
			u, err := users.Update(c.Params("username"), req.DisplayName, req.Password, req.Disabled)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, u)
		},
	)

	g.Get(
		"/:username", func(c *fiber.Ctx) error {
			u, err := users.Get(c.Params("username"))
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, u)
		},
	)

	g.Delete(
		"/:username", func(c *fiber.Ctx) error {
			username := c.Params("username")
			if err := users.Delete(username); err != nil {
				return RespondError(c, err)
			}
			return respondMessage(c, fiber.StatusOK, "user deleted", fiber.Map{"username": username})
		},
	)
}
