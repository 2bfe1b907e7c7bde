package backoffice

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-it/backoffice/api"
)

// handleError is the fiber.ErrorHandler; errors that escape a handler, e.g.
// unknown routes or a recovered panic, are reported as api.Envelope
func handleError(ctx *fiber.Ctx, err error) error {
	return api.RespondError(ctx, err)
}
