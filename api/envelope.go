package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/brightpath-it/backoffice/storage/model"
)

// Envelope is the body of every API response
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
}

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(
		Envelope{
			Success: true,
			Data:    data,
		},
	)
}

func respondMessage(c *fiber.Ctx, status int, msg string, data any) error {
	return c.Status(status).JSON(
		Envelope{
			Success: true,
			Data:    data,
			Message: msg,
		},
	)
}

// StatusFor maps an error to the HTTP status code it is reported with
func StatusFor(err error) int {
	var validationError model.ValidationError
	var notFoundError model.NotFoundError
	var alreadyExistsError model.AlreadyExistsError
	var fiberError *fiber.Error
	switch {
	case errors.As(err, &validationError):
		return fiber.StatusBadRequest
	case errors.As(err, &notFoundError):
		return fiber.StatusNotFound
	case errors.As(err, &alreadyExistsError):
		return fiber.StatusConflict
	case errors.As(err, &fiberError):
		return fiberError.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes err as a failure Envelope
func RespondError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	env := Envelope{Message: err.Error()}
	var validationError model.ValidationError
	if errors.As(err, &validationError) {
		env.Message = validationError.Message
		env.Allowed = validationError.Allowed
	}
	if status >= fiber.StatusInternalServerError {
		log.WithError(err).WithFields(
			log.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			},
		).Error("request failed")
		var persistenceError model.PersistenceError
		if !errors.As(err, &persistenceError) {
			env.Message = "internal server error"
		}
	}
	return c.Status(status).JSON(env)
}

func badRequest(msg string) error {
	return model.ValidationError{Message: msg}
}
