package handlers

import (
	"errors"
	"log/slog"

	"customerapi/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps errors returned by handlers to JSON responses. Errors it
// does not recognise become a 500 with a generic message and are logged.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An unexpected error occurred"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, repositories.ErrCustomerNotFound):
			code = fiber.StatusNotFound
			message = err.Error()
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"message": message,
		})
	}
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
