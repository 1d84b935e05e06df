package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestLogger logs one structured line per request. Errors returned by the
// chain are handed to the app's error handler first so the logged status is
// the one the client receives.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"route", c.Route().Path,
			"ip", c.IP(),
			"status", c.Response().StatusCode(),
			"latency_ms", float64(time.Since(start).Nanoseconds()) / 1000000.0,
			"bytes_written", len(c.Response().Body()),
		}
		if id := c.Locals(requestid.ConfigDefault.ContextKey); id != nil {
			attrs = append(attrs, "request_id", fmt.Sprint(id))
		}
		logger.Info("Served request", attrs...)
		return nil
	}
}
