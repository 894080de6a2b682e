package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the JSON shape of every response, success or failure.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// JSON writes a success envelope with the given status.
func JSON(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// ErrorHandler returns the centralized Fiber error handler. Domain errors are
// surfaced verbatim (status + message); anything unrecognized becomes a 500
// with a generic message so internals never leak to callers.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := http.StatusInternalServerError
		message := "internal server error"
		var data any

		var domainErr *Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &domainErr):
			status = domainErr.Status
			message = domainErr.Message
			if domainErr.Reason != "" {
				data = fiber.Map{"reason": domainErr.Reason}
			}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		default:
			if logger != nil {
				logger.Error("unhandled request error",
					slog.String("method", c.Method()),
					slog.String("path", c.Path()),
					slog.Any("error", err),
				)
			}
		}

		return c.Status(status).JSON(Envelope{
			StatusCode: status,
			Data:       data,
			Message:    message,
			Success:    false,
		})
	}
}
