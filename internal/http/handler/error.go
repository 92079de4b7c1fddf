package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fileview/internal/http/middleware"
)

// errorPayload is the body of every error response.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the error envelope. code is machine readable
// ("NOT_LOADED", "UPSTREAM_UNAVAILABLE"); message never carries internal
// error details.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// fallbackErrors maps statuses raised by fiber itself (unknown route, wrong
// method, body limits) onto envelope codes.
var fallbackErrors = map[int]errorEnvelope{
	fiber.StatusBadRequest:       {Code: "BAD_REQUEST", Message: "bad request"},
	fiber.StatusNotFound:         {Code: "NOT_FOUND", Message: "resource not found"},
	fiber.StatusMethodNotAllowed: {Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
	fiber.StatusRequestTimeout:   {Code: "REQUEST_TIMEOUT", Message: "request timeout"},
}

// ErrorHandler is the fiber error handler; anything unmapped becomes a 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		if env, ok := fallbackErrors[status]; ok {
			return writeError(c, status, env.Code, env.Message)
		}
		return writeError(c, status, "INTERNAL_ERROR", "internal server error")
	}
}
