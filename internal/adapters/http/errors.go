package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/expedition-planner/internal/core/domain"
	"github.com/samirrijal/expedition-planner/internal/core/usecases"
)

var errMissingPoint = errors.New("lat and lon are required")

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, validation_error, index_out_of_range, not_found, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// errFromService maps a use case error onto an APIError. Unknown errors are
// logged and reported as 500 without leaking their text.
func errFromService(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	var ie *domain.IndexError
	switch {
	case errors.As(err, &ve):
		return newError(c, fiber.StatusBadRequest, "validation_error", ve.Error())
	case errors.As(err, &ie):
		return newError(c, fiber.StatusBadRequest, "index_out_of_range", ie.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrNoClick):
		return errNotFound(c, err.Error())
	}

	LoggerFromCtx(c.UserContext()).Error("request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return newError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}
