package response

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/qppgateway/api/internal/model"
)

type ErrorResponse struct {
	Error   string      `json:"Error"`
	Details interface{} `json:"Details,omitempty"`
}

func Error(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func BadRequest(c *fiber.Ctx, message string, details interface{}) error {
	return Error(c, fiber.StatusBadRequest, message, details)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message, nil)
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message, nil)
}

// FromError renders a job error: request errors are the caller's fault,
// every other kind is a server failure
func FromError(c *fiber.Ctx, err error) error {
	var details interface{}
	var jobErr *model.JobError
	if errors.As(err, &jobErr) {
		details = jobErr.Details
	}
	return Error(c, Status(err), err.Error(), details)
}

// Status maps an error to its HTTP status by kind
func Status(err error) int {
	if model.KindOf(err) == model.ErrorKindRequest {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}
