package handler

import (
	"fmt"
	"mime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/qppgateway/api/internal/middleware"
	"github.com/qppgateway/api/internal/model"
	"github.com/qppgateway/api/internal/serializer"
	"github.com/qppgateway/api/internal/service"
	"github.com/qppgateway/api/pkg/response"
)

const HeaderJobID = "X-Job-Id"

type SubmitHandler struct {
	service   *service.SimulationService
	validator *validator.Validate
}

func NewSubmitHandler(svc *service.SimulationService, v *validator.Validate) *SubmitHandler {
	return &SubmitHandler{
		service:   svc,
		validator: v,
	}
}

// Submit handles POST /submit. The job runs to completion before the
// response is written.
func (h *SubmitHandler) Submit(c *fiber.Ctx) error {
	if err := checkFormContentType(c.Get(fiber.HeaderContentType)); err != nil {
		return response.FromError(c, err)
	}

	var req model.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.BadRequest(c, "validation failed", formatValidationErrors(err))
	}

	job := h.service.NewJob(middleware.GetUserID(c), &req)
	c.Set(HeaderJobID, job.ID)

	result, err := h.service.Run(c.UserContext(), job)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.OK(c, serializer.Render(result))
}

// checkFormContentType accepts only form-encoded bodies. Media type
// parameters such as charset are allowed.
func checkFormContentType(contentType string) error {
	if strings.TrimSpace(contentType) == "" {
		return model.NewRequestError("content type not specified", nil)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != fiber.MIMEApplicationForm {
		return model.NewRequestError(fmt.Sprintf("content type %q not support", contentType), nil)
	}
	return nil
}
