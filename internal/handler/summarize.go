package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/summarly/api/internal/client"
	"github.com/summarly/api/internal/model"
	"github.com/summarly/api/internal/service"
	"github.com/summarly/api/internal/store"
	"github.com/summarly/api/pkg/response"
)

type SummarizeHandler struct {
	service   *service.SummaryService
	validator *validator.Validate
}

func NewSummarizeHandler(svc *service.SummaryService, v *validator.Validate) *SummarizeHandler {
	return &SummarizeHandler{
		service:   svc,
		validator: v,
	}
}

// Submit handles POST /submit. Accepts text or a URL and queues an
// asynchronous summarization job.
func (h *SummarizeHandler) Submit(c *fiber.Ctx) error {
	var req model.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoInput) || errors.Is(err, service.ErrBothInputs) {
			return response.ValidationError(c, err.Error(), nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.Accepted(c, result)
}

// Status handles GET /status/:jobId.
func (h *SummarizeHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetStatus(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Result handles GET /result/:jobId. A job that has not reached a
// terminal state yet returns 200 with an in-flight message.
func (h *SummarizeHandler) Result(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetResult(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Summarize handles POST /summarize, the synchronous path.
func (h *SummarizeHandler) Summarize(c *fiber.Ctx) error {
	var req model.SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Summarize(c.Context(), req.Text)
	if err != nil {
		var summarizeErr *client.SummarizeError
		if errors.As(err, &summarizeErr) && summarizeErr.Kind == client.SummarizeTimeout {
			return response.AITimeout(c, "Summarization request timed out")
		}
		return response.AIError(c, err.Error())
	}

	return response.OK(c, result)
}

func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
