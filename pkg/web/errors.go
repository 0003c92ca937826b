package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// problem writes an RFC 7807 response with the request path as instance.
func problem(c fiber.Ctx, status int, problemType, detail string) error {
	body := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(status).JSON(body)
}

func badRequest(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusBadRequest, "validation_error", detail)
}

func notFound(c fiber.Ctx, detail string) error {
	return problem(c, fiber.StatusNotFound, "not_found", detail)
}

func internalError(c fiber.Ctx, err error) error {
	return problem(c, fiber.StatusInternalServerError, "internal_error", err.Error())
}

// handleServiceError maps service layer errors onto problem responses.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, persistence.ErrWorkflowNotFound):
		return notFound(c, "workflow not found")
	case errors.Is(err, persistence.ErrExecutionNotFound):
		return notFound(c, "execution not found")
	case errors.Is(err, persistence.ErrAPIConfigNotFound):
		return notFound(c, "api config not found")
	default:
		return internalError(c, err)
	}
}
