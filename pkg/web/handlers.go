// Package web provides the REST API over workflows, executions, API
// configurations, and the node catalog.
package web

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
	"github.com/Chillizu/ai-workflow-studio/pkg/services"
)

type APIHandlers struct {
	workflows  *services.WorkflowService
	executions *services.ExecutionService
	configs    *services.APIConfigService
	registry   *processor.Registry
	validator  *validator.Validate
}

func NewAPIHandlers(
	workflows *services.WorkflowService,
	executions *services.ExecutionService,
	configs *services.APIConfigService,
	registry *processor.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflows:  workflows,
		executions: executions,
		configs:    configs,
		registry:   registry,
		validator:  validator.New(),
	}
}

// RegisterRoutes mounts every endpoint on the app.
func (h *APIHandlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/nodes", h.GetNodes)

	app.Get("/workflows", h.GetWorkflows)
	app.Post("/workflows", h.CreateWorkflow)
	app.Get("/workflows/:id", h.GetWorkflow)
	app.Put("/workflows/:id", h.UpdateWorkflow)
	app.Delete("/workflows/:id", h.DeleteWorkflow)
	app.Post("/workflows/:id/validate", h.ValidateWorkflow)
	app.Post("/workflows/:id/execute", h.ExecuteWorkflow)
	app.Get("/workflows/:id/executions", h.GetWorkflowExecutions)

	app.Get("/executions", h.GetExecutions)
	app.Get("/executions/:id", h.GetExecution)
	app.Post("/executions/:id/cancel", h.CancelExecution)

	app.Get("/configs", h.GetAPIConfigs)
	app.Post("/configs", h.CreateAPIConfig)
	app.Get("/configs/:id", h.GetAPIConfig)
	app.Put("/configs/:id", h.UpdateAPIConfig)
	app.Delete("/configs/:id", h.DeleteAPIConfig)
	app.Post("/configs/:id/test", h.TestAPIConfig)
	app.Get("/configs/:id/models", h.GetAPIConfigModels)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"message": "Studio API is healthy",
	})
}

// GetNodes lists every registered processor type with its config schema.
func (h *APIHandlers) GetNodes(c fiber.Ctx) error {
	processors := h.registry.All()

	descriptors := make([]NodeDescriptor, 0, len(processors))
	for _, p := range processors {
		descriptors = append(descriptors, NodeDescriptor{
			Type:   p.Type(),
			Schema: p.Schema(),
		})
	}

	return c.JSON(descriptors)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflows.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflows.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.workflows.Create(c.Context(), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(workflow)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	workflow, err := h.workflows.Update(c.Context(), c.Params("id"), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	if err := h.workflows.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// ValidateWorkflow reports validation errors without running the workflow.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	validationErrors, err := h.executions.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"valid":  len(validationErrors) == 0,
		"errors": validationErrors,
	})
}

// ExecuteWorkflow runs the workflow and returns the finished execution
// record. Progress streams over the event bus while it runs.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	record, err := h.executions.Run(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(record)
}

func (h *APIHandlers) GetWorkflowExecutions(c fiber.Ctx) error {
	records, err := h.executions.ListByWorkflow(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(records)
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	records, err := h.executions.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(records)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	record, err := h.executions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) CancelExecution(c fiber.Ctx) error {
	if err := h.executions.Cancel(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(http.StatusAccepted)
}

func (h *APIHandlers) GetAPIConfigs(c fiber.Ctx) error {
	configs, err := h.configs.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(configs)
}

func (h *APIHandlers) GetAPIConfig(c fiber.Ctx) error {
	config, err := h.configs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(config)
}

func (h *APIHandlers) CreateAPIConfig(c fiber.Ctx) error {
	var req APIConfigRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	config, err := h.configs.Create(c.Context(), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(config)
}

func (h *APIHandlers) UpdateAPIConfig(c fiber.Ctx) error {
	var req APIConfigRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	config, err := h.configs.Update(c.Context(), c.Params("id"), req.toModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(config)
}

func (h *APIHandlers) DeleteAPIConfig(c fiber.Ctx) error {
	if err := h.configs.Delete(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// TestAPIConfig checks the provider connection for a config.
func (h *APIHandlers) TestAPIConfig(c fiber.Ctx) error {
	if err := h.configs.TestConnection(c.Context(), c.Params("id")); err != nil {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *APIHandlers) GetAPIConfigModels(c fiber.Ctx) error {
	models, err := h.configs.Models(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"models": models})
}
