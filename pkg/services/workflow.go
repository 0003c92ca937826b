// Package services implements the application logic between the HTTP
// surface and the engine, persistence, and adapter layers.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// WorkflowService owns workflow CRUD.
type WorkflowService struct {
	workflows persistence.WorkflowRepository
	logger    *slog.Logger
}

func NewWorkflowService(workflows persistence.WorkflowRepository, logger *slog.Logger) *WorkflowService {
	return &WorkflowService{
		workflows: workflows,
		logger:    logger.With("module", "workflow_service"),
	}
}

func (s *WorkflowService) List(ctx context.Context) ([]*models.Workflow, error) {
	return s.workflows.List(ctx)
}

func (s *WorkflowService) Get(ctx context.Context, id string) (*models.Workflow, error) {
	return s.workflows.GetByID(ctx, id)
}

// Create persists a new workflow, assigning ID and timestamps.
func (s *WorkflowService) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	now := time.Now().UTC()

	workflow.ID = uuid.New().String()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	if err := s.workflows.Save(ctx, workflow); err != nil {
		return nil, err
	}

	s.logger.Info("workflow created", "workflow_id", workflow.ID, "name", workflow.Name)

	return workflow, nil
}

// Update overwrites an existing workflow, preserving its creation time.
func (s *WorkflowService) Update(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	existing, err := s.workflows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = existing.ID
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	if err := s.workflows.Save(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	if err := s.workflows.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("workflow deleted", "workflow_id", id)

	return nil
}
