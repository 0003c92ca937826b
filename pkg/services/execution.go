package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Chillizu/ai-workflow-studio/pkg/engine"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// ExecutionService runs workflows through the engine and persists a record
// of every run.
type ExecutionService struct {
	engine     *engine.Engine
	workflows  persistence.WorkflowRepository
	executions persistence.ExecutionRepository
	logger     *slog.Logger
}

func NewExecutionService(
	eng *engine.Engine,
	workflows persistence.WorkflowRepository,
	executions persistence.ExecutionRepository,
	logger *slog.Logger,
) *ExecutionService {
	return &ExecutionService{
		engine:     eng,
		workflows:  workflows,
		executions: executions,
		logger:     logger.With("module", "execution_service"),
	}
}

// Run executes the workflow synchronously and returns the final record.
func (s *ExecutionService) Run(ctx context.Context, workflowID string) (*models.ExecutionRecord, error) {
	workflow, err := s.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	startTime := time.Now().UTC()

	result := s.engine.Execute(ctx, workflow)

	record := &models.ExecutionRecord{
		ID:          result.ExecutionID,
		WorkflowID:  workflowID,
		Status:      result.Status,
		StartTime:   startTime,
		NodeResults: result.Results,
	}

	now := time.Now().UTC()
	record.EndTime = &now

	if len(result.Errors) > 0 {
		record.Error = strings.Join(result.Errors, "; ")
	}

	if err := s.executions.Save(ctx, record); err != nil {
		s.logger.Error("saving execution record", "execution_id", record.ID, "error", err)
		return nil, err
	}

	s.logger.Info("execution finished",
		"execution_id", record.ID,
		"workflow_id", workflowID,
		"status", record.Status)

	return record, nil
}

// Validate checks a workflow without running it.
func (s *ExecutionService) Validate(ctx context.Context, workflowID string) ([]models.ValidationError, error) {
	workflow, err := s.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return s.engine.Validator().Validate(workflow), nil
}

// Cancel asks the engine to stop an execution.
func (s *ExecutionService) Cancel(ctx context.Context, executionID string) error {
	record, err := s.executions.GetByID(ctx, executionID)
	if err != nil {
		return err
	}

	s.engine.Cancel(ctx, executionID)

	if record.Status == models.ExecutionStatusRunning || record.Status == models.ExecutionStatusPending {
		record.Status = models.ExecutionStatusCancelled

		now := time.Now().UTC()
		record.EndTime = &now

		if err := s.executions.Save(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

func (s *ExecutionService) List(ctx context.Context) ([]*models.ExecutionRecord, error) {
	return s.executions.List(ctx)
}

func (s *ExecutionService) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.ExecutionRecord, error) {
	return s.executions.ListByWorkflow(ctx, workflowID)
}

func (s *ExecutionService) Get(ctx context.Context, id string) (*models.ExecutionRecord, error) {
	return s.executions.GetByID(ctx, id)
}
