// Package persistence defines the storage contracts for workflows,
// execution records, and API configurations.
package persistence

import (
	"context"
	"errors"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
)

var (
	ErrWorkflowNotFound  = errors.New("workflow not found")
	ErrExecutionNotFound = errors.New("execution not found")
	ErrAPIConfigNotFound = errors.New("api config not found")
)

// WorkflowRepository stores workflow documents.
type WorkflowRepository interface {
	List(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores execution records, listed newest first.
type ExecutionRepository interface {
	List(ctx context.Context) ([]*models.ExecutionRecord, error)
	ListByWorkflow(ctx context.Context, workflowID string) ([]*models.ExecutionRecord, error)
	GetByID(ctx context.Context, id string) (*models.ExecutionRecord, error)
	Save(ctx context.Context, record *models.ExecutionRecord) error
}

// APIConfigRepository stores provider credentials and settings.
type APIConfigRepository interface {
	List(ctx context.Context) ([]*models.APIConfig, error)
	GetByID(ctx context.Context, id string) (*models.APIConfig, error)
	Save(ctx context.Context, config *models.APIConfig) error
	Delete(ctx context.Context, id string) error
}

// Persistence bundles the repositories behind one handle.
type Persistence interface {
	Workflows() WorkflowRepository
	Executions() ExecutionRepository
	APIConfigs() APIConfigRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
