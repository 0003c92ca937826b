package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/cache"
	"github.com/Chillizu/ai-workflow-studio/pkg/engine"
	"github.com/Chillizu/ai-workflow-studio/pkg/eventbus"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/otelhelper"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence/file"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
	"github.com/Chillizu/ai-workflow-studio/pkg/processors/text"
)

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ string, _ eventbus.Event) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStack(t *testing.T) (persistence.Persistence, *engine.Engine) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())

	registry := processor.NewRegistry(testLogger())
	registry.Register(text.NewInputProcessor())
	registry.Register(text.NewOutputProcessor())

	eng := engine.New(registry, noopPublisher{}, testLogger(), otelhelper.NoopTracer())

	return store, eng
}

func greetingWorkflow() *models.Workflow {
	return &models.Workflow{
		Name: "Greeting",
		Nodes: []*models.Node{
			{
				ID:   "in",
				Type: "textInput",
				Data: models.NodeData{
					Outputs: []models.OutputPort{{ID: "text", Kind: models.DataKindText}},
					Config:  map[string]any{"value": "hello"},
				},
			},
			{
				ID:   "out",
				Type: "textOutput",
				Data: models.NodeData{
					Inputs: []models.InputPort{{ID: "text", Kind: models.DataKindText, Required: true}},
				},
			},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "in", SourcePort: "text", Target: "out", TargetPort: "text"},
		},
	}
}

func TestWorkflowService_CreateAssignsIdentity(t *testing.T) {
	store, _ := testStack(t)
	svc := NewWorkflowService(store.Workflows(), testLogger())

	created, err := svc.Create(context.Background(), greetingWorkflow())

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestWorkflowService_UpdatePreservesCreationTime(t *testing.T) {
	store, _ := testStack(t)
	svc := NewWorkflowService(store.Workflows(), testLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, greetingWorkflow())
	require.NoError(t, err)

	replacement := greetingWorkflow()
	replacement.Name = "Renamed"

	updated, err := svc.Update(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestWorkflowService_UpdateMissing(t *testing.T) {
	store, _ := testStack(t)
	svc := NewWorkflowService(store.Workflows(), testLogger())

	_, err := svc.Update(context.Background(), "ghost", greetingWorkflow())
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
}

func TestExecutionService_RunPersistsRecord(t *testing.T) {
	store, eng := testStack(t)
	ctx := context.Background()

	workflows := NewWorkflowService(store.Workflows(), testLogger())
	executions := NewExecutionService(eng, store.Workflows(), store.Executions(), testLogger())

	created, err := workflows.Create(ctx, greetingWorkflow())
	require.NoError(t, err)

	record, err := executions.Run(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, record.Status)
	assert.Equal(t, created.ID, record.WorkflowID)
	assert.Equal(t, "hello", record.NodeResults["out"]["result"])
	require.NotNil(t, record.EndTime)

	persisted, err := executions.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Status, persisted.Status)
}

func TestExecutionService_RunFailureRecorded(t *testing.T) {
	store, eng := testStack(t)
	ctx := context.Background()

	workflows := NewWorkflowService(store.Workflows(), testLogger())
	executions := NewExecutionService(eng, store.Workflows(), store.Executions(), testLogger())

	broken := greetingWorkflow()
	broken.Edges = nil

	created, err := workflows.Create(ctx, broken)
	require.NoError(t, err)

	record, err := executions.Run(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusFailed, record.Status)
	assert.NotEmpty(t, record.Error)
}

func TestExecutionService_RunUnknownWorkflow(t *testing.T) {
	store, eng := testStack(t)
	executions := NewExecutionService(eng, store.Workflows(), store.Executions(), testLogger())

	_, err := executions.Run(context.Background(), "ghost")
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
}

func TestExecutionService_CancelMarksRecord(t *testing.T) {
	store, eng := testStack(t)
	ctx := context.Background()

	executions := NewExecutionService(eng, store.Workflows(), store.Executions(), testLogger())

	require.NoError(t, store.Executions().Save(ctx, &models.ExecutionRecord{
		ID:         "e1",
		WorkflowID: "wf-1",
		Status:     models.ExecutionStatusRunning,
	}))

	require.NoError(t, executions.Cancel(ctx, "e1"))

	record, err := executions.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCancelled, record.Status)
	assert.NotNil(t, record.EndTime)
}

func TestAPIConfigService_CreateValidates(t *testing.T) {
	store, _ := testStack(t)

	factory := adapters.NewFactory(testLogger())
	t.Cleanup(factory.CloseAll)

	svc := NewAPIConfigService(store.APIConfigs(), factory, cache.NewMemoryCache(16), testLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.APIConfig{
		Name:   "OpenAI",
		Type:   models.APIConfigTypeOpenAI,
		APIKey: "sk-test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = svc.Create(ctx, &models.APIConfig{Type: "mystery"})
	assert.Error(t, err)
}
