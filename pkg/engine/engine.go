package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Chillizu/ai-workflow-studio/pkg/eventbus"
	"github.com/Chillizu/ai-workflow-studio/pkg/events"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/otelhelper"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// Engine orchestrates one workflow run: validate, partition into dependency
// levels, execute each level's nodes concurrently behind a barrier, and
// aggregate per-node results into a terminal ExecutionResult.
//
// Engines are cheap and safe to share: all per-run state lives in the
// ExecutionContext created inside Execute.
type Engine struct {
	registry  *processor.Registry
	validator *Validator
	executor  *NodeExecutor
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

func New(registry *processor.Registry, publisher eventbus.EventPublisher, logger *slog.Logger, tracer trace.Tracer) *Engine {
	return &Engine{
		registry:  registry,
		validator: NewValidator(registry),
		executor:  NewNodeExecutor(registry, publisher, logger, tracer),
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}

// Validator exposes the engine's validator so callers can pre-check a
// workflow without running it.
func (e *Engine) Validator() *Validator {
	return e.validator
}

// Execute runs the workflow to a terminal result. The result carries either
// a results map (completed) or an errors list (failed), never both. A
// validation failure produces no events at all; in particular no started
// event fires.
func (e *Engine) Execute(ctx context.Context, workflow *models.Workflow) models.ExecutionResult {
	executionID := uuid.New().String()

	logger := e.logger.With("workflow_id", workflow.ID, "execution_id", executionID)

	validationErrs := e.validator.Validate(workflow)
	if len(validationErrs) > 0 {
		messages := make([]string, 0, len(validationErrs))
		for _, verr := range validationErrs {
			messages = append(messages, verr.Message)
		}

		logger.Info("Workflow rejected by validation", "errors", len(validationErrs))

		return models.ExecutionResult{
			ExecutionID: executionID,
			Status:      models.ExecutionStatusFailed,
			Errors:      messages,
		}
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
		attribute.String(otelhelper.ExecutionIDKey, executionID),
	)
	defer span.End()

	levels := ComputeLevels(workflow.Nodes, workflow.Edges)

	totalNodes := 0
	for _, level := range levels {
		totalNodes += len(level)
	}

	execCtx := NewExecutionContext(executionID, workflow)
	for _, node := range workflow.Nodes {
		execCtx.SetStatus(node.ID, models.NodeStatusPending)
	}

	e.publish(ctx, executionID, events.ExecutionStarted{
		ExecutionID: executionID,
		WorkflowID:  workflow.ID,
		TotalNodes:  totalNodes,
	})

	logger.Info("Starting workflow execution", "levels", len(levels), "nodes", totalNodes)

	completed := 0

	for levelIndex, level := range levels {
		err := e.executeLevel(ctx, levelIndex, level, execCtx)
		if err != nil {
			logger.Error("Workflow execution failed", "level", levelIndex, "error", err)
			otelhelper.SetError(span, err)

			e.publish(ctx, executionID, events.ExecutionFailed{
				ExecutionID: executionID,
				Error:       err.Error(),
			})

			return models.ExecutionResult{
				ExecutionID: executionID,
				Status:      models.ExecutionStatusFailed,
				Errors:      []string{err.Error()},
			}
		}

		completed += len(level)

		e.publish(ctx, executionID, events.ExecutionProgress{
			ExecutionID:    executionID,
			Progress:       float64(completed) / float64(totalNodes) * 100,
			CompletedNodes: completed,
			TotalNodes:     totalNodes,
		})
	}

	results := execCtx.AllResults()

	e.publish(ctx, executionID, events.ExecutionCompleted{
		ExecutionID: executionID,
		Results:     results,
	})

	logger.Info("Workflow execution completed")

	return models.ExecutionResult{
		ExecutionID: executionID,
		Status:      models.ExecutionStatusCompleted,
		Results:     results,
	}
}

// executeLevel runs every node of one level concurrently and waits for all
// of them. Siblings of a failing node are allowed to finish; the error then
// stops the run before the next level starts.
func (e *Engine) executeLevel(ctx context.Context, levelIndex int, level []string, execCtx *ExecutionContext) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.level",
		attribute.Int(otelhelper.LevelIndexKey, levelIndex),
		attribute.String(otelhelper.ExecutionIDKey, execCtx.ExecutionID),
	)
	defer span.End()

	var waitGroup sync.WaitGroup

	nodeErrs := make([]error, len(level))

	for i, nodeID := range level {
		waitGroup.Add(1)

		go func(slot int, id string) {
			defer waitGroup.Done()

			nodeErrs[slot] = e.executor.Execute(ctx, id, execCtx)
		}(i, nodeID)
	}

	waitGroup.Wait()

	for i, err := range nodeErrs {
		if err != nil {
			return fmt.Errorf("node %s failed: %w", level[i], err)
		}
	}

	return nil
}

// Cancel emits a cancelled notification. In-flight work is not interrupted;
// true cancellation is deliberately not implemented.
func (e *Engine) Cancel(ctx context.Context, executionID string) {
	e.publish(ctx, executionID, events.ExecutionCancelled{ExecutionID: executionID})
}

func (e *Engine) publish(ctx context.Context, key string, event eventbus.Event) {
	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish execution event", "event", event.GetType(), "error", err)
	}
}
