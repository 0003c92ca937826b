package engine

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Chillizu/ai-workflow-studio/pkg/eventbus"
	"github.com/Chillizu/ai-workflow-studio/pkg/events"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/otelhelper"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// NodeExecutor runs one node: it resolves the processor, gathers inputs from
// the context, invokes the processor and records result and status, emitting
// a node:progress event at every transition.
type NodeExecutor struct {
	registry  *processor.Registry
	publisher eventbus.EventPublisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewNodeExecutor(registry *processor.Registry, publisher eventbus.EventPublisher, logger *slog.Logger, tracer trace.Tracer) *NodeExecutor {
	return &NodeExecutor{
		registry:  registry,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}

// Execute mutates the context and returns the node's failure, if any. The
// caller decides how a failure affects the rest of the run.
func (e *NodeExecutor) Execute(ctx context.Context, nodeID string, execCtx *ExecutionContext) error {
	node := execCtx.Workflow().NodeByID(nodeID)
	if node == nil {
		return fmt.Errorf("node not found: %s", nodeID)
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
		attribute.String(otelhelper.ExecutionIDKey, execCtx.ExecutionID),
		attribute.String(otelhelper.NodeIDKey, nodeID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
	)
	defer span.End()

	execCtx.SetStatus(nodeID, models.NodeStatusRunning)
	e.emitProgress(ctx, execCtx, nodeID, models.NodeStatusRunning, nil, "")

	err := e.run(ctx, node, execCtx)
	if err != nil {
		execCtx.SetStatus(nodeID, models.NodeStatusError)
		e.emitProgress(ctx, execCtx, nodeID, models.NodeStatusError, nil, err.Error())
		otelhelper.SetError(span, err)

		return err
	}

	return nil
}

func (e *NodeExecutor) run(ctx context.Context, node *models.Node, execCtx *ExecutionContext) error {
	// The validator already rejects unknown types; this guards direct callers.
	proc, ok := e.registry.Get(node.Type)
	if !ok {
		return fmt.Errorf("no processor registered for node type: %s", node.Type)
	}

	inputs := execCtx.InputsFor(node.ID)

	logger := e.logger.With("execution_id", execCtx.ExecutionID, "node_id", node.ID, "node_type", node.Type)
	logger.Debug("Executing node")

	result, err := proc.Execute(ctx, processor.ProcessContext{
		NodeID:      node.ID,
		WorkflowID:  execCtx.WorkflowID,
		ExecutionID: execCtx.ExecutionID,
		Inputs:      inputs,
		Config:      node.Data.Config,
	})
	if err != nil {
		logger.Error("Node execution failed", "error", err)

		return err
	}

	outputs := map[string]any{}
	if result != nil && result.Outputs != nil {
		outputs = result.Outputs
	}

	execCtx.SetResult(node.ID, outputs)
	execCtx.SetStatus(node.ID, models.NodeStatusSuccess)
	e.emitProgress(ctx, execCtx, node.ID, models.NodeStatusSuccess, outputs, "")

	logger.Debug("Node executed successfully")

	return nil
}

func (e *NodeExecutor) emitProgress(ctx context.Context, execCtx *ExecutionContext, nodeID string, status models.NodeStatus, outputs map[string]any, errMessage string) {
	event := events.NodeProgress{
		ExecutionID: execCtx.ExecutionID,
		NodeID:      nodeID,
		Status:      status,
		Outputs:     outputs,
		Error:       errMessage,
	}

	if err := e.publisher.Publish(ctx, execCtx.ExecutionID, event); err != nil {
		e.logger.Warn("Failed to publish node progress event", "node_id", nodeID, "error", err)
	}
}
