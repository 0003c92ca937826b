package engine

import (
	"sync"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
)

// ExecutionContext is the per-run store of node output bundles and statuses.
// Nodes in the same level write concurrently, each to its own key, so the
// maps are guarded by a mutex. The engine's level barrier guarantees a
// node's reads happen strictly after all upstream writes.
type ExecutionContext struct {
	ExecutionID string
	WorkflowID  string

	workflow *models.Workflow

	mu      sync.RWMutex
	results map[string]map[string]any
	status  map[string]models.NodeStatus
}

func NewExecutionContext(executionID string, workflow *models.Workflow) *ExecutionContext {
	return &ExecutionContext{
		ExecutionID: executionID,
		WorkflowID:  workflow.ID,
		workflow:    workflow,
		results:     make(map[string]map[string]any),
		status:      make(map[string]models.NodeStatus),
	}
}

// Workflow returns the workflow this context belongs to.
func (c *ExecutionContext) Workflow() *models.Workflow {
	return c.workflow
}

// SetResult records a node's output bundle.
func (c *ExecutionContext) SetResult(nodeID string, outputs map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[nodeID] = outputs
}

// Result returns a node's recorded output bundle.
func (c *ExecutionContext) Result(nodeID string) (map[string]any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	outputs, ok := c.results[nodeID]

	return outputs, ok
}

// SetStatus records a node's execution status.
func (c *ExecutionContext) SetStatus(nodeID string, status models.NodeStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status[nodeID] = status
}

// Status returns a node's recorded execution status.
func (c *ExecutionContext) Status(nodeID string) (models.NodeStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status, ok := c.status[nodeID]

	return status, ok
}

// InputsFor computes a node's live input bundle by resolving its incoming
// edges against already-produced outputs. Edges whose source has not yet
// produced a result are omitted; level ordering makes that case unreachable
// for valid graphs.
func (c *ExecutionContext) InputsFor(nodeID string) map[string]any {
	inputs := make(map[string]any)

	if c.workflow.NodeByID(nodeID) == nil {
		return inputs
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, edge := range c.workflow.Edges {
		if edge.Target != nodeID {
			continue
		}

		sourceOutputs, ok := c.results[edge.Source]
		if !ok {
			continue
		}

		inputs[edge.TargetPort] = sourceOutputs[edge.SourcePort]
	}

	return inputs
}

// AllResults snapshots the per-node output bundles for reporting.
func (c *ExecutionContext) AllResults() map[string]map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]map[string]any, len(c.results))
	for nodeID, outputs := range c.results {
		snapshot[nodeID] = outputs
	}

	return snapshot
}

// AllStatus snapshots the per-node statuses for reporting.
func (c *ExecutionContext) AllStatus() map[string]models.NodeStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]models.NodeStatus, len(c.status))
	for nodeID, status := range c.status {
		snapshot[nodeID] = status
	}

	return snapshot
}
