// Package events defines the lifecycle events emitted by the workflow
// execution engine. Event names and payload fields are the wire contract
// consumed by external notification relays; do not rename them.
package events

import "github.com/Chillizu/ai-workflow-studio/pkg/models"

type EventType string

// Topic is the bus topic all engine events are published to.
const Topic = "studio.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution:started"
	ExecutionProgressEvent  EventType = "execution:progress"
	NodeProgressEvent       EventType = "node:progress"
	ExecutionCompletedEvent EventType = "execution:completed"
	ExecutionFailedEvent    EventType = "execution:failed"
	ExecutionCancelledEvent EventType = "execution:cancelled"
)

// ExecutionStarted fires once per run, after validation passes and before any
// node executes.
type ExecutionStarted struct {
	ExecutionID string `json:"executionId"`
	WorkflowID  string `json:"workflowId"`
	TotalNodes  int    `json:"totalNodes"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// ExecutionProgress fires after each dependency level completes.
type ExecutionProgress struct {
	ExecutionID    string  `json:"executionId"`
	Progress       float64 `json:"progress"`
	CompletedNodes int     `json:"completedNodes"`
	TotalNodes     int     `json:"totalNodes"`
}

func (e ExecutionProgress) GetType() EventType {
	return ExecutionProgressEvent
}

// NodeProgress fires on every node status transition. Outputs is set on
// success, Error on failure.
type NodeProgress struct {
	ExecutionID string            `json:"executionId"`
	NodeID      string            `json:"nodeId"`
	Status      models.NodeStatus `json:"status"`
	Outputs     map[string]any    `json:"outputs,omitempty"`
	Error       string            `json:"error,omitempty"`
}

func (e NodeProgress) GetType() EventType {
	return NodeProgressEvent
}

// ExecutionCompleted carries the aggregated per-node output bundles.
type ExecutionCompleted struct {
	ExecutionID string                    `json:"executionId"`
	Results     map[string]map[string]any `json:"results"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	ExecutionID string `json:"executionId"`
	Error       string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// ExecutionCancelled is a notification only; in-flight work is not stopped.
type ExecutionCancelled struct {
	ExecutionID string `json:"executionId"`
}

func (e ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

// NewOfType returns an empty event value suitable for decoding a payload of
// the given type, or false for types this package does not know.
func NewOfType(eventType EventType) (any, bool) {
	switch eventType {
	case ExecutionStartedEvent:
		return &ExecutionStarted{}, true
	case ExecutionProgressEvent:
		return &ExecutionProgress{}, true
	case NodeProgressEvent:
		return &NodeProgress{}, true
	case ExecutionCompletedEvent:
		return &ExecutionCompleted{}, true
	case ExecutionFailedEvent:
		return &ExecutionFailed{}, true
	case ExecutionCancelledEvent:
		return &ExecutionCancelled{}, true
	default:
		return nil, false
	}
}
