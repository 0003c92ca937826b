package models

import "time"

// ExecutionStatus represents the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// ExecutionRecord is the persisted summary of one engine run. It is created
// when the run starts and finalized exactly once when the run terminates.
type ExecutionRecord struct {
	ID          string                    `json:"id"`
	WorkflowID  string                    `json:"workflowId"`
	Status      ExecutionStatus           `json:"status"`
	StartTime   time.Time                 `json:"startTime"`
	EndTime     *time.Time                `json:"endTime,omitempty"`
	NodeResults map[string]map[string]any `json:"nodeResults"`
	Error       string                    `json:"error,omitempty"`
}

// ExecutionResult is the terminal result returned by the engine. It carries
// either a results map (completed) or an errors list (failed), never both.
type ExecutionResult struct {
	ExecutionID string                    `json:"executionId"`
	Status      ExecutionStatus           `json:"status"`
	Results     map[string]map[string]any `json:"results,omitempty"`
	Errors      []string                  `json:"errors,omitempty"`
}
