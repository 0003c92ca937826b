// Package processor defines the contract between the execution engine and
// node-type implementations.
package processor

import "context"

// ProcessContext is the per-invocation view a processor receives: the node's
// resolved inputs keyed by input-port id plus its configuration blob.
type ProcessContext struct {
	NodeID      string
	WorkflowID  string
	ExecutionID string
	Inputs      map[string]any
	Config      map[string]any
}

// Result is what a processor produces: an output bundle keyed by output-port
// id and optional free-form metadata.
type Result struct {
	Outputs  map[string]any
	Metadata map[string]any
}

// Processor maps declared inputs plus a config blob to declared outputs for
// one node type. Implementations must be stateless across invocations: the
// registry shares a single instance between all concurrent runs.
type Processor interface {
	// Type returns the node-type key this processor handles.
	Type() string

	// Execute runs the node's transformation.
	Execute(ctx context.Context, pc ProcessContext) (*Result, error)

	// Schema returns the JSON schema for the node's config block, or nil if
	// the config is free-form.
	Schema() map[string]any
}
