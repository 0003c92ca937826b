package engine

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// Validator checks a workflow's structural and semantic soundness before
// execution. The four checks run independently and their findings are
// concatenated; none of them short-circuits the others.
type Validator struct {
	registry *processor.Registry
}

func NewValidator(registry *processor.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate returns every problem found in the workflow. Execution must not
// proceed if the returned list is non-empty.
func (v *Validator) Validate(workflow *models.Workflow) []models.ValidationError {
	errs := make([]models.ValidationError, 0)

	errs = append(errs, v.validateNodeConfigs(workflow.Nodes)...)
	errs = append(errs, v.validateConnections(workflow.Nodes, workflow.Edges)...)
	errs = append(errs, v.validateRequiredInputs(workflow.Nodes, workflow.Edges)...)
	errs = append(errs, v.validateCircularDependencies(workflow.Nodes, workflow.Edges)...)

	return errs
}

// validateNodeConfigs checks every node type resolves in the registry, and
// where the processor publishes a config schema, validates the node's config
// block against it.
func (v *Validator) validateNodeConfigs(nodes []*models.Node) []models.ValidationError {
	errs := make([]models.ValidationError, 0)

	for _, node := range nodes {
		proc, ok := v.registry.Get(node.Type)
		if !ok {
			errs = append(errs, models.ValidationError{
				Kind:    models.ValidationInvalidConfig,
				NodeID:  node.ID,
				Message: fmt.Sprintf("unknown node type: %s", node.Type),
			})

			continue
		}

		schema := proc.Schema()
		if schema == nil {
			continue
		}

		config := node.Data.Config
		if config == nil {
			config = map[string]any{}
		}

		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(schema),
			gojsonschema.NewGoLoader(config),
		)
		if err != nil {
			errs = append(errs, models.ValidationError{
				Kind:    models.ValidationInvalidConfig,
				NodeID:  node.ID,
				Message: fmt.Sprintf("config schema validation failed: %v", err),
			})

			continue
		}

		for _, desc := range result.Errors() {
			errs = append(errs, models.ValidationError{
				Kind:    models.ValidationInvalidConfig,
				NodeID:  node.ID,
				Message: fmt.Sprintf("invalid config: %s", desc.String()),
			})
		}
	}

	return errs
}

// validateConnections checks each edge's ports exist and their data kinds are
// compatible. Edges referencing missing nodes are tolerated here (they come
// from deleted nodes in the editor) and simply not validated further.
func (v *Validator) validateConnections(nodes []*models.Node, edges []*models.Edge) []models.ValidationError {
	errs := make([]models.ValidationError, 0)

	nodeMap := make(map[string]*models.Node, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}

	for _, edge := range edges {
		sourceNode, sourceOK := nodeMap[edge.Source]
		targetNode, targetOK := nodeMap[edge.Target]

		if !sourceOK || !targetOK {
			continue
		}

		sourceOutput, haveOutput := sourceNode.OutputByID(edge.SourcePort)
		if !haveOutput {
			errs = append(errs, models.ValidationError{
				Kind:    models.ValidationInvalidConnection,
				NodeID:  edge.Source,
				Message: fmt.Sprintf("invalid output port: %s", edge.SourcePort),
			})
		}

		targetInput, haveInput := targetNode.InputByID(edge.TargetPort)
		if !haveInput {
			errs = append(errs, models.ValidationError{
				Kind:    models.ValidationInvalidConnection,
				NodeID:  edge.Target,
				Message: fmt.Sprintf("invalid input port: %s", edge.TargetPort),
			})
		}

		if haveOutput && haveInput && !models.Compatible(sourceOutput.Kind, targetInput.Kind) {
			errs = append(errs, models.ValidationError{
				Kind:    models.ValidationInvalidConnection,
				NodeID:  edge.Target,
				Message: fmt.Sprintf("incompatible kinds: %s -> %s", sourceOutput.Kind, targetInput.Kind),
			})
		}
	}

	return errs
}

// validateRequiredInputs checks every required input port has at least one
// incoming edge.
func (v *Validator) validateRequiredInputs(nodes []*models.Node, edges []*models.Edge) []models.ValidationError {
	errs := make([]models.ValidationError, 0)

	connected := make(map[string]bool, len(edges))
	for _, e := range edges {
		connected[e.Target+":"+e.TargetPort] = true
	}

	for _, node := range nodes {
		for _, input := range node.Data.Inputs {
			if input.Required && !connected[node.ID+":"+input.ID] {
				errs = append(errs, models.ValidationError{
					Kind:    models.ValidationMissingInput,
					NodeID:  node.ID,
					Message: fmt.Sprintf("missing required input: %s", input.Name),
				})
			}
		}
	}

	return errs
}

type dfsFrame struct {
	nodeID string
	next   int
}

const (
	colorWhite = iota
	colorGrey
	colorBlack
)

// validateCircularDependencies runs a depth-first search with an explicit
// stack (graphs from the editor can be deep enough to threaten the call
// stack). A back-edge into the active path is a cycle; one report is enough,
// the workflow is rejected regardless of how many cycles exist.
func (v *Validator) validateCircularDependencies(nodes []*models.Node, edges []*models.Edge) []models.ValidationError {
	adjacency := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		adjacency[n.ID] = nil
	}

	for _, e := range edges {
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}

	color := make(map[string]int, len(nodes))

	for _, root := range nodes {
		if color[root.ID] != colorWhite {
			continue
		}

		stack := []dfsFrame{{nodeID: root.ID}}
		color[root.ID] = colorGrey

		for len(stack) > 0 {
			frame := &stack[len(stack)-1]
			neighbors := adjacency[frame.nodeID]

			if frame.next < len(neighbors) {
				neighbor := neighbors[frame.next]
				frame.next++

				switch color[neighbor] {
				case colorWhite:
					color[neighbor] = colorGrey
					stack = append(stack, dfsFrame{nodeID: neighbor})
				case colorGrey:
					return []models.ValidationError{{
						Kind:    models.ValidationCircularDependency,
						NodeID:  root.ID,
						Message: "circular dependency detected",
					}}
				}

				continue
			}

			color[frame.nodeID] = colorBlack
			stack = stack[:len(stack)-1]
		}
	}

	return nil
}
