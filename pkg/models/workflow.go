// Package models defines the core domain models for visual workflow pipelines.
package models

import "time"

// Workflow is a directed acyclic graph of typed processing nodes.
type Workflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"        validate:"required,min=1"`
	Description string    `json:"description"`
	Nodes       []*Node   `json:"nodes"`
	Edges       []*Edge   `json:"edges"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NodeByID returns the node with the given id, or nil if absent.
func (w *Workflow) NodeByID(id string) *Node {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// Edge is a directed data dependency: the target port's value is the source
// port's produced output after the source node completes.
type Edge struct {
	ID         string `json:"id"`
	Source     string `json:"source"       validate:"required"`
	SourcePort string `json:"sourceHandle" validate:"required"`
	Target     string `json:"target"       validate:"required"`
	TargetPort string `json:"targetHandle" validate:"required"`
}
