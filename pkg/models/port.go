// Package models defines port models for node connections.
package models

// DataKind is the kind of value a port produces or accepts.
type DataKind string

const (
	DataKindText   DataKind = "text"
	DataKindImage  DataKind = "image"
	DataKindNumber DataKind = "number"
	DataKindAny    DataKind = "any"
)

// Compatible reports whether a source port kind may feed a target port kind.
// A target of kind "any" accepts everything; otherwise kinds must match
// exactly. No numeric/text coercion is performed.
func Compatible(source, target DataKind) bool {
	if target == DataKindAny {
		return true
	}

	return source == target
}

// InputPort is a declared input connection point on a node.
type InputPort struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Kind     DataKind `json:"type"`
	Required bool     `json:"required"`
}

// OutputPort is a declared output connection point on a node.
type OutputPort struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind DataKind `json:"type"`
}
