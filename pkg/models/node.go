package models

// Position is the node's placement in the visual editor. It has no effect on
// execution.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData carries the editable part of a node: its label, declared ports and
// the node-type-specific configuration blob.
type NodeData struct {
	Label   string         `json:"label"`
	Inputs  []InputPort    `json:"inputs"`
	Outputs []OutputPort   `json:"outputs"`
	Config  map[string]any `json:"config"`
}

// Node is one typed unit of work in a workflow graph. Type is a key into the
// processor registry.
type Node struct {
	ID       string   `json:"id"       validate:"required"`
	Type     string   `json:"type"     validate:"required"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// InputByID returns the declared input port with the given id.
func (n *Node) InputByID(portID string) (InputPort, bool) {
	for _, p := range n.Data.Inputs {
		if p.ID == portID {
			return p, true
		}
	}

	return InputPort{}, false
}

// OutputByID returns the declared output port with the given id.
func (n *Node) OutputByID(portID string) (OutputPort, bool) {
	for _, p := range n.Data.Outputs {
		if p.ID == portID {
			return p, true
		}
	}

	return OutputPort{}, false
}

// NodeStatus defines the possible states of a node execution. It is held
// in-memory per execution and folded into the execution record at the end.
type NodeStatus string

const (
	NodeStatusPending NodeStatus = "pending"
	NodeStatusRunning NodeStatus = "running"
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)
