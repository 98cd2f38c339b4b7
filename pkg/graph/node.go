package graph

import "github.com/chazu/burl/pkg/param"

// NodeID is a stable handle to a node, unique within a graph for the
// lifetime of the graph. The zero value is never assigned.
type NodeID uint64

// OpKind selects between native operators and script-defined operators.
// Dispatch over this tag happens in the evaluation engine.
type OpKind int

const (
	OpNative OpKind = iota
	OpScripted
)

func (k OpKind) String() string {
	switch k {
	case OpNative:
		return "native"
	case OpScripted:
		return "scripted"
	default:
		return "unknown"
	}
}

// OpRef names the operator backing a node.
type OpRef struct {
	Kind OpKind `json:"kind"`
	Name string `json:"name"`
}

// Connection identifies the source feeding an input slot.
type Connection struct {
	From   NodeID `json:"from"`
	Output string `json:"output"`
}

// Input is the state of one input slot: its declaration plus either a
// literal parameter value or an incoming edge. An input with a nil Conn
// resolves to Literal.
type Input struct {
	Slot    param.Slot
	Literal param.Value
	Conn    *Connection
}

// Node is one operator instance in the graph. Nodes are owned exclusively
// by their Graph; callers hold NodeIDs, not pointers, across edits.
type Node struct {
	ID      NodeID
	Op      OpRef
	Inputs  []*Input     // ordered as declared by the operator
	Outputs []param.Slot // ordered as declared by the operator
}

// Input returns the named input slot state, or nil.
func (n *Node) Input(name string) *Input {
	for _, in := range n.Inputs {
		if in.Slot.Name == name {
			return in
		}
	}
	return nil
}

// OutputSlot returns the named output slot declaration.
func (n *Node) OutputSlot(name string) (param.Slot, bool) {
	for _, out := range n.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return param.Slot{}, false
}
