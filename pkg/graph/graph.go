package graph

import (
	"sort"

	"github.com/chazu/burl/pkg/param"
)

// Graph is the node arena plus edge set for one document. It is not safe
// for concurrent mutation; the owning session serializes edits.
type Graph struct {
	nodes  map[NodeID]*Node
	nextID NodeID
	output NodeID // designated output node, 0 if unset
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// AddNode creates a node for the given operator schema and returns it.
// Input literals start at each slot's declared default.
func (g *Graph) AddNode(op OpRef, inputs, outputs []param.Slot) *Node {
	g.nextID++
	n := &Node{ID: g.nextID, Op: op, Outputs: outputs}
	for _, s := range inputs {
		def := s.Default
		if def.Type != s.Type {
			// Mesh slots and friends with no declared default get the
			// type's zero default.
			def = zeroDefault(s.Type)
		}
		n.Inputs = append(n.Inputs, &Input{Slot: s, Literal: def})
	}
	g.nodes[n.ID] = n
	return n
}

func zeroDefault(t param.Type) param.Value {
	switch t {
	case param.TypeVector:
		return param.Vec3(0, 0, 0)
	case param.TypeString:
		return param.String("")
	case param.TypeEnum:
		return param.Enum("")
	case param.TypeMesh:
		return param.EmptyMesh()
	default:
		return param.Scalar(0)
	}
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// Mesh literals are copied too, so one side can be edited while the
// other is being read.
func (g *Graph) Clone() *Graph {
	ng := New()
	ng.nextID = g.nextID
	ng.output = g.output
	for id, n := range g.nodes {
		nn := &Node{ID: n.ID, Op: n.Op, Outputs: append([]param.Slot(nil), n.Outputs...)}
		for _, in := range n.Inputs {
			ni := &Input{Slot: in.Slot, Literal: in.Literal}
			if ni.Literal.Type == param.TypeMesh && ni.Literal.Mesh != nil {
				ni.Literal = param.Mesh(ni.Literal.Mesh.Clone())
			}
			if in.Conn != nil {
				conn := *in.Conn
				ni.Conn = &conn
			}
			nn.Inputs = append(nn.Inputs, ni)
		}
		ng.nodes[id] = nn
	}
	return ng
}

// RemoveNode deletes a node and every edge touching it. Removing the
// designated output node clears the designation.
func (g *Graph) RemoveNode(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return structErr(ErrUnknownNode, id, "", "no such node")
	}
	delete(g.nodes, id)
	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			if in.Conn != nil && in.Conn.From == id {
				in.Conn = nil
			}
		}
	}
	if g.output == id {
		g.output = 0
	}
	return nil
}

// Connect adds a directed edge from (from, outSlot) to (to, inSlot).
// The mutation is rejected, leaving the graph unchanged, if either
// endpoint is missing, the slot types are incompatible, the destination
// slot already has an incoming edge, or the edge would create a cycle.
func (g *Graph) Connect(from NodeID, outSlot string, to NodeID, inSlot string) error {
	src, ok := g.nodes[from]
	if !ok {
		return structErr(ErrUnknownNode, from, "", "no such source node")
	}
	dst, ok := g.nodes[to]
	if !ok {
		return structErr(ErrUnknownNode, to, "", "no such destination node")
	}
	out, ok := src.OutputSlot(outSlot)
	if !ok {
		return structErr(ErrUnknownSlot, from, outSlot, "no such output slot")
	}
	in := dst.Input(inSlot)
	if in == nil {
		return structErr(ErrUnknownSlot, to, inSlot, "no such input slot")
	}
	if !param.AssignableTo(out.Type, in.Slot.Type) {
		return structErr(ErrTypeMismatch, to, inSlot,
			"cannot connect %s output to %s input", out.Type, in.Slot.Type)
	}
	if in.Conn != nil {
		return structErr(ErrSlotOccupied, to, inSlot, "input already connected")
	}
	if from == to || g.reachableUpstream(from, to) {
		return structErr(ErrCycle, to, inSlot, "edge would create a cycle")
	}
	in.Conn = &Connection{From: from, Output: outSlot}
	return nil
}

// reachableUpstream reports whether target appears in the transitive
// upstream dependency set of start.
func (g *Graph) reachableUpstream(start, target NodeID) bool {
	seen := make(map[NodeID]bool)
	var visit func(NodeID) bool
	visit = func(id NodeID) bool {
		if id == target {
			return true
		}
		if seen[id] {
			return false
		}
		seen[id] = true
		n := g.nodes[id]
		if n == nil {
			return false
		}
		for _, in := range n.Inputs {
			if in.Conn != nil && visit(in.Conn.From) {
				return true
			}
		}
		return false
	}
	return visit(start)
}

// Disconnect removes the incoming edge on (id, inSlot). The slot falls
// back to its literal parameter.
func (g *Graph) Disconnect(id NodeID, inSlot string) error {
	n, ok := g.nodes[id]
	if !ok {
		return structErr(ErrUnknownNode, id, "", "no such node")
	}
	in := n.Input(inSlot)
	if in == nil {
		return structErr(ErrUnknownSlot, id, inSlot, "no such input slot")
	}
	in.Conn = nil
	return nil
}

// SetParam sets the literal value of an unconnected input slot. Values
// are coerced under the single scalar-to-vector rule; enum slots reject
// undeclared choices.
func (g *Graph) SetParam(id NodeID, slot string, v param.Value) error {
	n, ok := g.nodes[id]
	if !ok {
		return structErr(ErrUnknownNode, id, "", "no such node")
	}
	in := n.Input(slot)
	if in == nil {
		return structErr(ErrUnknownSlot, id, slot, "no such input slot")
	}
	if in.Conn != nil {
		return structErr(ErrSlotConnected, id, slot, "cannot set parameter on connected slot")
	}
	coerced, err := v.Coerce(in.Slot.Type)
	if err != nil {
		return structErr(ErrTypeMismatch, id, slot, "%v", err)
	}
	if in.Slot.Type == param.TypeEnum && !in.Slot.ValidChoice(coerced.Str) {
		return structErr(ErrBadChoice, id, slot, "%q is not one of %v", coerced.Str, in.Slot.Choices)
	}
	in.Literal = coerced
	return nil
}

// Param returns the literal value of an input slot.
func (g *Graph) Param(id NodeID, slot string) (param.Value, error) {
	n, ok := g.nodes[id]
	if !ok {
		return param.Value{}, structErr(ErrUnknownNode, id, "", "no such node")
	}
	in := n.Input(slot)
	if in == nil {
		return param.Value{}, structErr(ErrUnknownSlot, id, slot, "no such input slot")
	}
	return in.Literal, nil
}

// SetOutput designates the node whose result is the document's mesh.
func (g *Graph) SetOutput(id NodeID) error {
	if _, ok := g.nodes[id]; !ok {
		return structErr(ErrUnknownNode, id, "", "no such node")
	}
	g.output = id
	return nil
}

// Output returns the designated output node, 0 if none.
func (g *Graph) Output() NodeID { return g.output }
