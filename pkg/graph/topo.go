package graph

// TopoOrder returns the transitive dependency set of target in evaluation
// order: every node appears after all nodes feeding it. The traversal is
// depth-first over input slots in declared order, so the result is
// deterministic for a given graph. Edit-time cycle rejection makes a
// cycle here impossible; it is still detected and reported rather than
// recursing forever, since it would indicate a corrupted arena.
func (g *Graph) TopoOrder(target NodeID) ([]NodeID, error) {
	if _, ok := g.nodes[target]; !ok {
		return nil, structErr(ErrUnknownNode, target, "", "no such node")
	}

	const (
		white = 0 // unvisited
		grey  = 1 // on stack
		black = 2 // done
	)
	state := make(map[NodeID]int)
	var order []NodeID

	var visit func(NodeID) error
	visit = func(id NodeID) error {
		switch state[id] {
		case black:
			return nil
		case grey:
			return structErr(ErrCycle, id, "", "cycle detected during ordering")
		}
		state[id] = grey
		n := g.nodes[id]
		if n == nil {
			return structErr(ErrUnknownNode, id, "", "edge references missing node")
		}
		for _, in := range n.Inputs {
			if in.Conn == nil {
				continue
			}
			if err := visit(in.Conn.From); err != nil {
				return err
			}
		}
		state[id] = black
		order = append(order, id)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}
	return order, nil
}

// Downstream returns the set of nodes reachable forward from id,
// including id itself. The engine uses it in tests and diagnostics to
// reason about invalidation extents.
func (g *Graph) Downstream(id NodeID) map[NodeID]bool {
	out := make(map[NodeID]bool)
	var visit func(NodeID)
	visit = func(cur NodeID) {
		if out[cur] {
			return
		}
		out[cur] = true
		for _, n := range g.nodes {
			for _, in := range n.Inputs {
				if in.Conn != nil && in.Conn.From == cur {
					visit(n.ID)
				}
			}
		}
	}
	visit(id)
	return out
}
