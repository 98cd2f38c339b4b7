package graph

import "fmt"

// StructureErrorKind classifies edit-time graph rejections.
type StructureErrorKind int

const (
	ErrCycle StructureErrorKind = iota
	ErrTypeMismatch
	ErrSlotOccupied
	ErrUnknownNode
	ErrUnknownSlot
	ErrSlotConnected
	ErrBadChoice
)

func (k StructureErrorKind) String() string {
	switch k {
	case ErrCycle:
		return "cycle"
	case ErrTypeMismatch:
		return "type mismatch"
	case ErrSlotOccupied:
		return "slot occupied"
	case ErrUnknownNode:
		return "unknown node"
	case ErrUnknownSlot:
		return "unknown slot"
	case ErrSlotConnected:
		return "slot connected"
	case ErrBadChoice:
		return "bad enum choice"
	default:
		return "unknown"
	}
}

// StructureError reports a rejected graph mutation. The graph is always
// left unchanged when a StructureError is returned.
type StructureError struct {
	Kind    StructureErrorKind
	Node    NodeID // involved node, 0 if graph-level
	Slot    string // involved slot, empty if node-level
	Message string
}

func (e *StructureError) Error() string {
	where := ""
	if e.Node != 0 {
		where = fmt.Sprintf(" (node %d", e.Node)
		if e.Slot != "" {
			where += fmt.Sprintf(", slot %q", e.Slot)
		}
		where += ")"
	}
	return fmt.Sprintf("%s: %s%s", e.Kind, e.Message, where)
}

func structErr(kind StructureErrorKind, node NodeID, slot, format string, args ...any) *StructureError {
	return &StructureError{Kind: kind, Node: node, Slot: slot, Message: fmt.Sprintf(format, args...)}
}
