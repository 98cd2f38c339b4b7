package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/chazu/burl/pkg/graph"
	"github.com/chazu/burl/pkg/ops"
	"github.com/chazu/burl/pkg/script"
)

// Fingerprint identifies the complete evaluation identity of a node:
// which node it is, which operator at which version (or which script
// source), and everything feeding its input slots. Equal fingerprints
// mean equal outputs, which is what makes the cache safe.
type Fingerprint string

// fingerprinter accumulates node fingerprints in topological order, so
// an upstream fingerprint is always available when a dependent asks.
type fingerprinter struct {
	registry *ops.Registry
	library  *script.Library
	done     map[graph.NodeID]Fingerprint
}

func newFingerprinter(registry *ops.Registry, library *script.Library) *fingerprinter {
	return &fingerprinter{
		registry: registry,
		library:  library,
		done:     make(map[graph.NodeID]Fingerprint),
	}
}

// writeField length-prefixes data so adjacent fields cannot collide.
func writeField(h io.Writer, data []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(data)))
	h.Write(n[:])
	h.Write(data)
}

// node computes and records the fingerprint of n. All upstream nodes
// must already be recorded.
func (f *fingerprinter) node(n *graph.Node) (Fingerprint, error) {
	h := sha256.New()

	var id [8]byte
	binary.BigEndian.PutUint64(id[:], uint64(n.ID))
	h.Write(id[:])

	switch n.Op.Kind {
	case graph.OpNative:
		op, ok := f.registry.Lookup(n.Op.Name)
		if !ok {
			return "", fmt.Errorf("node %d: unknown operator %q", n.ID, n.Op.Name)
		}
		writeField(h, []byte(op.Name))
		var ver [8]byte
		binary.BigEndian.PutUint64(ver[:], uint64(op.Version))
		h.Write(ver[:])
	case graph.OpScripted:
		def, ok := f.library.Lookup(n.Op.Name)
		if !ok {
			return "", fmt.Errorf("node %d: unknown script %q", n.ID, n.Op.Name)
		}
		writeField(h, []byte(def.Name))
		h.Write(def.SourceHash[:])
	default:
		return "", fmt.Errorf("node %d: unknown operator kind %v", n.ID, n.Op.Kind)
	}

	// Input contributions in declared slot order.
	for _, in := range n.Inputs {
		writeField(h, []byte(in.Slot.Name))
		if in.Conn != nil {
			up, ok := f.done[in.Conn.From]
			if !ok {
				return "", fmt.Errorf("node %d: input %q: upstream %d has no fingerprint",
					n.ID, in.Slot.Name, in.Conn.From)
			}
			writeField(h, []byte(up))
			writeField(h, []byte(in.Conn.Output))
		} else {
			h.Write([]byte{0})
			in.Literal.WriteHash(h)
		}
	}

	fp := Fingerprint(hex.EncodeToString(h.Sum(nil)))
	f.done[n.ID] = fp
	return fp, nil
}
