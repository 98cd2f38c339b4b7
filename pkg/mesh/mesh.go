// Package mesh implements the polygonal mesh value type produced by graph
// evaluation. A Mesh owns its storage exclusively: operators work on copies
// or on meshes they constructed, never on a shared cached instance.
package mesh

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// NormalChannel is the vertex channel written by ComputeNormals.
const NormalChannel = "normal"

// GeometryError reports malformed or degenerate mesh data encountered while
// constructing or editing a mesh.
type GeometryError struct {
	Op      string // operation that detected the problem
	Face    int    // offending face index, or -1
	Message string
}

func (e *GeometryError) Error() string {
	if e.Face >= 0 {
		return fmt.Sprintf("%s: face %d: %s", e.Op, e.Face, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Mesh is an indexed polygonal mesh: vertex positions plus faces given as
// ordered vertex index loops, with optional per-vertex and per-face
// attribute channels. Channel slices, when present, are always the same
// length as Positions (vertex channels) or Faces (face channels).
type Mesh struct {
	Positions []math32.Vector3
	Faces     [][]int

	VertexChannels map[string][]math32.Vector3
	FaceChannels   map[string][]float32
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 }

// Clone returns a deep copy sharing no storage with the receiver.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Positions: make([]math32.Vector3, len(m.Positions)),
		Faces:     make([][]int, len(m.Faces)),
	}
	copy(out.Positions, m.Positions)
	for i, f := range m.Faces {
		nf := make([]int, len(f))
		copy(nf, f)
		out.Faces[i] = nf
	}
	if m.VertexChannels != nil {
		out.VertexChannels = make(map[string][]math32.Vector3, len(m.VertexChannels))
		for name, ch := range m.VertexChannels {
			nc := make([]math32.Vector3, len(ch))
			copy(nc, ch)
			out.VertexChannels[name] = nc
		}
	}
	if m.FaceChannels != nil {
		out.FaceChannels = make(map[string][]float32, len(m.FaceChannels))
		for name, ch := range m.FaceChannels {
			nc := make([]float32, len(ch))
			copy(nc, ch)
			out.FaceChannels[name] = nc
		}
	}
	return out
}

// VertexChannel returns the named vertex channel, creating it zero-filled
// if it does not exist.
func (m *Mesh) VertexChannel(name string) []math32.Vector3 {
	if m.VertexChannels == nil {
		m.VertexChannels = make(map[string][]math32.Vector3)
	}
	ch, ok := m.VertexChannels[name]
	if !ok || len(ch) != len(m.Positions) {
		ch = make([]math32.Vector3, len(m.Positions))
		m.VertexChannels[name] = ch
	}
	return ch
}

// FaceChannel returns the named face channel, creating it zero-filled if it
// does not exist.
func (m *Mesh) FaceChannel(name string) []float32 {
	if m.FaceChannels == nil {
		m.FaceChannels = make(map[string][]float32)
	}
	ch, ok := m.FaceChannels[name]
	if !ok || len(ch) != len(m.Faces) {
		ch = make([]float32, len(m.Faces))
		m.FaceChannels[name] = ch
	}
	return ch
}

// AddVertex appends a vertex and returns its index. Existing vertex
// channels are extended with a zero value.
func (m *Mesh) AddVertex(p math32.Vector3) int {
	m.Positions = append(m.Positions, p)
	for name, ch := range m.VertexChannels {
		m.VertexChannels[name] = append(ch, math32.Vector3{})
	}
	return len(m.Positions) - 1
}

// AddFace appends a face given as an ordered loop of vertex indices.
// Faces with fewer than 3 vertices or out-of-range indices are rejected.
func (m *Mesh) AddFace(loop ...int) error {
	if len(loop) < 3 {
		return &GeometryError{Op: "AddFace", Face: len(m.Faces),
			Message: fmt.Sprintf("face needs at least 3 vertices, got %d", len(loop))}
	}
	for _, idx := range loop {
		if idx < 0 || idx >= len(m.Positions) {
			return &GeometryError{Op: "AddFace", Face: len(m.Faces),
				Message: fmt.Sprintf("vertex index %d out of range [0,%d)", idx, len(m.Positions))}
		}
	}
	f := make([]int, len(loop))
	copy(f, loop)
	m.Faces = append(m.Faces, f)
	for name, ch := range m.FaceChannels {
		m.FaceChannels[name] = append(ch, 0)
	}
	return nil
}

// FromPolygons builds a mesh from explicit vertex positions and face loops.
func FromPolygons(positions []math32.Vector3, faces [][]int) (*Mesh, error) {
	m := New()
	m.Positions = make([]math32.Vector3, len(positions))
	copy(m.Positions, positions)
	for _, f := range faces {
		if err := m.AddFace(f...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Validate checks structural invariants: every face has at least 3 vertices
// and references only in-range vertex indices, and every channel has the
// length of its element set.
func (m *Mesh) Validate() error {
	for fi, f := range m.Faces {
		if len(f) < 3 {
			return &GeometryError{Op: "Validate", Face: fi,
				Message: fmt.Sprintf("face has %d vertices", len(f))}
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Positions) {
				return &GeometryError{Op: "Validate", Face: fi,
					Message: fmt.Sprintf("vertex index %d out of range [0,%d)", idx, len(m.Positions))}
			}
		}
	}
	for name, ch := range m.VertexChannels {
		if len(ch) != len(m.Positions) {
			return &GeometryError{Op: "Validate", Face: -1,
				Message: fmt.Sprintf("vertex channel %q has %d entries, want %d", name, len(ch), len(m.Positions))}
		}
	}
	for name, ch := range m.FaceChannels {
		if len(ch) != len(m.Faces) {
			return &GeometryError{Op: "Validate", Face: -1,
				Message: fmt.Sprintf("face channel %q has %d entries, want %d", name, len(ch), len(m.Faces))}
		}
	}
	return nil
}
