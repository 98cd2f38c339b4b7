package mesh

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Merge returns the disjoint union of a and b as a new mesh. B's face
// indices are offset by a's vertex count. Coincident vertices are never
// deduplicated. Channels present in either input are present in the
// result, zero-filled over the elements of the mesh that lacked them.
func Merge(a, b *Mesh) *Mesh {
	out := a.Clone()
	offset := len(out.Positions)

	out.Positions = append(out.Positions, b.Positions...)
	for _, f := range b.Faces {
		nf := make([]int, len(f))
		for i, idx := range f {
			nf[i] = idx + offset
		}
		out.Faces = append(out.Faces, nf)
	}

	// Channels from a keep their data and are extended over b's elements;
	// channels only b has get a zero-filled span for a's elements.
	for name, ch := range out.VertexChannels {
		if bc, ok := b.VertexChannels[name]; ok {
			out.VertexChannels[name] = append(ch, bc...)
		} else {
			out.VertexChannels[name] = append(ch, make([]math32.Vector3, len(b.Positions))...)
		}
	}
	for name, bc := range b.VertexChannels {
		if _, ok := a.VertexChannels[name]; ok {
			continue
		}
		if out.VertexChannels == nil {
			out.VertexChannels = make(map[string][]math32.Vector3)
		}
		out.VertexChannels[name] = append(make([]math32.Vector3, offset, offset+len(bc)), bc...)
	}

	for name, ch := range out.FaceChannels {
		if bc, ok := b.FaceChannels[name]; ok {
			out.FaceChannels[name] = append(ch, bc...)
		} else {
			out.FaceChannels[name] = append(ch, make([]float32, len(b.Faces))...)
		}
	}
	faceOffset := len(a.Faces)
	for name, bc := range b.FaceChannels {
		if _, ok := a.FaceChannels[name]; ok {
			continue
		}
		if out.FaceChannels == nil {
			out.FaceChannels = make(map[string][]float32)
		}
		out.FaceChannels[name] = append(make([]float32, faceOffset, faceOffset+len(bc)), bc...)
	}
	return out
}

// Transform applies an affine matrix to all vertex positions in place and
// returns the receiver. The "normal" vertex channel, if present, is
// transformed as directions and renormalized.
func (m *Mesh) Transform(mat *math32.Matrix4) *Mesh {
	for i, p := range m.Positions {
		m.Positions[i] = p.MulMatrix4AsVector4(mat, 1)
	}
	if normals, ok := m.VertexChannels[NormalChannel]; ok {
		for i, n := range normals {
			tn := n.MulMatrix4AsVector4(mat, 0)
			if tn.Length() > 0 {
				tn = tn.Normal()
			}
			normals[i] = tn
		}
	}
	return m
}

// checkFaceSelection validates a face index selection against the mesh.
func (m *Mesh) checkFaceSelection(op string, faces []int) error {
	for _, fi := range faces {
		if fi < 0 || fi >= len(m.Faces) {
			return &GeometryError{Op: op, Face: fi,
				Message: fmt.Sprintf("face index out of range [0,%d)", len(m.Faces))}
		}
	}
	return nil
}

// ExtrudeFaces extrudes the selected faces along their normals by amount,
// in place, and returns the receiver. Each selected face gets a fresh ring
// of vertices and side-wall quads wound consistently with the cap. Faces
// with a zero-area (degenerate) normal are skipped.
func (m *Mesh) ExtrudeFaces(faces []int, amount float32) (*Mesh, error) {
	if err := m.checkFaceSelection("ExtrudeFaces", faces); err != nil {
		return nil, err
	}
	for _, fi := range faces {
		fn := m.FaceNormal(fi)
		if fn.Length() == 0 {
			continue
		}
		dir := fn.Normal().MulScalar(amount)

		loop := m.Faces[fi]
		top := make([]int, len(loop))
		for i, vi := range loop {
			top[i] = m.AddVertex(m.Positions[vi].Add(dir))
		}
		// Side walls: one quad per edge of the original loop.
		for i := range loop {
			j := (i + 1) % len(loop)
			if err := m.AddFace(loop[i], loop[j], top[j], top[i]); err != nil {
				return nil, err
			}
		}
		// The original face becomes the cap.
		m.Faces[fi] = top
	}
	return m, nil
}

// InsetFaces shrinks the selected faces toward their centroids by ratio
// (0 keeps the face, 1 collapses it to the centroid), adding a ring of
// quads around each new inner face. Operates in place.
func (m *Mesh) InsetFaces(faces []int, ratio float32) (*Mesh, error) {
	if err := m.checkFaceSelection("InsetFaces", faces); err != nil {
		return nil, err
	}
	for _, fi := range faces {
		loop := m.Faces[fi]
		var centroid math32.Vector3
		for _, vi := range loop {
			centroid = centroid.Add(m.Positions[vi])
		}
		centroid = centroid.MulScalar(1 / float32(len(loop)))

		inner := make([]int, len(loop))
		for i, vi := range loop {
			p := m.Positions[vi]
			inner[i] = m.AddVertex(p.Add(centroid.Sub(p).MulScalar(ratio)))
		}
		for i := range loop {
			j := (i + 1) % len(loop)
			if err := m.AddFace(loop[i], loop[j], inner[j], inner[i]); err != nil {
				return nil, err
			}
		}
		m.Faces[fi] = inner
	}
	return m, nil
}

// edgeKey is an undirected vertex pair used to share subdivision midpoints.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// SubdivideLinear returns a new mesh where every n-gon is split into n
// quads around its centroid, with edge midpoints shared between adjacent
// faces. Positions are interpolated linearly; no smoothing is applied.
func (m *Mesh) SubdivideLinear() *Mesh {
	out := New()
	out.Positions = make([]math32.Vector3, len(m.Positions))
	copy(out.Positions, m.Positions)

	midpoints := make(map[edgeKey]int)
	midpoint := func(a, b int) int {
		key := newEdgeKey(a, b)
		if vi, ok := midpoints[key]; ok {
			return vi
		}
		vi := out.AddVertex(m.Positions[a].Add(m.Positions[b]).MulScalar(0.5))
		midpoints[key] = vi
		return vi
	}

	for _, loop := range m.Faces {
		var centroid math32.Vector3
		for _, vi := range loop {
			centroid = centroid.Add(m.Positions[vi])
		}
		center := out.AddVertex(centroid.MulScalar(1 / float32(len(loop))))

		for i := range loop {
			prev := loop[(i+len(loop)-1)%len(loop)]
			cur := loop[i]
			next := loop[(i+1)%len(loop)]
			out.AddFace(cur, midpoint(cur, next), center, midpoint(prev, cur))
		}
	}
	return out
}
