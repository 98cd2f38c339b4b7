package mesh

import "cogentcore.org/core/math32"

// FaceNormal returns the area-weighted normal of face fi using Newell's
// method, which is stable for non-planar and concave loops. Zero-area faces
// yield the zero vector; callers decide how to treat that.
func (m *Mesh) FaceNormal(fi int) math32.Vector3 {
	f := m.Faces[fi]
	var n math32.Vector3
	for i := range f {
		a := m.Positions[f[i]]
		b := m.Positions[f[(i+1)%len(f)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n
}

// ComputeNormals writes averaged per-vertex normals into the "normal"
// vertex channel and returns the receiver. Zero-area faces contribute
// nothing; vertices touched by no face keep a zero normal.
func (m *Mesh) ComputeNormals() *Mesh {
	normals := m.VertexChannel(NormalChannel)
	for i := range normals {
		normals[i] = math32.Vector3{}
	}
	for fi := range m.Faces {
		fn := m.FaceNormal(fi)
		if fn.Length() == 0 {
			continue
		}
		for _, vi := range m.Faces[fi] {
			normals[vi] = normals[vi].Add(fn)
		}
	}
	for i := range normals {
		if normals[i].Length() > 0 {
			normals[i] = normals[i].Normal()
		}
	}
	return m
}
