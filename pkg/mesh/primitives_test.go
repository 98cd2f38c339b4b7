package mesh

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestBoxTopology(t *testing.T) {
	m := Box(math32.Vec3(1, 2, 3), math32.Vec3(2, 4, 6))
	if m.VertexCount() != 8 {
		t.Errorf("vertex count = %d, want 8", m.VertexCount())
	}
	if m.FaceCount() != 6 {
		t.Errorf("face count = %d, want 6", m.FaceCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("box invalid: %v", err)
	}

	// All vertices sit at center +/- half size.
	for i, p := range m.Positions {
		d := p.Sub(math32.Vec3(1, 2, 3))
		if abs32(d.X) != 1 || abs32(d.Y) != 2 || abs32(d.Z) != 3 {
			t.Errorf("vertex %d = %v, not on box corner", i, p)
		}
	}
}

func TestQuadSingleFace(t *testing.T) {
	m := Quad(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(2, 2))
	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Fatalf("got %d verts, %d faces, want 4, 1", m.VertexCount(), m.FaceCount())
	}
	for i, p := range m.Positions {
		if p.Y != 0 {
			t.Errorf("vertex %d y = %f, want 0 (quad lies in XZ)", i, p.Y)
		}
	}
}

func TestQuadDegenerateAxesFallBack(t *testing.T) {
	m := Quad(math32.Vec3(0, 0, 0), math32.Vector3{}, math32.Vector3{}, math32.Vec2(1, 1))
	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Fatalf("got %d verts, %d faces, want 4, 1", m.VertexCount(), m.FaceCount())
	}
}

func TestCircleClampsSegments(t *testing.T) {
	m := Circle(math32.Vec3(0, 0, 0), 1, 0)
	if m.VertexCount() != 3 {
		t.Errorf("vertex count = %d, want 3 (clamped)", m.VertexCount())
	}
	if m.FaceCount() != 1 {
		t.Errorf("face count = %d, want 1", m.FaceCount())
	}
}

func TestUVSphereTopology(t *testing.T) {
	rings, segments := 6, 8
	m := UVSphere(math32.Vec3(0, 0, 0), 2, rings, segments)

	wantVerts := 2 + (rings-1)*segments
	if m.VertexCount() != wantVerts {
		t.Errorf("vertex count = %d, want %d", m.VertexCount(), wantVerts)
	}
	wantFaces := 2*segments + (rings-2)*segments
	if m.FaceCount() != wantFaces {
		t.Errorf("face count = %d, want %d", m.FaceCount(), wantFaces)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("sphere invalid: %v", err)
	}

	// Every vertex is on the sphere surface.
	for i, p := range m.Positions {
		r := p.Length()
		if r < 1.999 || r > 2.001 {
			t.Errorf("vertex %d radius = %f, want 2", i, r)
		}
	}
}

func TestLineHasNoFaces(t *testing.T) {
	m := Line(math32.Vec3(0, 0, 0), math32.Vec3(10, 0, 0), 5)
	if m.VertexCount() != 6 {
		t.Errorf("vertex count = %d, want 6", m.VertexCount())
	}
	if m.FaceCount() != 0 {
		t.Errorf("face count = %d, want 0", m.FaceCount())
	}
	if m.Positions[3].X != 6 {
		t.Errorf("vertex 3 x = %f, want 6", m.Positions[3].X)
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
