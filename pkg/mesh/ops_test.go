package mesh

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestTransformTranslates(t *testing.T) {
	m := Box(math32.Vec3(0, 0, 0), math32.Vec3(2, 2, 2))
	mat := math32.Identity4()
	mat.SetTranslation(10, 0, 0)
	m.Transform(mat)

	for i, p := range m.Positions {
		if abs32(p.X) != 9 && abs32(p.X) != 11 {
			t.Errorf("vertex %d x = %f, want 9 or 11", i, p.X)
		}
	}
}

func TestTransformRotatesNormalsAsDirections(t *testing.T) {
	m := Quad(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(2, 2))
	m.ComputeNormals()

	// Translation must leave normals untouched.
	mat := math32.Identity4()
	mat.SetTranslation(5, 5, 5)
	m.Transform(mat)
	for i, n := range m.VertexChannel(NormalChannel) {
		if abs32(abs32(n.Y)-1) > 1e-5 {
			t.Errorf("vertex %d normal = %v, want +/-Y after translation", i, n)
		}
	}

	// A 90 degree rotation about X moves a Y normal onto Z.
	rot := math32.Identity4()
	rot.SetRotationX(math32.DegToRadFactor * 90)
	m.Transform(rot)
	for i, n := range m.VertexChannel(NormalChannel) {
		if abs32(abs32(n.Z)-1) > 1e-5 {
			t.Errorf("vertex %d normal = %v, want +/-Z after rotation", i, n)
		}
	}
}

func TestExtrudeFacesAddsWallsAndCap(t *testing.T) {
	m := Quad(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(2, 2))
	if _, err := m.ExtrudeFaces([]int{0}, 3); err != nil {
		t.Fatalf("extrude failed: %v", err)
	}

	// 4 original + 4 extruded vertices; 1 cap + 4 walls.
	if m.VertexCount() != 8 {
		t.Errorf("vertex count = %d, want 8", m.VertexCount())
	}
	if m.FaceCount() != 5 {
		t.Errorf("face count = %d, want 5", m.FaceCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("extruded mesh invalid: %v", err)
	}

	// Cap vertices moved along the face normal by the extrusion amount.
	for _, vi := range m.Faces[0] {
		if abs32(abs32(m.Positions[vi].Y)-3) > 1e-5 {
			t.Errorf("cap vertex %d y = %f, want +/-3", vi, m.Positions[vi].Y)
		}
	}
}

func TestExtrudeFacesRejectsBadSelection(t *testing.T) {
	m := Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	before := m.FaceCount()
	if _, err := m.ExtrudeFaces([]int{99}, 1); err == nil {
		t.Fatal("expected error for out-of-range face index")
	}
	if m.FaceCount() != before {
		t.Error("failed extrude mutated the mesh")
	}
}

func TestExtrudeSkipsDegenerateFace(t *testing.T) {
	m := New()
	m.AddVertex(math32.Vec3(0, 0, 0))
	m.AddVertex(math32.Vec3(1, 0, 0))
	m.AddVertex(math32.Vec3(2, 0, 0)) // collinear: zero-area face
	if err := m.AddFace(0, 1, 2); err != nil {
		t.Fatalf("AddFace: %v", err)
	}

	if _, err := m.ExtrudeFaces([]int{0}, 1); err != nil {
		t.Fatalf("extrude on degenerate face should be skipped, got %v", err)
	}
	if m.VertexCount() != 3 || m.FaceCount() != 1 {
		t.Errorf("degenerate face was extruded: %d verts, %d faces", m.VertexCount(), m.FaceCount())
	}
}

func TestInsetFacesShrinksTowardCentroid(t *testing.T) {
	m := Quad(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(2, 2))
	if _, err := m.InsetFaces([]int{0}, 0.5); err != nil {
		t.Fatalf("inset failed: %v", err)
	}
	if m.VertexCount() != 8 || m.FaceCount() != 5 {
		t.Fatalf("got %d verts, %d faces, want 8, 5", m.VertexCount(), m.FaceCount())
	}
	// Inner loop vertices are at half the original distance from center.
	for _, vi := range m.Faces[0] {
		d := m.Positions[vi].Length()
		want := math32.Vec3(0.5, 0, 0.5).Length()
		if abs32(d-want) > 1e-5 {
			t.Errorf("inner vertex %d distance = %f, want %f", vi, d, want)
		}
	}
}

func TestSubdivideLinearQuad(t *testing.T) {
	m := Quad(math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(2, 2))
	sub := m.SubdivideLinear()

	// 4 corners + 4 edge midpoints + 1 centroid.
	if sub.VertexCount() != 9 {
		t.Errorf("vertex count = %d, want 9", sub.VertexCount())
	}
	if sub.FaceCount() != 4 {
		t.Errorf("face count = %d, want 4", sub.FaceCount())
	}
	if err := sub.Validate(); err != nil {
		t.Fatalf("subdivided mesh invalid: %v", err)
	}
	// Original is untouched.
	if m.VertexCount() != 4 || m.FaceCount() != 1 {
		t.Error("subdivide mutated its input")
	}
}

func TestSubdivideSharesEdgeMidpoints(t *testing.T) {
	m := Box(math32.Vec3(0, 0, 0), math32.Vec3(2, 2, 2))
	sub := m.SubdivideLinear()

	// Box: 8 corners + 12 shared edge midpoints + 6 face centroids.
	if sub.VertexCount() != 26 {
		t.Errorf("vertex count = %d, want 26", sub.VertexCount())
	}
	if sub.FaceCount() != 24 {
		t.Errorf("face count = %d, want 24", sub.FaceCount())
	}
}

func TestComputeNormalsBox(t *testing.T) {
	m := Box(math32.Vec3(0, 0, 0), math32.Vec3(2, 2, 2))
	m.ComputeNormals()
	normals := m.VertexChannel(NormalChannel)
	if len(normals) != 8 {
		t.Fatalf("normal channel length = %d, want 8", len(normals))
	}
	// Each corner normal is the normalized corner direction for a cube.
	for i, n := range normals {
		if abs32(n.Length()-1) > 1e-5 {
			t.Errorf("vertex %d normal length = %f, want 1", i, n.Length())
		}
		corner := m.Positions[i].Normal()
		if n.Sub(corner).Length() > 1e-4 {
			t.Errorf("vertex %d normal = %v, want %v", i, n, corner)
		}
	}
}
