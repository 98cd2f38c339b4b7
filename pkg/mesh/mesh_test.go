package mesh

import (
	"errors"
	"testing"

	"cogentcore.org/core/math32"
)

func TestNewMeshIsEmpty(t *testing.T) {
	m := New()
	if !m.IsEmpty() {
		t.Fatal("new mesh should be empty")
	}
	if m.VertexCount() != 0 || m.FaceCount() != 0 {
		t.Errorf("counts = %d verts, %d faces, want 0, 0", m.VertexCount(), m.FaceCount())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("empty mesh should validate, got %v", err)
	}
}

func TestAddFaceRejectsOutOfRangeIndex(t *testing.T) {
	m := New()
	m.AddVertex(math32.Vec3(0, 0, 0))
	m.AddVertex(math32.Vec3(1, 0, 0))
	m.AddVertex(math32.Vec3(0, 1, 0))

	err := m.AddFace(0, 1, 5)
	if err == nil {
		t.Fatal("expected error for out-of-range vertex index")
	}
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("error type = %T, want *GeometryError", err)
	}
	if m.FaceCount() != 0 {
		t.Errorf("failed AddFace must not add a face, got %d", m.FaceCount())
	}
}

func TestAddFaceRejectsDegenerateLoop(t *testing.T) {
	m := New()
	m.AddVertex(math32.Vec3(0, 0, 0))
	m.AddVertex(math32.Vec3(1, 0, 0))
	if err := m.AddFace(0, 1); err == nil {
		t.Fatal("expected error for 2-vertex face")
	}
}

func TestCloneSharesNoStorage(t *testing.T) {
	m := Box(math32.Vec3(0, 0, 0), math32.Vec3(2, 2, 2))
	m.ComputeNormals()

	c := m.Clone()
	c.Positions[0] = math32.Vec3(99, 99, 99)
	c.Faces[0][0] = 7
	c.VertexChannel(NormalChannel)[0] = math32.Vec3(9, 9, 9)

	if m.Positions[0] == c.Positions[0] {
		t.Error("clone shares position storage")
	}
	if m.Faces[0][0] == 7 {
		t.Error("clone shares face storage")
	}
	if m.VertexChannel(NormalChannel)[0] == c.VertexChannel(NormalChannel)[0] {
		t.Error("clone shares channel storage")
	}
}

func TestMergeCounts(t *testing.T) {
	a := Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	b := UVSphere(math32.Vec3(3, 0, 0), 1, 4, 6)

	av, af := a.VertexCount(), a.FaceCount()
	bv, bf := b.VertexCount(), b.FaceCount()

	merged := Merge(a, b)
	if merged.VertexCount() != av+bv {
		t.Errorf("vertex count = %d, want %d", merged.VertexCount(), av+bv)
	}
	if merged.FaceCount() != af+bf {
		t.Errorf("face count = %d, want %d", merged.FaceCount(), af+bf)
	}
	if err := merged.Validate(); err != nil {
		t.Fatalf("merged mesh invalid: %v", err)
	}

	// B's faces must be offset by A's vertex count.
	for i, f := range merged.Faces[af:] {
		for j, idx := range f {
			if idx != b.Faces[i][j]+av {
				t.Fatalf("face %d index %d = %d, want %d", af+i, j, idx, b.Faces[i][j]+av)
			}
		}
	}

	// Inputs are untouched.
	if a.VertexCount() != av || b.VertexCount() != bv {
		t.Error("merge mutated an input mesh")
	}
}

func TestMergeFillsMissingChannels(t *testing.T) {
	a := Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	a.ComputeNormals()
	b := Quad(math32.Vec3(0, 5, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(1, 1))

	merged := Merge(a, b)
	ch := merged.VertexChannels[NormalChannel]
	if len(ch) != merged.VertexCount() {
		t.Fatalf("normal channel length = %d, want %d", len(ch), merged.VertexCount())
	}
	// B had no normals; its entries are zero-filled.
	for i := a.VertexCount(); i < merged.VertexCount(); i++ {
		if ch[i] != (math32.Vector3{}) {
			t.Fatalf("vertex %d normal = %v, want zero", i, ch[i])
		}
	}
}

func TestMergeKeepsChannelDataFromBothInputs(t *testing.T) {
	a := Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	a.ComputeNormals()
	b := Box(math32.Vec3(3, 0, 0), math32.Vec3(1, 1, 1))
	b.ComputeNormals()

	merged := Merge(a, b)
	ch := merged.VertexChannels[NormalChannel]
	if len(ch) != merged.VertexCount() {
		t.Fatalf("normal channel length = %d, want %d", len(ch), merged.VertexCount())
	}
	for i, want := range a.VertexChannels[NormalChannel] {
		if ch[i] != want {
			t.Fatalf("vertex %d normal = %v, want %v", i, ch[i], want)
		}
	}
	off := a.VertexCount()
	for i, want := range b.VertexChannels[NormalChannel] {
		if ch[off+i] != want {
			t.Fatalf("vertex %d normal = %v, want %v", off+i, ch[off+i], want)
		}
	}
}

func TestMergeKeepsFaceChannelData(t *testing.T) {
	a := Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	for i := range a.FaceChannel("material") {
		a.FaceChannels["material"][i] = 2
	}
	b := Quad(math32.Vec3(0, 5, 0), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0), math32.Vec2(1, 1))
	b.FaceChannel("material")[0] = 7

	merged := Merge(a, b)
	ch := merged.FaceChannels["material"]
	if len(ch) != merged.FaceCount() {
		t.Fatalf("material channel length = %d, want %d", len(ch), merged.FaceCount())
	}
	for i := 0; i < a.FaceCount(); i++ {
		if ch[i] != 2 {
			t.Fatalf("face %d material = %g, want 2", i, ch[i])
		}
	}
	if ch[a.FaceCount()] != 7 {
		t.Fatalf("face %d material = %g, want 7", a.FaceCount(), ch[a.FaceCount()])
	}
}

func TestValidateCatchesChannelLengthMismatch(t *testing.T) {
	m := Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	m.VertexChannels = map[string][]math32.Vector3{"uv": make([]math32.Vector3, 3)}
	if err := m.Validate(); err == nil {
		t.Fatal("expected channel length mismatch error")
	}
}
