package script

import (
	"errors"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/rs/zerolog"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/param"
)

func scalarSlot(name string, def float64) param.Slot {
	return param.Slot{Name: name, Type: param.TypeScalar, Default: param.Scalar(def)}
}

func TestLibraryRegisterAndReload(t *testing.T) {
	lib := NewLibrary()
	def := NewDefinition("double", `(output "out" (* 2 (input "x")))`,
		[]param.Slot{scalarSlot("x", 1)},
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	if err := lib.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := lib.Register(def); err == nil {
		t.Fatal("duplicate register succeeded")
	}

	before, _ := lib.Lookup("double")
	if err := lib.Reload("double", `(output "out" (* 3 (input "x")))`); err != nil {
		t.Fatalf("reload: %v", err)
	}
	after, _ := lib.Lookup("double")
	if before.SourceHash == after.SourceHash {
		t.Fatal("reload did not change the source hash")
	}
	if len(after.Inputs) != 1 || after.Inputs[0].Name != "x" {
		t.Fatal("reload dropped the slot contract")
	}

	if err := lib.Reload("missing", "()"); err == nil {
		t.Fatal("reload of unregistered script succeeded")
	}
}

func TestInvokeScalarScript(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("double", `(output "out" (* 2 (input "x")))`,
		[]param.Slot{scalarSlot("x", 1)},
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	out, err := b.Invoke(def, map[string]param.Value{"x": param.Scalar(21)})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got := out["out"].Scalar; got != 42 {
		t.Fatalf("out = %v, want 42", got)
	}
}

func TestInvokeUsesSlotDefaults(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("double", `(output "out" (* 2 (input "x")))`,
		[]param.Slot{scalarSlot("x", 5)},
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	out, err := b.Invoke(def, nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got := out["out"].Scalar; got != 10 {
		t.Fatalf("out = %v, want 10", got)
	}
}

func TestInvokeMeshScript(t *testing.T) {
	b := NewBridge()
	source := `
; a box extruded upward by the given amount
(def base (mesh-box (vec3 0 0 0) (input "size")))
(output "out" (mesh-extrude base "*" (input "amount")))
`
	def := NewDefinition("extruded-box", source,
		[]param.Slot{
			{Name: "size", Type: param.TypeVector, Default: param.Vec3(1, 1, 1)},
			scalarSlot("amount", 0.5),
		},
		[]param.Slot{{Name: "out", Type: param.TypeMesh}})

	out, err := b.Invoke(def, nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	m := out["out"].Mesh
	if m == nil || m.IsEmpty() {
		t.Fatal("script produced no mesh")
	}
	// Extruding all 6 faces of a box adds 4 verts and 4 faces per face.
	if m.VertexCount() != 32 {
		t.Errorf("vertex count = %d, want 32", m.VertexCount())
	}
	if m.FaceCount() != 30 {
		t.Errorf("face count = %d, want 30", m.FaceCount())
	}
}

func TestInvokeLeavesInputMeshIntact(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("puff",
		`(output "out" (mesh-extrude (input "m") "*" 0.5))`,
		[]param.Slot{{Name: "m", Type: param.TypeMesh}},
		[]param.Slot{{Name: "out", Type: param.TypeMesh}})

	in := mesh.Box(math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))
	out, err := b.Invoke(def, map[string]param.Value{"m": param.Mesh(in)})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got := out["out"].Mesh.VertexCount(); got != 32 {
		t.Errorf("output vertex count = %d, want 32", got)
	}
	// The mesh handed to the script may be someone else's cached value.
	if in.VertexCount() != 8 || in.FaceCount() != 6 {
		t.Fatalf("script mutated its input mesh: %dv %df, want 8v 6f",
			in.VertexCount(), in.FaceCount())
	}
}

func TestInvokeScalarSplatsIntoVector(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("splat", `(output "out" (vec-y (input "v")))`,
		[]param.Slot{{Name: "v", Type: param.TypeVector, Default: param.Vec3(0, 0, 0)}},
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	out, err := b.Invoke(def, map[string]param.Value{"v": param.Scalar(3)})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if got := out["out"].Scalar; got != 3 {
		t.Fatalf("out = %v, want 3", got)
	}
}

func TestInvokeMissingOutputFails(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("silent", `(+ 1 2)`,
		nil,
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	_, err := b.Invoke(def, nil)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ScriptError", err)
	}
	if se.Script != "silent" {
		t.Fatalf("error names script %q, want %q", se.Script, "silent")
	}
}

func TestInvokeUndeclaredOutputFails(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("stray", `(output "nope" 1)`,
		nil,
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	_, err := b.Invoke(def, nil)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ScriptError", err)
	}
}

func TestInvokeParseErrorFails(t *testing.T) {
	b := NewBridge()
	def := NewDefinition("broken", `(output "out"`,
		nil,
		[]param.Slot{{Name: "out", Type: param.TypeScalar}})

	_, err := b.Invoke(def, nil)
	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ScriptError", err)
	}
}

func TestAwaitResultTimeout(t *testing.T) {
	// A channel nothing writes to stands in for a script that never
	// finishes; the wait must give up on its own.
	ch := make(chan invokeResult)
	_, err := awaitResult(ch, 50*time.Millisecond, "spin")

	var se *ScriptError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *ScriptError", err)
	}
	if se.Script != "spin" {
		t.Fatalf("error names script %q, want %q", se.Script, "spin")
	}
}

func TestWatcherRequiresRegisteredScript(t *testing.T) {
	lib := NewLibrary()
	w, err := NewWatcher(lib, zerolog.Nop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Watch("ghost", "ghost.zy"); err == nil {
		t.Fatal("watching an unregistered script succeeded")
	}
}

func TestPreprocess(t *testing.T) {
	cases := []struct{ in, want string }{
		{"(mesh-box a b)", "(mesh_box a b)"},
		{`(input "mesh-box")`, `(input "mesh-box")`},
		{"(f :axis 1)", `(f "__kw_axis" 1)`},
		{"(a := 1)", "(a := 1)"},
		{"; note\n(+ 1 2)", "// note\n(+ 1 2)"},
		{"(- 1 2)", "(- 1 2)"},
	}
	for _, c := range cases {
		if got := preprocess(c.in); got != c.want {
			t.Errorf("preprocess(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
