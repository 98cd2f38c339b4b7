package ops

import (
	"testing"

	"github.com/chazu/burl/pkg/kernel/sdfx"
	"github.com/chazu/burl/pkg/param"
)

func TestSolidOperatorsRegisteredWithKernel(t *testing.T) {
	r := Builtin(sdfx.New())
	for _, name := range []string{
		"solid-box", "solid-cylinder", "solid-bored-box",
		"solid-rounded-prism", "solid-cross",
	} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("missing operator %q", name)
		}
	}
}

func TestSolidBoxTessellates(t *testing.T) {
	r := Builtin(sdfx.New())
	out := evalOp(t, r, "solid-box", Inputs{
		"size":  param.Vec3(1, 1, 1),
		"cells": param.Scalar(12),
	})
	m := out["out"].Mesh
	if m.IsEmpty() {
		t.Fatal("tessellated box is empty")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}
	for i, f := range m.Faces {
		if len(f) != 3 {
			t.Fatalf("face %d has %d vertices, want 3", i, len(f))
		}
	}
}

func TestSolidBoredBoxRemovesMaterial(t *testing.T) {
	r := Builtin(sdfx.New())
	solid := evalOp(t, r, "solid-box", Inputs{
		"size":  param.Vec3(2, 2, 2),
		"cells": param.Scalar(12),
	})["out"].Mesh
	bored := evalOp(t, r, "solid-bored-box", Inputs{
		"size":        param.Vec3(2, 2, 2),
		"bore-radius": param.Scalar(0.5),
		"axis":        param.Enum("z"),
		"cells":       param.Scalar(12),
	})["out"].Mesh
	// The bore wall adds triangles over the plain box at the same
	// sampling resolution.
	if bored.FaceCount() <= solid.FaceCount() {
		t.Fatalf("bored box has %d faces, plain box has %d", bored.FaceCount(), solid.FaceCount())
	}
}

func TestSolidBoredBoxRejectsBadAxis(t *testing.T) {
	r := Builtin(sdfx.New())
	op, _ := r.Lookup("solid-bored-box")
	in := Inputs{}
	for _, slot := range op.Inputs {
		in[slot.Name] = slot.Default
	}
	in["axis"] = param.Enum("w")
	if _, err := op.Eval(in); err == nil {
		t.Fatal("bad axis accepted")
	}
}
