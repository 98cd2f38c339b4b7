package script

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cogentcore.org/core/math32"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/ops"
	"github.com/chazu/burl/pkg/param"
)

// EvalTimeout is the hard wall-clock limit for a single script run.
const EvalTimeout = 5 * time.Second

// Bridge runs script definitions. Each Invoke builds a fresh sandboxed
// interpreter, so a Bridge is safe for concurrent use and scripts never
// share state across invocations.
type Bridge struct {
	// Timeout overrides EvalTimeout when positive.
	Timeout time.Duration
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) timeout() time.Duration {
	if b.Timeout > 0 {
		return b.Timeout
	}
	return EvalTimeout
}

type invokeResult struct {
	outputs map[string]param.Value
	err     error
}

// Invoke runs def with the given inputs and returns one value per
// declared output slot. Missing inputs fall back to slot defaults.
// Any failure, including timeout and panic, comes back as *ScriptError.
func (b *Bridge) Invoke(def *Definition, inputs map[string]param.Value) (map[string]param.Value, error) {
	bound := make(map[string]param.Value, len(def.Inputs))
	for _, slot := range def.Inputs {
		v, ok := inputs[slot.Name]
		if !ok {
			v = slot.Default
		}
		coerced, err := v.Coerce(slot.Type)
		if err != nil {
			return nil, scriptErr(def.Name, "input %q: %v", slot.Name, err)
		}
		bound[slot.Name] = coerced
	}

	ch := make(chan invokeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- invokeResult{err: scriptErr(def.Name, "panic during evaluation: %v", r)}
			}
		}()
		out, err := run(def, bound)
		ch <- invokeResult{outputs: out, err: err}
	}()

	return awaitResult(ch, b.timeout(), def.Name)
}

// awaitResult waits for the sandbox goroutine, giving up after d. On
// timeout the goroutine may still be running; its result is dropped.
func awaitResult(ch <-chan invokeResult, d time.Duration, script string) (map[string]param.Value, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.outputs, res.err
	case <-timer.C:
		return nil, scriptErr(script, "evaluation timed out after %s", d)
	}
}

// run executes the script in a fresh sandbox and collects its outputs.
func run(def *Definition, inputs map[string]param.Value) (map[string]param.Value, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	committed := make(map[string]param.Value, len(def.Outputs))
	registerBuiltins(env, def, inputs, committed)

	if err := env.LoadString(preprocess(def.Source)); err != nil {
		return nil, scriptErr(def.Name, "parse: %s", strings.TrimSpace(err.Error()))
	}
	if _, err := env.Run(); err != nil {
		var se *ScriptError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, scriptErr(def.Name, "%s", strings.TrimSpace(err.Error()))
	}

	// All declared outputs or none.
	for _, slot := range def.Outputs {
		if _, ok := committed[slot.Name]; !ok {
			return nil, scriptErr(def.Name, "output %q was not set", slot.Name)
		}
	}
	return committed, nil
}

// registerBuiltins installs the host interface: input/output plumbing,
// vector accessors, and mesh constructors mirroring the native catalog.
// Hyphenated names are registered in underscore form; preprocess
// rewrites call sites to match.
func registerBuiltins(env *zygo.Zlisp, def *Definition, inputs map[string]param.Value, committed map[string]param.Value) {

	// (input "name")
	env.AddFunction("input", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("input requires a slot name")
		}
		slotName, err := toGoString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("input: %w", err)
		}
		v, ok := inputs[slotName]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("input: no slot named %q", slotName)
		}
		return toSexp(v)
	})

	// (output "name" value)
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("output requires a slot name and a value")
		}
		slotName, err := toGoString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("output: %w", err)
		}
		var slot *param.Slot
		for i := range def.Outputs {
			if def.Outputs[i].Name == slotName {
				slot = &def.Outputs[i]
				break
			}
		}
		if slot == nil {
			return zygo.SexpNull, scriptErr(def.Name, "output: no declared slot named %q", slotName)
		}
		v, err := fromSexp(slot.Type, args[1])
		if err != nil {
			return zygo.SexpNull, scriptErr(def.Name, "output %q: %v", slotName, err)
		}
		committed[slotName] = v
		return args[1], nil
	})

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: math32.Vec3(float32(c[0]), float32(c[1]), float32(c[2]))}, nil
	})

	for axis, get := range map[string]func(math32.Vector3) float32{
		"vec_x": func(v math32.Vector3) float32 { return v.X },
		"vec_y": func(v math32.Vector3) float32 { return v.Y },
		"vec_z": func(v math32.Vector3) float32 { return v.Z },
	} {
		get := get
		env.AddFunction(axis, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a vec3", name)
			}
			v, err := toVector(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpFloat{Val: float64(get(v))}, nil
		})
	}

	// (mesh-box center size)
	env.AddFunction("mesh_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("mesh-box requires center and size")
		}
		center, err := toVector(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-box: center: %w", err)
		}
		size, err := toVector(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-box: size: %w", err)
		}
		return &sexpMesh{m: mesh.Box(center, size)}, nil
	})

	// (mesh-quad center normal right size)
	env.AddFunction("mesh_quad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("mesh-quad requires center, normal, right, size")
		}
		var vs [4]math32.Vector3
		for i, a := range args {
			v, err := toVector(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("mesh-quad: argument %d: %w", i, err)
			}
			vs[i] = v
		}
		return &sexpMesh{m: mesh.Quad(vs[0], vs[1], vs[2], math32.Vec2(vs[3].X, vs[3].Y))}, nil
	})

	// (mesh-merge a b)
	env.AddFunction("mesh_merge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("mesh-merge requires two meshes")
		}
		a, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-merge: %w", err)
		}
		b, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-merge: %w", err)
		}
		return &sexpMesh{m: mesh.Merge(a, b)}, nil
	})

	// (mesh-translate m offset)
	env.AddFunction("mesh_translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("mesh-translate requires a mesh and an offset")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-translate: %w", err)
		}
		off, err := toVector(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-translate: %w", err)
		}
		mat := math32.Identity4()
		mat.SetTranslation(off.X, off.Y, off.Z)
		return &sexpMesh{m: m.Clone().Transform(mat)}, nil
	})

	// (mesh-extrude m faces amount)
	env.AddFunction("mesh_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("mesh-extrude requires a mesh, a face selection, and an amount")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-extrude: %w", err)
		}
		expr, err := toGoString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-extrude: faces: %w", err)
		}
		amount, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-extrude: amount: %w", err)
		}
		faces, err := ops.ParseSelection(expr, m.FaceCount())
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-extrude: %w", err)
		}
		out, err := m.ExtrudeFaces(faces, float32(amount))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-extrude: %w", err)
		}
		return &sexpMesh{m: out}, nil
	})

	// (mesh-subdivide m)
	env.AddFunction("mesh_subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh-subdivide requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh-subdivide: %w", err)
		}
		return &sexpMesh{m: m.SubdivideLinear()}, nil
	})

	// (mesh-face-count m), (mesh-vertex-count m)
	for fname, count := range map[string]func(*mesh.Mesh) int{
		"mesh_face_count":   (*mesh.Mesh).FaceCount,
		"mesh_vertex_count": (*mesh.Mesh).VertexCount,
	} {
		count := count
		env.AddFunction(fname, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a mesh", name)
			}
			m, err := toMesh(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpInt{Val: int64(count(m))}, nil
		})
	}
}
