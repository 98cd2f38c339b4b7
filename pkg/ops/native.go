package ops

import (
	"math/rand"

	"cogentcore.org/core/math32"

	"github.com/chazu/burl/pkg/kernel"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/param"
)

// Builtin returns a registry with the full native catalog. The kernel
// backs the solid operators; passing nil omits them.
func Builtin(k kernel.Kernel) *Registry {
	r := NewRegistry()
	registerPrimitives(r)
	registerMeshEdits(r)
	if k != nil {
		registerSolids(r, k)
	}
	return r
}

func meshOut(m *mesh.Mesh) Outputs {
	return Outputs{"out": param.Mesh(m)}
}

func registerPrimitives(r *Registry) {
	r.mustRegister(&Operator{
		Name:    "make-box",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "center", Type: param.TypeVector},
			{Name: "size", Type: param.TypeVector, Default: param.Vec3(1, 1, 1)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			center, err := in.Vector("center")
			if err != nil {
				return nil, err
			}
			size, err := in.Vector("size")
			if err != nil {
				return nil, err
			}
			return meshOut(mesh.Box(center, size)), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "make-quad",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "center", Type: param.TypeVector},
			{Name: "normal", Type: param.TypeVector, Default: param.Vec3(0, 1, 0)},
			{Name: "right", Type: param.TypeVector, Default: param.Vec3(1, 0, 0)},
			{Name: "size", Type: param.TypeVector, Default: param.Vec3(1, 1, 0)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			center, err := in.Vector("center")
			if err != nil {
				return nil, err
			}
			normal, err := in.Vector("normal")
			if err != nil {
				return nil, err
			}
			right, err := in.Vector("right")
			if err != nil {
				return nil, err
			}
			size, err := in.Vector("size")
			if err != nil {
				return nil, err
			}
			return meshOut(mesh.Quad(center, normal, right, math32.Vec2(size.X, size.Y))), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "make-circle",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "center", Type: param.TypeVector},
			{Name: "radius", Type: param.TypeScalar, Default: param.Scalar(1)},
			{Name: "segments", Type: param.TypeScalar, Default: param.Scalar(24)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			center, err := in.Vector("center")
			if err != nil {
				return nil, err
			}
			radius, err := in.Scalar("radius")
			if err != nil {
				return nil, err
			}
			segments, err := in.Scalar("segments")
			if err != nil {
				return nil, err
			}
			return meshOut(mesh.Circle(center, float32(radius), int(segments))), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "make-uvsphere",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "center", Type: param.TypeVector},
			{Name: "radius", Type: param.TypeScalar, Default: param.Scalar(1)},
			{Name: "rings", Type: param.TypeScalar, Default: param.Scalar(6)},
			{Name: "segments", Type: param.TypeScalar, Default: param.Scalar(12)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			center, err := in.Vector("center")
			if err != nil {
				return nil, err
			}
			radius, err := in.Scalar("radius")
			if err != nil {
				return nil, err
			}
			rings, err := in.Scalar("rings")
			if err != nil {
				return nil, err
			}
			segments, err := in.Scalar("segments")
			if err != nil {
				return nil, err
			}
			return meshOut(mesh.UVSphere(center, float32(radius), int(rings), int(segments))), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "make-line",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "start", Type: param.TypeVector},
			{Name: "end", Type: param.TypeVector, Default: param.Vec3(0, 1, 0)},
			{Name: "segments", Type: param.TypeScalar, Default: param.Scalar(1)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			start, err := in.Vector("start")
			if err != nil {
				return nil, err
			}
			end, err := in.Vector("end")
			if err != nil {
				return nil, err
			}
			segments, err := in.Scalar("segments")
			if err != nil {
				return nil, err
			}
			return meshOut(mesh.Line(start, end, int(segments))), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "make-vector",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "x", Type: param.TypeScalar},
			{Name: "y", Type: param.TypeScalar},
			{Name: "z", Type: param.TypeScalar},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeVector}},
		Eval: func(in Inputs) (Outputs, error) {
			x, err := in.Scalar("x")
			if err != nil {
				return nil, err
			}
			y, err := in.Scalar("y")
			if err != nil {
				return nil, err
			}
			z, err := in.Scalar("z")
			if err != nil {
				return nil, err
			}
			return Outputs{"out": param.Vec3(float32(x), float32(y), float32(z))}, nil
		},
	})
}

func registerMeshEdits(r *Registry) {
	r.mustRegister(&Operator{
		Name:    "merge-meshes",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "a", Type: param.TypeMesh},
			{Name: "b", Type: param.TypeMesh},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			a, err := in.Mesh("a")
			if err != nil {
				return nil, err
			}
			b, err := in.Mesh("b")
			if err != nil {
				return nil, err
			}
			return meshOut(mesh.Merge(a, b)), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "transform",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "mesh", Type: param.TypeMesh},
			{Name: "translate", Type: param.TypeVector},
			{Name: "rotate", Type: param.TypeVector}, // Euler degrees
			{Name: "scale", Type: param.TypeVector, Default: param.Vec3(1, 1, 1)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			m, err := in.Mesh("mesh")
			if err != nil {
				return nil, err
			}
			translate, err := in.Vector("translate")
			if err != nil {
				return nil, err
			}
			rotate, err := in.Vector("rotate")
			if err != nil {
				return nil, err
			}
			scale, err := in.Vector("scale")
			if err != nil {
				return nil, err
			}
			quat := math32.NewQuatEuler(rotate.MulScalar(math32.DegToRadFactor))
			mat := math32.Identity4()
			mat.SetTransform(translate, quat, scale)
			return meshOut(m.Clone().Transform(mat)), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "extrude-faces",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "mesh", Type: param.TypeMesh},
			{Name: "faces", Type: param.TypeString, Default: param.String("*")},
			{Name: "amount", Type: param.TypeScalar, Default: param.Scalar(1)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			m, err := in.Mesh("mesh")
			if err != nil {
				return nil, err
			}
			expr, err := in.Str("faces")
			if err != nil {
				return nil, err
			}
			amount, err := in.Scalar("amount")
			if err != nil {
				return nil, err
			}
			sel, err := ParseSelection(expr, m.FaceCount())
			if err != nil {
				return nil, err
			}
			out, err := m.Clone().ExtrudeFaces(sel, float32(amount))
			if err != nil {
				return nil, err
			}
			return meshOut(out), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "inset-faces",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "mesh", Type: param.TypeMesh},
			{Name: "faces", Type: param.TypeString, Default: param.String("*")},
			{Name: "ratio", Type: param.TypeScalar, Default: param.Scalar(0.5)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			m, err := in.Mesh("mesh")
			if err != nil {
				return nil, err
			}
			expr, err := in.Str("faces")
			if err != nil {
				return nil, err
			}
			ratio, err := in.Scalar("ratio")
			if err != nil {
				return nil, err
			}
			sel, err := ParseSelection(expr, m.FaceCount())
			if err != nil {
				return nil, err
			}
			out, err := m.Clone().InsetFaces(sel, float32(ratio))
			if err != nil {
				return nil, err
			}
			return meshOut(out), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "subdivide",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "mesh", Type: param.TypeMesh},
			{Name: "iterations", Type: param.TypeScalar, Default: param.Scalar(1)},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			m, err := in.Mesh("mesh")
			if err != nil {
				return nil, err
			}
			iterations, err := in.Scalar("iterations")
			if err != nil {
				return nil, err
			}
			out := m
			for i := 0; i < int(iterations); i++ {
				out = out.SubdivideLinear()
			}
			if out == m {
				out = m.Clone()
			}
			return meshOut(out), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "compute-normals",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "mesh", Type: param.TypeMesh},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			m, err := in.Mesh("mesh")
			if err != nil {
				return nil, err
			}
			return meshOut(m.Clone().ComputeNormals()), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "perturb",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "mesh", Type: param.TypeMesh},
			{Name: "strength", Type: param.TypeScalar, Default: param.Scalar(0.1)},
			{Name: "seed", Type: param.TypeScalar},
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			m, err := in.Mesh("mesh")
			if err != nil {
				return nil, err
			}
			strength, err := in.Scalar("strength")
			if err != nil {
				return nil, err
			}
			seed, err := in.Scalar("seed")
			if err != nil {
				return nil, err
			}
			// Seeded source, so identical inputs give identical jitter.
			rng := rand.New(rand.NewSource(int64(seed)))
			out := m.Clone()
			s := float32(strength)
			for i, p := range out.Positions {
				out.Positions[i] = p.Add(math32.Vec3(
					(rng.Float32()*2-1)*s,
					(rng.Float32()*2-1)*s,
					(rng.Float32()*2-1)*s,
				))
			}
			return meshOut(out), nil
		},
	})
}
