package ops

import (
	"fmt"

	"github.com/chazu/burl/pkg/kernel"
	"github.com/chazu/burl/pkg/param"
)

// Solid operators run the SDF kernel and tessellate the result. They are
// deterministic for fixed inputs: marching cubes sampling depends only on
// the solid and the cell count.
func registerSolids(r *Registry, k kernel.Kernel) {
	cellsSlot := param.Slot{Name: "cells", Type: param.TypeScalar, Default: param.Scalar(32)}

	r.mustRegister(&Operator{
		Name:    "solid-box",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "size", Type: param.TypeVector, Default: param.Vec3(1, 1, 1)},
			cellsSlot,
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			size, err := in.Vector("size")
			if err != nil {
				return nil, err
			}
			cells, err := in.Scalar("cells")
			if err != nil {
				return nil, err
			}
			s := k.Box(float64(size.X), float64(size.Y), float64(size.Z))
			m, err := k.ToMesh(s, int(cells))
			if err != nil {
				return nil, err
			}
			return meshOut(m), nil
		},
	})

	r.mustRegister(&Operator{
		Name:    "solid-cylinder",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "height", Type: param.TypeScalar, Default: param.Scalar(2)},
			{Name: "radius", Type: param.TypeScalar, Default: param.Scalar(0.5)},
			cellsSlot,
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			height, err := in.Scalar("height")
			if err != nil {
				return nil, err
			}
			radius, err := in.Scalar("radius")
			if err != nil {
				return nil, err
			}
			cells, err := in.Scalar("cells")
			if err != nil {
				return nil, err
			}
			m, err := k.ToMesh(k.Cylinder(height, radius), int(cells))
			if err != nil {
				return nil, err
			}
			return meshOut(m), nil
		},
	})

	// A box with a cylindrical bore along one axis. This is the drill
	// operation generalized away from woodworking: boolean difference of
	// the two kernel primitives.
	r.mustRegister(&Operator{
		Name:    "solid-bored-box",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "size", Type: param.TypeVector, Default: param.Vec3(2, 2, 2)},
			{Name: "bore-radius", Type: param.TypeScalar, Default: param.Scalar(0.5)},
			{Name: "bore-offset", Type: param.TypeVector},
			{Name: "axis", Type: param.TypeEnum, Default: param.Enum("z"),
				Choices: []string{"x", "y", "z"}},
			cellsSlot,
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			size, err := in.Vector("size")
			if err != nil {
				return nil, err
			}
			radius, err := in.Scalar("bore-radius")
			if err != nil {
				return nil, err
			}
			offset, err := in.Vector("bore-offset")
			if err != nil {
				return nil, err
			}
			axis, err := in.Str("axis")
			if err != nil {
				return nil, err
			}
			cells, err := in.Scalar("cells")
			if err != nil {
				return nil, err
			}

			box := k.Box(float64(size.X), float64(size.Y), float64(size.Z))
			// Make the bore long enough to pass fully through.
			depth := 2 * float64(size.X+size.Y+size.Z)
			bore := k.Cylinder(depth, radius)
			switch axis {
			case "x":
				bore = k.Rotate(bore, 0, 90, 0)
			case "y":
				bore = k.Rotate(bore, 90, 0, 0)
			case "z":
				// cylinder axis is already Z
			default:
				return nil, fmt.Errorf("axis %q: want x, y, or z", axis)
			}
			bore = k.Translate(bore, float64(offset.X), float64(offset.Y), float64(offset.Z))

			m, err := k.ToMesh(k.Difference(box, bore), int(cells))
			if err != nil {
				return nil, err
			}
			return meshOut(m), nil
		},
	})

	// Intersection of a box and a cylinder: a prism with a circular cross
	// section clipped to the box extents.
	r.mustRegister(&Operator{
		Name:    "solid-rounded-prism",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "size", Type: param.TypeVector, Default: param.Vec3(1, 1, 1)},
			{Name: "radius", Type: param.TypeScalar, Default: param.Scalar(0.6)},
			cellsSlot,
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			size, err := in.Vector("size")
			if err != nil {
				return nil, err
			}
			radius, err := in.Scalar("radius")
			if err != nil {
				return nil, err
			}
			cells, err := in.Scalar("cells")
			if err != nil {
				return nil, err
			}
			box := k.Box(float64(size.X), float64(size.Y), float64(size.Z))
			cyl := k.Cylinder(2*float64(size.Z), radius)
			m, err := k.ToMesh(k.Intersection(box, cyl), int(cells))
			if err != nil {
				return nil, err
			}
			return meshOut(m), nil
		},
	})

	// Two perpendicular cylinders fused into a cross, exercising union.
	r.mustRegister(&Operator{
		Name:    "solid-cross",
		Version: 1,
		Inputs: []param.Slot{
			{Name: "length", Type: param.TypeScalar, Default: param.Scalar(2)},
			{Name: "radius", Type: param.TypeScalar, Default: param.Scalar(0.25)},
			cellsSlot,
		},
		Outputs: []param.Slot{{Name: "out", Type: param.TypeMesh}},
		Eval: func(in Inputs) (Outputs, error) {
			length, err := in.Scalar("length")
			if err != nil {
				return nil, err
			}
			radius, err := in.Scalar("radius")
			if err != nil {
				return nil, err
			}
			cells, err := in.Scalar("cells")
			if err != nil {
				return nil, err
			}
			a := k.Cylinder(length, radius)
			b := k.Rotate(k.Cylinder(length, radius), 90, 0, 0)
			m, err := k.ToMesh(k.Union(a, b), int(cells))
			if err != nil {
				return nil, err
			}
			return meshOut(m), nil
		},
	})
}
