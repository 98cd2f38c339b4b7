// Package kernel defines the abstract solid-geometry kernel interface used
// by the solid operators. Implementations (sdfx) provide primitives and
// boolean operations behind this interface and tessellate the result into
// the engine's polygonal mesh type.
package kernel

import "github.com/chazu/burl/pkg/mesh"

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract solid modeling interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates a solid into a triangle mesh. Cells controls
	// the sampling resolution; implementations clamp unusable values.
	ToMesh(s Solid, cells int) (*mesh.Mesh, error)
}
