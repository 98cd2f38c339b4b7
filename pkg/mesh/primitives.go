package mesh

import (
	"math"

	"cogentcore.org/core/math32"
)

// Box builds an axis-aligned box centered at center. Faces are wound so
// that normals point outward.
func Box(center, size math32.Vector3) *Mesh {
	h := size.MulScalar(0.5)

	verts := []math32.Vector3{
		center.Add(math32.Vec3(-h.X, -h.Y, -h.Z)),
		center.Add(math32.Vec3(h.X, -h.Y, -h.Z)),
		center.Add(math32.Vec3(h.X, -h.Y, h.Z)),
		center.Add(math32.Vec3(-h.X, -h.Y, h.Z)),
		center.Add(math32.Vec3(-h.X, h.Y, -h.Z)),
		center.Add(math32.Vec3(-h.X, h.Y, h.Z)),
		center.Add(math32.Vec3(h.X, h.Y, h.Z)),
		center.Add(math32.Vec3(h.X, h.Y, -h.Z)),
	}
	faces := [][]int{
		{0, 1, 2, 3}, // bottom
		{4, 5, 6, 7}, // top
		{4, 7, 1, 0}, // front
		{3, 2, 6, 5}, // back
		{5, 4, 0, 3}, // left
		{6, 2, 1, 7}, // right
	}

	m, err := FromPolygons(verts, faces)
	if err != nil {
		panic("mesh: box construction cannot fail: " + err.Error())
	}
	return m
}

// Quad builds a single four-sided face centered at center, oriented by the
// normal and right directions. Degenerate (zero-length) direction vectors
// fall back to the world axes.
func Quad(center, normal, right math32.Vector3, size math32.Vector2) *Mesh {
	if normal.Length() == 0 {
		normal = math32.Vec3(0, 1, 0)
	}
	if right.Length() == 0 {
		right = math32.Vec3(1, 0, 0)
	}
	normal = normal.Normal()
	right = right.Normal()
	forward := normal.Cross(right)

	hx := size.X * 0.5
	hy := size.Y * 0.5

	verts := []math32.Vector3{
		center.Add(right.MulScalar(hx)).Add(forward.MulScalar(hy)),
		center.Sub(right.MulScalar(hx)).Add(forward.MulScalar(hy)),
		center.Sub(right.MulScalar(hx)).Sub(forward.MulScalar(hy)),
		center.Add(right.MulScalar(hx)).Sub(forward.MulScalar(hy)),
	}
	m, err := FromPolygons(verts, [][]int{{0, 1, 2, 3}})
	if err != nil {
		panic("mesh: quad construction cannot fail: " + err.Error())
	}
	return m
}

// Circle builds a single n-gon face in the XZ plane centered at center.
// Segments below 3 are clamped to 3.
func Circle(center math32.Vector3, radius float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := New()
	loop := make([]int, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		p := center.Add(math32.Vec3(
			radius*float32(math.Cos(a)),
			0,
			radius*float32(math.Sin(a)),
		))
		loop[i] = m.AddVertex(p)
	}
	if err := m.AddFace(loop...); err != nil {
		panic("mesh: circle construction cannot fail: " + err.Error())
	}
	return m
}

// Line builds an open polyline as degenerate-free vertices with no faces.
// It is useful as scatter/path input for downstream nodes.
func Line(start, end math32.Vector3, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}
	m := New()
	for i := 0; i <= segments; i++ {
		t := float32(i) / float32(segments)
		m.AddVertex(start.Add(end.Sub(start).MulScalar(t)))
	}
	return m
}

// UVSphere builds a latitude/longitude sphere. Rings are clamped to at
// least 2 and segments to at least 3. Pole caps are triangle fans; the
// interior is quad strips.
func UVSphere(center math32.Vector3, radius float32, rings, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	m := New()
	top := m.AddVertex(center.Add(math32.Vec3(0, radius, 0)))

	// Interior rings, excluding the poles.
	ring := make([][]int, rings-1)
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := radius * float32(math.Cos(phi))
		rr := radius * float32(math.Sin(phi))
		row := make([]int, segments)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			row[s] = m.AddVertex(center.Add(math32.Vec3(
				rr*float32(math.Cos(theta)),
				y,
				rr*float32(math.Sin(theta)),
			)))
		}
		ring[r-1] = row
	}
	bottom := m.AddVertex(center.Add(math32.Vec3(0, -radius, 0)))

	// Top cap.
	first := ring[0]
	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		m.AddFace(top, first[s], first[next])
	}
	// Interior bands.
	for r := 0; r+1 < len(ring); r++ {
		a, b := ring[r], ring[r+1]
		for s := 0; s < segments; s++ {
			next := (s + 1) % segments
			m.AddFace(a[s], b[s], b[next], a[next])
		}
	}
	// Bottom cap.
	last := ring[len(ring)-1]
	for s := 0; s < segments; s++ {
		next := (s + 1) % segments
		m.AddFace(bottom, last[next], last[s])
	}
	return m
}
