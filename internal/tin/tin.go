// Package tin reconstructs a piecewise-linear terrain surface - a
// triangulated irregular network - from scattered elevation samples,
// and answers elevation queries against it.
package tin

import (
	"math"

	"github.com/fogleman/delaunay"
)

// epsilon under which a triangle counts as degenerate (planar area in
// squared degrees; our triangles are tiny so this is conservative)
const degenerateArea = 1e-14

// Vertex is a surface sample: X/Y are planar lon/lat, Z is elevation
// in metres.
type Vertex struct {
	X, Y, Z float64
}

// Triangle is the canonical surface facet record: three vertices in
// triangulation order, each carrying its own elevation.
type Triangle struct {
	V [3]Vertex
}

// Elevations returns the three vertex elevations (a, b, c) by vertex
// order.
func (t Triangle) Elevations() (a, b, c float64) {
	return t.V[0].Z, t.V[1].Z, t.V[2].Z
}

// Mesh is a Delaunay TIN over a set of vertices.
type Mesh struct {
	Vertices  []Vertex
	Triangles []Triangle
}

// Build triangulates the given vertices, dropping degenerate facets.
// A mesh with zero triangles is returned as such (not an error); the
// caller decides whether that's fatal.
func Build(verts []Vertex) (*Mesh, error) {
	pts := make([]delaunay.Point, len(verts))
	for i, v := range verts {
		pts[i] = delaunay.Point{X: v.X, Y: v.Y}
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, err
	}

	m := &Mesh{Vertices: verts}
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		t := Triangle{V: [3]Vertex{
			verts[tri.Triangles[i]],
			verts[tri.Triangles[i+1]],
			verts[tri.Triangles[i+2]],
		}}
		if planarArea(t) < degenerateArea {
			continue
		}
		m.Triangles = append(m.Triangles, t)
	}
	return m, nil
}

// Bound returns the planar bounding box of the mesh vertices.
func (m *Mesh) Bound() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, v := range m.Vertices {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return
}

// ElevationAt interpolates the surface elevation at (x, y). Points
// inside a facet get the barycentric blend of its vertex elevations;
// points outside the convex hull fall back to the nearest vertex.
func (m *Mesh) ElevationAt(x, y float64) float64 {
	for _, t := range m.Triangles {
		if z, ok := t.interpolate(x, y); ok {
			return z
		}
	}
	return m.nearestVertexElevation(x, y)
}

// interpolate returns the barycentric elevation at (x, y) and whether
// the point is inside this triangle.
func (t Triangle) interpolate(x, y float64) (float64, bool) {
	ax, ay := t.V[0].X, t.V[0].Y
	bx, by := t.V[1].X, t.V[1].Y
	cx, cy := t.V[2].X, t.V[2].Y

	den := (by-cy)*(ax-cx) + (cx-bx)*(ay-cy)
	if den == 0 {
		return 0, false
	}
	l1 := ((by-cy)*(x-cx) + (cx-bx)*(y-cy)) / den
	l2 := ((cy-ay)*(x-cx) + (ax-cx)*(y-cy)) / den
	l3 := 1 - l1 - l2

	// small negative tolerance so cell centres sitting exactly on a
	// shared edge don't fall through the mesh
	const tol = -1e-9
	if l1 < tol || l2 < tol || l3 < tol {
		return 0, false
	}
	return l1*t.V[0].Z + l2*t.V[1].Z + l3*t.V[2].Z, true
}

func (m *Mesh) nearestVertexElevation(x, y float64) float64 {
	best := math.Inf(1)
	z := 0.0
	for _, v := range m.Vertices {
		d := (v.X-x)*(v.X-x) + (v.Y-y)*(v.Y-y)
		if d < best {
			best = d
			z = v.Z
		}
	}
	return z
}

func planarArea(t Triangle) float64 {
	return math.Abs((t.V[1].X-t.V[0].X)*(t.V[2].Y-t.V[0].Y)-
		(t.V[2].X-t.V[0].X)*(t.V[1].Y-t.V[0].Y)) / 2
}
