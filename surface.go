package arable

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/terralens/arable/internal/hydro"
	"github.com/terralens/arable/internal/tin"
)

// buildSurface triangulates the enriched sample points into a TIN.
// Vertex order follows sample order, so the mesh is deterministic for
// a given point set.
func buildSurface(points []enrichedPoint) (*tin.Mesh, error) {
	verts := make([]tin.Vertex, len(points))
	for i, p := range points {
		verts[i] = tin.Vertex{X: p.Lon, Y: p.Lat, Z: p.Elevation}
	}

	mesh, err := tin.Build(verts)
	if err != nil {
		return nil, errors.Wrap(ErrDegenerateSurface, err.Error())
	}
	if len(mesh.Triangles) == 0 {
		return nil, errors.Wrap(ErrDegenerateSurface, "no non-degenerate triangles")
	}
	return mesh, nil
}

// rasterize interpolates a square elevation grid over the mesh bbox
// for the hydrology model. The side is ceil(sqrt(targetCells)) so the
// grid is always a perfect square & neighbour indexing stays O(1).
func rasterize(mesh *tin.Mesh, targetCells int) *hydro.Grid {
	n := int(math.Ceil(math.Sqrt(float64(targetCells))))
	if n < 2 {
		n = 2
	}

	minX, minY, maxX, maxY := mesh.Bound()
	stepX := (maxX - minX) / float64(n)
	stepY := (maxY - minY) / float64(n)

	elev := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			cx := minX + (float64(x)+0.5)*stepX
			cy := minY + (float64(y)+0.5)*stepY
			elev[y*n+x] = mesh.ElevationAt(cx, cy)
		}
	}

	return &hydro.Grid{N: n, Elev: elev, CellSize: rasterCellSize(minX, minY, maxX, maxY, n)}
}

// rasterCellSize is the metre width of one cell, measured along the
// bbox midline. Degenerate (zero width) boxes fall back to the height,
// then to a nominal metre so downstream maths never divides by zero.
func rasterCellSize(minX, minY, maxX, maxY float64, n int) float64 {
	midY := (minY + maxY) / 2
	w := haversineM(orb.Point{minX, midY}, orb.Point{maxX, midY})
	if w <= 0 {
		midX := (minX + maxX) / 2
		w = haversineM(orb.Point{midX, minY}, orb.Point{midX, maxY})
	}
	if w <= 0 {
		return 1
	}
	return w / float64(n)
}
