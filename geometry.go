package arable

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// mean earth radius in metres (IUGG)
const earthRadiusM = 6371008.8

// parcel is a validated, winding-normalized land area. Built once by
// validateGeometry & read-only for the rest of the pipeline.
type parcel struct {
	geom     orb.MultiPolygon
	areaM2   float64
	bound    orb.Bound
	centroid orb.Point
}

// contains reports whether the lon/lat point sits inside the parcel.
func (p *parcel) contains(pt orb.Point) bool {
	return planar.MultiPolygonContains(p.geom, pt)
}

// validateGeometry accepts a Polygon or MultiPolygon, rejects anything
// malformed & normalizes ring orientation (exterior CCW, holes CW).
func validateGeometry(g orb.Geometry) (*parcel, error) {
	var mp orb.MultiPolygon
	switch v := g.(type) {
	case orb.Polygon:
		mp = orb.MultiPolygon{v.Clone()}
	case orb.MultiPolygon:
		mp = v.Clone()
	default:
		return nil, errors.Wrapf(ErrInvalidGeometry, "unsupported geometry type %q", g.GeoJSONType())
	}

	if len(mp) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "no polygons")
	}

	for pi, poly := range mp {
		if len(poly) == 0 {
			return nil, errors.Wrapf(ErrInvalidGeometry, "polygon %d has no rings", pi)
		}
		for ri, ring := range poly {
			if err := validateRing(ring); err != nil {
				return nil, errors.Wrapf(err, "polygon %d ring %d", pi, ri)
			}
			// exterior rings wind counter clockwise, holes clockwise
			want := orb.CCW
			if ri > 0 {
				want = orb.CW
			}
			if ring.Orientation() != want {
				ring.Reverse()
			}
		}
	}

	area := sphericalArea(mp)
	if area <= 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "zero area")
	}

	centroid, _ := planar.CentroidArea(mp)

	return &parcel{
		geom:     mp,
		areaM2:   area,
		bound:    mp.Bound(),
		centroid: centroid,
	}, nil
}

// validateRing checks a single ring is closed, finite, long enough and
// free of self intersections.
func validateRing(ring orb.Ring) error {
	if len(ring) < 4 {
		return errors.Wrapf(ErrInvalidGeometry, "ring has %d coordinates, need at least 4", len(ring))
	}
	for _, pt := range ring {
		if !finite(pt[0]) || !finite(pt[1]) {
			return errors.Wrap(ErrInvalidGeometry, "non-finite coordinate")
		}
	}
	if !ring.Closed() {
		return errors.Wrap(ErrInvalidGeometry, "ring not closed")
	}
	if ring.Orientation() == 0 {
		return errors.Wrap(ErrInvalidGeometry, "degenerate ring")
	}
	if selfIntersects(ring) {
		return errors.Wrap(ErrInvalidGeometry, "self intersection")
	}
	return nil
}

// selfIntersects does a pairwise sweep of the ring's segments.
// Adjacent segments (sharing a vertex) are skipped, as is the implicit
// closing adjacency between the first & last segment. Rings are small
// so quadratic is fine here.
func selfIntersects(ring orb.Ring) bool {
	n := len(ring) - 1 // segments
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // first & last share the closing vertex
			}
			if segmentsCross(ring[i], ring[i+1], ring[j], ring[j+1]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports whether segments ab & cd properly intersect.
func segmentsCross(a, b, c, d orb.Point) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	// collinear overlaps
	if d1 == 0 && onSegment(c, d, a) {
		return true
	}
	if d2 == 0 && onSegment(c, d, b) {
		return true
	}
	if d3 == 0 && onSegment(a, b, c) {
		return true
	}
	if d4 == 0 && onSegment(a, b, d) {
		return true
	}
	return false
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

// sphericalArea computes the multipolygon's area in m² by spherical
// excess: exterior loop area minus hole areas, per polygon.
func sphericalArea(mp orb.MultiPolygon) float64 {
	total := 0.0
	for _, poly := range mp {
		for ri, ring := range poly {
			a := loopArea(ring)
			if ri == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	if total < 0 {
		total = 0
	}
	return total
}

// loopArea is the unsigned spherical area of one ring in m².
func loopArea(ring orb.Ring) float64 {
	// s2 loops are open; drop the repeated closing vertex
	pts := make([]s2.Point, 0, len(ring)-1)
	for _, c := range ring[:len(ring)-1] {
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(c[1], c[0])))
	}
	loop := s2.LoopFromPoints(pts)
	loop.Normalize()
	return loop.Area() * earthRadiusM * earthRadiusM
}
