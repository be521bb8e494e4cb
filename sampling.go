package arable

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geo"
)

const (
	// maxChunkDepth stops the quadtree split degenerating on weird
	// inputs; past this we just lattice-sample whatever is left.
	maxChunkDepth = 12

	// maxDensifyPasses bounds how often the spacing halves for parcels
	// too small for the configured lattice to land enough points in.
	maxDensifyPasses = 6
)

// lattice anchors the sample grid to the parcel's full bounding box.
// Chunks index into the same global lattice (integer multiples of the
// steps from one origin) so chunked & unchunked sampling agree on
// every point coordinate bit for bit.
type lattice struct {
	origin  orb.Point
	lonStep float64
	latStep float64
}

func newLattice(b orb.Bound, spacingM float64) lattice {
	midLat := (b.Min[1] + b.Max[1]) / 2
	return lattice{
		origin:  b.Min,
		lonStep: degreeSpanLon(spacingM, midLat),
		latStep: degreeSpanLat(spacingM),
	}
}

// firstIndex is the lowest k with origin + k*step >= v.
func firstIndex(origin, step, v float64) int {
	return int(math.Ceil((v - origin) / step))
}

// planSamples lays a regular lattice of in-polygon points over the
// parcel. Large parcels are recursively quartered so no single sweep
// blows the per-chunk point cap. Parcels too small for the configured
// spacing densify: the spacing halves until the lattice lands enough
// points to triangulate a surface from, and a parcel tiny enough to
// defeat even that gets a small square of samples stood on its
// centroid. Output order is deterministic for a given parcel & config:
// chunks in quarter order, rows south to north, columns west to east.
func planSamples(p *parcel, cfg *Config) []Location {
	spacing := cfg.GridSpacingMeters
	for pass := 0; pass <= maxDensifyPasses; pass++ {
		lat := newLattice(p.bound, spacing)
		pts := dedupe(sampleRegion(p, p.bound, p.areaM2, lat, cfg, 0))
		if len(pts) >= minSurvivors {
			return pts
		}
		spacing /= 2
	}
	return centroidPad(p, cfg.GridSpacingMeters)
}

// centroidPad emits the centroid plus four corners half a spacing out,
// so even a parcel smaller than any lattice cell still yields a
// triangulable sample set.
func centroidPad(p *parcel, spacingM float64) []Location {
	dLat := degreeSpanLat(spacingM / 2)
	dLon := degreeSpanLon(spacingM/2, p.centroid[1])
	c := Location{Lon: p.centroid[0], Lat: p.centroid[1]}
	return []Location{
		c,
		{Lon: c.Lon - dLon, Lat: c.Lat - dLat},
		{Lon: c.Lon + dLon, Lat: c.Lat - dLat},
		{Lon: c.Lon - dLon, Lat: c.Lat + dLat},
		{Lon: c.Lon + dLon, Lat: c.Lat + dLat},
	}
}

// sampleRegion emits lattice points for the part of the parcel within
// bound b, quartering when the covered area is over the chunk threshold.
func sampleRegion(p *parcel, b orb.Bound, areaM2 float64, lat lattice, cfg *Config, depth int) []Location {
	if areaM2 <= cfg.ChunkAreaThresholdM2 || depth >= maxChunkDepth {
		return sweep(p, b, lat, cfg)
	}

	var out []Location
	for _, q := range quarter(b) {
		clipped := clip.Geometry(q, p.geom)
		if clipped == nil {
			continue
		}
		a := math.Abs(geo.Area(clipped))
		if a <= 0 {
			continue
		}
		out = append(out, sampleRegion(p, q, a, lat, cfg, depth+1)...)
	}
	return out
}

// sweep walks the global lattice positions falling inside bound b,
// keeping points inside the parcel, capped at MaxPointsPerChunk in
// scan order.
func sweep(p *parcel, b orb.Bound, lat lattice, cfg *Config) []Location {
	var out []Location
	for ky := firstIndex(lat.origin[1], lat.latStep, b.Min[1]); ; ky++ {
		y := lat.origin[1] + float64(ky)*lat.latStep
		if y > b.Max[1] {
			break
		}
		for kx := firstIndex(lat.origin[0], lat.lonStep, b.Min[0]); ; kx++ {
			x := lat.origin[0] + float64(kx)*lat.lonStep
			if x > b.Max[0] {
				break
			}
			if !p.contains(orb.Point{x, y}) {
				continue
			}
			out = append(out, Location{Lon: x, Lat: y})
			if len(out) >= cfg.MaxPointsPerChunk {
				return out
			}
		}
	}
	return out
}

// quarter splits a bound into its four equal sub-bounds, fixed order:
// SW, SE, NW, NE.
func quarter(b orb.Bound) []orb.Bound {
	midX := (b.Min[0] + b.Max[0]) / 2
	midY := (b.Min[1] + b.Max[1]) / 2
	return []orb.Bound{
		{Min: b.Min, Max: orb.Point{midX, midY}},
		{Min: orb.Point{midX, b.Min[1]}, Max: orb.Point{b.Max[0], midY}},
		{Min: orb.Point{b.Min[0], midY}, Max: orb.Point{midX, b.Max[1]}},
		{Min: orb.Point{midX, midY}, Max: b.Max},
	}
}

// dedupe drops repeat locations (chunk borders can emit the same point
// twice) keeping first-seen order.
func dedupe(in []Location) []Location {
	seen := map[Location]bool{}
	out := make([]Location, 0, len(in))
	for _, l := range in {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
