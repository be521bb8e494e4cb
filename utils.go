package arable

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// clamp v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 is the common 0-1 case.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// finite reports whether v is a usable number (not NaN / Inf).
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// haversineM returns the great-circle distance between two lon/lat
// points in metres.
func haversineM(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// metres per degree of latitude (WGS84, near enough everywhere).
const metresPerDegreeLat = 111320.0

// degreeSpanLat converts a metre spacing to degrees of latitude.
func degreeSpanLat(metres float64) float64 {
	return metres / metresPerDegreeLat
}

// degreeSpanLon converts a metre spacing to degrees of longitude at
// the given latitude. Near the poles a degree of longitude shrinks to
// nothing so we floor the cosine to keep the span finite.
func degreeSpanLon(metres, atLat float64) float64 {
	c := math.Cos(atLat * math.Pi / 180)
	if c < 1e-6 {
		c = 1e-6
	}
	return metres / (metresPerDegreeLat * c)
}
