package arable

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/terralens/arable/internal/tin"
)

const (
	// terrain curvature fudge on haversine edge lengths
	curvatureFactor = 1.02

	// floor on measured slopes, degrees; keeps flat terrain out of
	// divide-by-zero territory downstream
	minSlopeDeg = 0.1

	degPerRad = 180 / math.Pi
)

// slope class boundaries, degrees
var slopeClassMax = map[SlopeClass]float64{
	SlopeOptimal:   5,
	SlopeModerate:  8,
	SlopeSteep:     16,
	SlopeVerySteep: 30,
	SlopeExtreme:   math.Inf(1),
}

var slopeClassDesc = map[SlopeClass]string{
	SlopeOptimal:   "flat to gently sloping, suits all mechanised farming",
	SlopeModerate:  "gentle slopes, minor contouring useful",
	SlopeSteep:     "sloping, contour farming or terracing advised",
	SlopeVerySteep: "steep, terracing required, limited machinery access",
	SlopeExtreme:   "very steep, generally unsuited to cultivation",
}

// slopeAnalyzer computes edge slope statistics. The distribution memo
// is keyed by a content hash of the exact slope sequence & lives only
// as long as one analysis call.
type slopeAnalyzer struct {
	distCache map[uint64]map[SlopeClass]SlopeBand
}

func newSlopeAnalyzer() *slopeAnalyzer {
	return &slopeAnalyzer{distCache: map[uint64]map[SlopeClass]SlopeBand{}}
}

// edgeSlopes measures the slope of every TIN edge in degrees, in
// deterministic order (triangle order, then edge order within each).
// Horizontal run is the haversine distance scaled by the curvature
// factor; results are floored at minSlopeDeg.
func edgeSlopes(mesh *tin.Mesh) []float64 {
	out := make([]float64, 0, len(mesh.Triangles)*3)
	for _, t := range mesh.Triangles {
		for e := 0; e < 3; e++ {
			a := t.V[e]
			b := t.V[(e+1)%3]
			run := haversineM(orb.Point{a.X, a.Y}, orb.Point{b.X, b.Y}) * curvatureFactor
			s := math.Atan2(math.Abs(b.Z-a.Z), run) * degPerRad
			if s < minSlopeDeg {
				s = minSlopeDeg
			}
			out = append(out, s)
		}
	}
	return out
}

// analyze aggregates edge slopes into the report's SlopeStats block.
// areaM2 is the parcel area used to pro-rate the distribution bands.
func (sa *slopeAnalyzer) analyze(mesh *tin.Mesh, slopes []float64, areaM2 float64) SlopeStats {
	n := len(slopes)
	if n == 0 {
		return SlopeStats{
			Distribution: map[SlopeClass]SlopeBand{},
			Aspects:      map[AspectClass]float64{},
		}
	}

	mean := stat.Mean(slopes, nil)

	sorted := make([]float64, n)
	copy(sorted, slopes)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	sd := 0.0
	if n > 1 {
		sd = stat.StdDev(slopes, nil)
	}

	return SlopeStats{
		Mean:         mean,
		Median:       median,
		StdDev:       sd,
		Confidence:   confidenceInterval(mean, sd, n),
		Distribution: sa.distribution(slopes, areaM2),
		Aspects:      aspectFractions(mesh),
	}
}

// confidenceInterval is the 95% CI of the mean: Student's t for small
// samples (n <= 6), normal approximation past that.
func confidenceInterval(mean, sd float64, n int) ConfidenceInterval {
	if n < 2 {
		return ConfidenceInterval{Lower: mean, Upper: mean, Level: 0.95}
	}
	var q float64
	if n <= 6 {
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
		q = t.Quantile(0.975)
	} else {
		q = distuv.UnitNormal.Quantile(0.975)
	}
	half := q * sd / math.Sqrt(float64(n))
	return ConfidenceInterval{Lower: mean - half, Upper: mean + half, Level: 0.95}
}

// distribution buckets slopes into the class bands. Percentages sum to
// 100; band areas pro-rate the parcel area. Memoised per exact slope
// sequence since the scorer asks for the same split more than once.
func (sa *slopeAnalyzer) distribution(slopes []float64, areaM2 float64) map[SlopeClass]SlopeBand {
	key := hashSlopes(slopes, areaM2)
	if cached, ok := sa.distCache[key]; ok {
		return cached
	}

	counts := map[SlopeClass]int{}
	for _, s := range slopes {
		counts[classifySlope(s)]++
	}

	out := map[SlopeClass]SlopeBand{}
	total := float64(len(slopes))
	for _, c := range allSlopeClasses {
		pct := float64(counts[c]) / total * 100
		out[c] = SlopeBand{
			Percentage:  pct,
			AreaM2:      pct / 100 * areaM2,
			Description: slopeClassDesc[c],
		}
	}
	sa.distCache[key] = out
	return out
}

func classifySlope(s float64) SlopeClass {
	for _, c := range allSlopeClasses {
		if s <= slopeClassMax[c] {
			return c
		}
	}
	return SlopeExtreme
}

// aspectFractions classifies each triangle's facing into compass
// quadrants. Orientation comes from the sum of the second & third edge
// vectors; triangles with no elevation difference default to North so
// flat terrain still yields a valid partition.
func aspectFractions(mesh *tin.Mesh) map[AspectClass]float64 {
	out := map[AspectClass]float64{}
	for _, a := range allAspects {
		out[a] = 0
	}
	if len(mesh.Triangles) == 0 {
		return out
	}

	for _, t := range mesh.Triangles {
		out[triangleAspect(t)]++
	}
	total := float64(len(mesh.Triangles))
	for a := range out {
		out[a] /= total
	}
	return out
}

func triangleAspect(t tin.Triangle) AspectClass {
	a, b, c := t.Elevations()
	lo := math.Min(a, math.Min(b, c))
	hi := math.Max(a, math.Max(b, c))
	if hi-lo < 1e-9 {
		return AspectNorth // flat facet, conventional default
	}

	// sum of the second & third edge vectors
	dx := (t.V[2].X - t.V[1].X) + (t.V[0].X - t.V[2].X)
	dy := (t.V[2].Y - t.V[1].Y) + (t.V[0].Y - t.V[2].Y)
	deg := math.Mod(math.Atan2(dy, dx)*degPerRad+360, 360)

	switch {
	case deg >= 315 || deg < 45:
		return AspectNorth
	case deg < 135:
		return AspectEast
	case deg < 225:
		return AspectSouth
	default:
		return AspectWest
	}
}

// hashSlopes is a content hash over the slope sequence (plus the area
// the bands pro-rate against), so the memo never keys on a mutable
// slice reference.
func hashSlopes(slopes []float64, areaM2 float64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, s := range slopes {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s))
		h.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(areaM2))
	h.Write(buf[:])
	return h.Sum64()
}
