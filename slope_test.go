package arable

import (
	"math"
	"testing"

	"github.com/terralens/arable/internal/tin"
)

// squareMesh triangulates a ~100m square whose corner elevations are
// given in order SW, SE, NE, NW.
func squareMesh(t *testing.T, sw, se, ne, nw float64) *tin.Mesh {
	t.Helper()
	mesh, err := buildSurface([]enrichedPoint{
		{Location{0, 0}, sw},
		{Location{squareSide, 0}, se},
		{Location{squareSide, squareSide}, ne},
		{Location{0, squareSide}, nw},
	})
	if err != nil {
		t.Fatalf("buildSurface: %v", err)
	}
	return mesh
}

func TestEdgeSlopesFlat(t *testing.T) {
	mesh := squareMesh(t, 500, 500, 500, 500)
	slopes := edgeSlopes(mesh)
	if len(slopes) != len(mesh.Triangles)*3 {
		t.Fatalf("expected 3 slopes per triangle, got %d", len(slopes))
	}
	for i, s := range slopes {
		if s != minSlopeDeg {
			t.Errorf("slope %d = %v, want the %v floor", i, s, minSlopeDeg)
		}
	}
}

func TestEdgeSlopesTilted(t *testing.T) {
	// 10m rise over ~100m, west to east
	mesh := squareMesh(t, 500, 510, 510, 500)
	slopes := edgeSlopes(mesh)

	maxSlope := 0.0
	for _, s := range slopes {
		if s > maxSlope {
			maxSlope = s
		}
	}
	// east-west edges should measure close to atan(10/102) ~ 5.6 deg
	if maxSlope < 4.5 || maxSlope > 7 {
		t.Errorf("steepest edge %v°, expected around 5.6°", maxSlope)
	}
}

func TestSlopeStatsFlat(t *testing.T) {
	mesh := squareMesh(t, 500, 500, 500, 500)
	sa := newSlopeAnalyzer()
	stats := sa.analyze(mesh, edgeSlopes(mesh), 10000)

	if math.Abs(stats.Mean-minSlopeDeg) > 1e-9 {
		t.Errorf("mean = %v, want %v", stats.Mean, minSlopeDeg)
	}
	if stats.StdDev > 1e-9 {
		t.Errorf("stddev = %v, want 0", stats.StdDev)
	}
	if pct := stats.Distribution[SlopeOptimal].Percentage; pct != 100 {
		t.Errorf("OPTIMAL = %v%%, want 100", pct)
	}
	if stats.Aspects[AspectNorth] != 1 {
		t.Errorf("flat terrain should be all-North by convention, got %v", stats.Aspects)
	}
}

func TestSlopeStatsPartitions(t *testing.T) {
	meshes := map[string]*tin.Mesh{
		"flat":   squareMesh(t, 500, 500, 500, 500),
		"tilted": squareMesh(t, 500, 510, 510, 500),
		"saddle": squareMesh(t, 480, 520, 480, 520),
	}
	for name, mesh := range meshes {
		t.Run(name, func(t *testing.T) {
			sa := newSlopeAnalyzer()
			stats := sa.analyze(mesh, edgeSlopes(mesh), 10000)

			pctSum := 0.0
			areaSum := 0.0
			for _, band := range stats.Distribution {
				pctSum += band.Percentage
				areaSum += band.AreaM2
			}
			if math.Abs(pctSum-100) > 1e-6 {
				t.Errorf("distribution percentages sum to %v", pctSum)
			}
			if math.Abs(areaSum-10000) > 1e-6 {
				t.Errorf("distribution areas sum to %v", areaSum)
			}

			aspectSum := 0.0
			for _, f := range stats.Aspects {
				aspectSum += f
			}
			if math.Abs(aspectSum-1) > 1e-6 {
				t.Errorf("aspect fractions sum to %v", aspectSum)
			}
		})
	}
}

func TestClassifySlope(t *testing.T) {
	tests := []struct {
		slope float64
		want  SlopeClass
	}{
		{0.1, SlopeOptimal},
		{5, SlopeOptimal},
		{5.1, SlopeModerate},
		{8, SlopeModerate},
		{12, SlopeSteep},
		{16, SlopeSteep},
		{25, SlopeVerySteep},
		{30, SlopeVerySteep},
		{31, SlopeExtreme},
		{85, SlopeExtreme},
	}
	for _, tt := range tests {
		if got := classifySlope(tt.slope); got != tt.want {
			t.Errorf("classifySlope(%v) = %v, want %v", tt.slope, got, tt.want)
		}
	}
}

func TestConfidenceInterval(t *testing.T) {
	// single observation: no spread to reason about
	ci := confidenceInterval(5, 0, 1)
	if ci.Lower != 5 || ci.Upper != 5 {
		t.Errorf("n=1 CI should collapse to the mean, got %+v", ci)
	}

	// small samples use Student's t, which is wider than the normal
	small := confidenceInterval(10, 2, 4)
	large := confidenceInterval(10, 2, 400)
	if (small.Upper - small.Lower) <= (large.Upper - large.Lower) {
		t.Errorf("small-sample CI should be wider: %+v vs %+v", small, large)
	}
	if small.Level != 0.95 {
		t.Errorf("level = %v, want 0.95", small.Level)
	}
	if small.Lower > 10 || small.Upper < 10 {
		t.Errorf("CI %+v does not cover the mean", small)
	}
}

func TestDistributionMemo(t *testing.T) {
	sa := newSlopeAnalyzer()
	slopes := []float64{1, 2, 3, 20, 40}

	sa.distribution(slopes, 10000)
	sa.distribution(slopes, 10000)
	if len(sa.distCache) != 1 {
		t.Errorf("expected one cache entry for identical sequences, got %d", len(sa.distCache))
	}

	// same values, different area => different key
	sa.distribution(slopes, 20000)
	if len(sa.distCache) != 2 {
		t.Errorf("expected a second entry for a different area, got %d", len(sa.distCache))
	}
}
