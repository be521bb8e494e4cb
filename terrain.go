package arable

import (
	"math"

	"github.com/terralens/arable/internal/hydro"
)

// flow accumulation thresholds: a cell counts as a high / medium / low
// flow channel once this much upstream area drains through it.
const (
	highFlowAcc   = 100
	mediumFlowAcc = 10
	lowFlowAcc    = 2
)

// analyzeDrainage reduces the routed flow grid to the report's
// drainage block.
func analyzeDrainage(g *hydro.Grid, flow *hydro.Flow, areaM2 float64) Drainage {
	cells := float64(g.N * g.N)
	var high, med, low float64
	for _, a := range flow.Acc {
		if a > highFlowAcc {
			high++
		}
		if a > mediumFlowAcc {
			med++
		}
		if a > lowFlowAcc {
			low++
		}
	}
	highR := high / cells
	medR := med / cells
	lowR := low / cells

	pattern := "Rectangular"
	switch {
	case highR > 0.30:
		pattern = "Dendritic"
	case medR > 0.50:
		pattern = "Trellis"
	case lowR > 0.70:
		pattern = "Parallel"
	}

	density := 0.0
	if areaM2 > 0 {
		// channel length (km) per km² of parcel
		density = (med * g.CellSize) / 1000 / (areaM2 / 1e6)
	}

	return Drainage{
		Pattern:          pattern,
		DensityKmPerKm2:  density,
		WaterloggingRisk: math.Min(1, 0.7*highR+0.3*medR),
	}
}

// analyzeErosion follows a RUSLE-style slope-length factor: steepness
// drives the sine term, slope variability inflates it.
func analyzeErosion(meanSlope, stdDev float64) ErosionRisk {
	score := math.Pow(math.Sin(meanSlope/degPerRad), 1.3) * (1 + stdDev/45)

	category := "VeryHigh"
	switch {
	case score <= 0.2:
		category = "VeryLow"
	case score <= 0.4:
		category = "Low"
	case score <= 0.6:
		category = "Moderate"
	case score <= 0.8:
		category = "High"
	}
	return ErosionRisk{Score: score, Category: category}
}

// analyzeRetention follows an SCS-CN-style decay: the flatter the
// parcel (and the bigger its optimal-slope share) the more water the
// soil profile holds onto.
func analyzeRetention(meanSlope, optimalPct float64) WaterRetention {
	decay := math.Exp(-0.04 * meanSlope)
	return WaterRetention{
		CapacityMm:    100 * decay * (optimalPct / 100),
		EfficiencyPct: decay * 100,
	}
}

// analyzeSolar scores aspect fractions by how much sun each facing
// catches. Weights assume the configured hemisphere: south-facing wins
// in the north & vice versa, east/west are equivalent either way.
func analyzeSolar(aspects map[AspectClass]float64, h Hemisphere) SolarExposure {
	sunny, shaded := aspects[AspectSouth], aspects[AspectNorth]
	if h == South {
		sunny, shaded = shaded, sunny
	}
	score := 1*sunny + 0.7*(aspects[AspectEast]+aspects[AspectWest]) + 0.4*shaded

	category := "Optimal"
	switch {
	case score <= 0.3:
		category = "Poor"
	case score <= 0.5:
		category = "Fair"
	case score <= 0.7:
		category = "Moderate"
	case score <= 0.9:
		category = "Good"
	}
	return SolarExposure{Score: score, Category: category}
}

// analyzeComplexity measures how broken the terrain is: score is the
// slope spread normalised against 45°, variability the mean absolute
// deviation of the edge slopes.
func analyzeComplexity(slopes []float64, meanSlope, stdDev float64) TerrainComplexity {
	variability := 0.0
	if len(slopes) > 0 {
		for _, s := range slopes {
			variability += math.Abs(s - meanSlope)
		}
		variability /= float64(len(slopes))
	}
	return TerrainComplexity{Score: stdDev / 45, Variability: variability}
}
