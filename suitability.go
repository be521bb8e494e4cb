package arable

import (
	"fmt"
	"math"
)

// scoreCrops rates every crop group against the parcel. Each score is
// the product of four factors in [0,1] - slope fit, elevation fit,
// drainage adjustment, erosion adjustment - so improving any one
// factor never lowers a crop's score.
func scoreCrops(meanSlope, meanElev, waterlogging, erosionScore float64) map[CropType]CropScore {
	out := map[CropType]CropScore{}
	for _, crop := range allCrops {
		p := cropProfiles[crop]

		slopeF := slopeSuitability(meanSlope, p)
		elevF := elevationSuitability(meanElev, p)
		drainF := 1 - 0.5*waterlogging
		erosF := clamp01(1 - 0.3*erosionScore)

		score := clamp01(slopeF * elevF * drainF * erosF)
		out[crop] = CropScore{
			Score:       score,
			Class:       classForScore(score),
			Explanation: explain(crop, slopeF, elevF, drainF, erosF),
		}
	}
	return out
}

// slopeSuitability is piecewise linear: full marks at or under the
// crop's optimal slope, decaying to zero at its maximum.
func slopeSuitability(slope float64, p cropProfile) float64 {
	if slope <= p.OptimalSlope {
		return 1
	}
	if slope >= p.MaxSlope {
		return 0
	}
	return 1 - (slope-p.OptimalSlope)/(p.MaxSlope-p.OptimalSlope)
}

// elevationSuitability is zero outside the crop's band & rises
// linearly towards the band midpoint inside it.
func elevationSuitability(elev float64, p cropProfile) float64 {
	if elev < p.MinElev || elev > p.MaxElev {
		return 0
	}
	mid := (p.MinElev + p.MaxElev) / 2
	half := (p.MaxElev - p.MinElev) / 2
	if half <= 0 {
		return 1
	}
	return 1 - math.Abs(elev-mid)/half
}

// explain names the weakest factor so the report says *why* a crop
// scored the way it did.
func explain(crop CropType, slopeF, elevF, drainF, erosF float64) string {
	worst := "slope"
	lowest := slopeF
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"elevation", elevF},
		{"drainage", drainF},
		{"erosion", erosF},
	} {
		if f.v < lowest {
			lowest = f.v
			worst = f.name
		}
	}
	if lowest >= 0.85 {
		return fmt.Sprintf("%s: terrain poses no significant constraint", crop)
	}
	return fmt.Sprintf("%s: limited chiefly by %s (factor %.2f)", crop, worst, lowest)
}

// zonate tags crops worth planting; strong fits first, the rest
// omitted entirely.
func zonate(scores map[CropType]CropScore) []Zone {
	var out []Zone
	for _, crop := range allCrops {
		s := scores[crop].Score
		switch {
		case s > 0.7:
			out = append(out, Zone{Crop: crop, Tag: "Optimal"})
		case s > 0.4:
			out = append(out, Zone{Crop: crop, Tag: "Suitable"})
		}
	}
	return out
}

// limitations lists terrain factors constraining the whole parcel.
func limitations(meanSlope, waterlogging float64) []Limitation {
	var out []Limitation
	if meanSlope > 15 {
		out = append(out, Limitation{
			Factor: "Slope",
			Detail: fmt.Sprintf("mean slope %.1f° restricts machinery & raises erosion pressure", meanSlope),
		})
	}
	if waterlogging > 0.5 {
		out = append(out, Limitation{
			Factor: "Drainage",
			Detail: fmt.Sprintf("waterlogging risk %.2f, subsurface drainage likely needed", waterlogging),
		})
	}
	return out
}
