package arable

import (
	"sort"
)

// CropType indicates roughly what one might grow on a parcel.
// In practice a "grains" parcel wont grow only grains or whatever,
// but .. still .. gives us a generic way to think about suitability
// in broad agronomic groups.
type CropType string

const (
	Grains     CropType = "GRAINS"     // wheat, barley, maize & friends
	Vegetables CropType = "VEGETABLES" // field vegetables, salad crops
	Orchards   CropType = "ORCHARDS"   // fruit & nut trees, vines
	RootCrops  CropType = "ROOT_CROPS" // potatoes, beets, carrots
)

// SuitabilityClass is the FAO land suitability ladder, from highly
// suitable (S1) down to permanently not suitable (N2).
type SuitabilityClass string

const (
	S1 SuitabilityClass = "S1" // highly suitable
	S2 SuitabilityClass = "S2" // moderately suitable
	S3 SuitabilityClass = "S3" // marginally suitable
	N1 SuitabilityClass = "N1" // currently not suitable
	N2 SuitabilityClass = "N2" // permanently not suitable
)

// cropProfile holds per-crop terrain tolerances used by the scorer.
// Slopes in degrees, elevations in metres.
type cropProfile struct {
	OptimalSlope float64 // full marks at or under this
	MaxSlope     float64 // zero at or over this
	MinElev      float64
	MaxElev      float64
}

var (
	// allCrops ordered by how demanding they are of flat ground,
	// fussiest first. Iteration over crops always uses this order so
	// reports come out deterministic.
	allCrops = []CropType{Grains, Vegetables, RootCrops, Orchards}

	cropProfiles = map[CropType]cropProfile{
		Grains:     {OptimalSlope: 5, MaxSlope: 15, MinElev: 0, MaxElev: 2500},
		Vegetables: {OptimalSlope: 3, MaxSlope: 10, MinElev: 0, MaxElev: 2000},
		RootCrops:  {OptimalSlope: 4, MaxSlope: 12, MinElev: 0, MaxElev: 2200},
		Orchards:   {OptimalSlope: 10, MaxSlope: 30, MinElev: 0, MaxElev: 3000},
	}
)

// AllCropTypes returns all known CropType enums.
func AllCropTypes() []CropType {
	out := make([]CropType, len(allCrops))
	copy(out, allCrops)
	return out
}

// classForScore maps a suitability score onto the FAO ladder.
func classForScore(score float64) SuitabilityClass {
	switch {
	case score >= 0.85:
		return S1
	case score >= 0.70:
		return S2
	case score >= 0.50:
		return S3
	case score >= 0.30:
		return N1
	default:
		return N2
	}
}

// sortCropsByScore orders crops best-first, ties broken by the fixed
// allCrops order so output stays deterministic.
func sortCropsByScore(in []CropType, scores map[CropType]CropScore) {
	rank := map[CropType]int{}
	for i, c := range allCrops {
		rank[c] = i
	}
	sort.SliceStable(in, func(a, b int) bool {
		sa := scores[in[a]].Score
		sb := scores[in[b]].Score
		if sa == sb {
			return rank[in[a]] < rank[in[b]]
		}
		return sa > sb
	})
}
