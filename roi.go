package arable

import (
	"fmt"
)

const (
	baseDevCostPerHa   = 5000.0 // USD, flat easy ground
	baseAnnualUpkeep   = 1000.0 // USD per year before terrain surcharges
	phasedDevCostPerHa = 7000.0 // above this we suggest phasing the build-out
)

// analyzeROI turns the terrain picture into an economics block:
// what the parcel costs to develop, what it costs to keep, and what
// it's likely to give back.
func analyzeROI(areaM2, meanSlope, stdDev float64, ta TerrainAnalysis) ROIAnalysis {
	hectares := areaM2 / 1e4
	erosion := ta.ErosionRisk.Score
	waterlog := ta.Drainage.WaterloggingRisk
	solar := ta.SolarExposure.Score

	// steeper and more broken ground costs more to bring into production
	total := baseDevCostPerHa * hectares * (1 + meanSlope/10) * (1 + stdDev/15)
	perHa := 0.0
	if hectares > 0 {
		perHa = total / hectares
	}

	var factors []MaintenanceFactor
	if erosion > 0.3 {
		factors = append(factors, MaintenanceFactor{
			Name: "erosion control", Frequency: "Quarterly", Level: "High",
		})
	}
	if waterlog > 0.3 {
		factors = append(factors, MaintenanceFactor{
			Name: "drainage maintenance", Frequency: "Bi-annual", Level: "Medium",
		})
	}

	productivity := clampMin(1*(1-0.4*waterlog)*(1-0.3*erosion)*(1+0.2*solar), 0)

	return ROIAnalysis{
		DevelopmentCosts: DevelopmentCosts{
			TotalUSD:      total,
			PerHectareUSD: perHa,
		},
		MaintenanceFactors: MaintenanceEstimate{
			Factors:           factors,
			AnnualEstimateUSD: baseAnnualUpkeep * (1 + 0.5*erosion + 0.3*waterlog),
		},
		ProductivityPotential: ProductivityPotential{
			Score: productivity,
			Class: productivityClass(productivity),
		},
		RiskFactors:         riskFactors(meanSlope, ta),
		SustainabilityScore: sustainability(erosion, waterlog, solar),
	}
}

func productivityClass(score float64) string {
	switch {
	case score >= 0.85:
		return "Exceptional"
	case score >= 0.70:
		return "High"
	case score >= 0.50:
		return "Moderate"
	case score >= 0.30:
		return "Low"
	default:
		return "Marginal"
	}
}

// sustainability combines erosion, drainage & solar terms, clamped to
// [0,1] and rounded to two decimals.
func sustainability(erosion, waterlog, solar float64) float64 {
	s := clamp01(1-0.5*erosion) * clamp01(1-0.3*waterlog) * (1 + clamp01(0.2*solar))
	return round2(clamp01(s))
}

func riskFactors(meanSlope float64, ta TerrainAnalysis) []string {
	var out []string
	if ta.ErosionRisk.Score > 0.4 {
		out = append(out, fmt.Sprintf("elevated erosion risk (%s)", ta.ErosionRisk.Category))
	}
	if ta.Drainage.WaterloggingRisk > 0.5 {
		out = append(out, "seasonal waterlogging likely")
	}
	if meanSlope > 15 {
		out = append(out, "steep ground limits machinery access")
	}
	return out
}

// recommend emits human readable advice blocks: which crops to back,
// and whether to stage the development spend.
func recommend(scores map[CropType]CropScore, roi ROIAnalysis) []Recommendation {
	var out []Recommendation

	var good []CropType
	for _, crop := range allCrops {
		if scores[crop].Score > 0.6 {
			good = append(good, crop)
		}
	}
	if len(good) > 0 {
		sortCropsByScore(good, scores)
		suggestions := make([]string, len(good))
		for i, crop := range good {
			suggestions[i] = fmt.Sprintf("%s (score %.2f, class %s)",
				crop, scores[crop].Score, scores[crop].Class)
		}
		out = append(out, Recommendation{Category: "Crop Selection", Suggestions: suggestions})
	}

	if roi.DevelopmentCosts.PerHectareUSD > phasedDevCostPerHa {
		out = append(out, Recommendation{
			Category: "Phased Development",
			Suggestions: []string{fmt.Sprintf(
				"development cost of %.0f USD/ha is high; stage clearing & works over several seasons",
				roi.DevelopmentCosts.PerHectareUSD)},
		})
	}
	return out
}

func clampMin(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}
