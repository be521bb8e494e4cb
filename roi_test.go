package arable

import (
	"math"
	"strings"
	"testing"
)

func benignTerrain() TerrainAnalysis {
	return TerrainAnalysis{
		Drainage:      Drainage{Pattern: "Rectangular"},
		ErosionRisk:   ErosionRisk{Score: 0.05, Category: "VeryLow"},
		SolarExposure: SolarExposure{Score: 0.8, Category: "Good"},
	}
}

func TestDevelopmentCostFlat(t *testing.T) {
	roi := analyzeROI(10000, 0, 0, benignTerrain())
	// 1 ha of dead flat ground at the base rate
	if math.Abs(roi.DevelopmentCosts.TotalUSD-5000) > 1e-9 {
		t.Errorf("total = %v, want 5000", roi.DevelopmentCosts.TotalUSD)
	}
	if math.Abs(roi.DevelopmentCosts.PerHectareUSD-5000) > 1e-9 {
		t.Errorf("per ha = %v, want 5000", roi.DevelopmentCosts.PerHectareUSD)
	}
}

func TestDevelopmentCostScalesWithSlope(t *testing.T) {
	flat := analyzeROI(10000, 0, 0, benignTerrain())
	steep := analyzeROI(10000, 20, 10, benignTerrain())
	if steep.DevelopmentCosts.TotalUSD <= flat.DevelopmentCosts.TotalUSD {
		t.Error("steeper ground should cost more to develop")
	}
	// 5000 * (1 + 20/10) * (1 + 10/15)
	want := 5000.0 * 3 * (1 + 10.0/15)
	if math.Abs(steep.DevelopmentCosts.TotalUSD-want) > 1e-6 {
		t.Errorf("total = %v, want %v", steep.DevelopmentCosts.TotalUSD, want)
	}
}

func TestMaintenanceFactors(t *testing.T) {
	ta := benignTerrain()
	roi := analyzeROI(10000, 5, 2, ta)
	if len(roi.MaintenanceFactors.Factors) != 0 {
		t.Errorf("benign terrain should need no special upkeep, got %v", roi.MaintenanceFactors.Factors)
	}
	if math.Abs(roi.MaintenanceFactors.AnnualEstimateUSD-1000*(1+0.5*0.05)) > 1e-9 {
		t.Errorf("annual estimate %v", roi.MaintenanceFactors.AnnualEstimateUSD)
	}

	ta.ErosionRisk.Score = 0.5
	ta.Drainage.WaterloggingRisk = 0.6
	roi = analyzeROI(10000, 5, 2, ta)
	if len(roi.MaintenanceFactors.Factors) != 2 {
		t.Fatalf("expected erosion + drainage factors, got %v", roi.MaintenanceFactors.Factors)
	}
	if roi.MaintenanceFactors.Factors[0].Frequency != "Quarterly" ||
		roi.MaintenanceFactors.Factors[1].Frequency != "Bi-annual" {
		t.Errorf("unexpected frequencies: %v", roi.MaintenanceFactors.Factors)
	}
}

func TestProductivityClasses(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "Exceptional"},
		{0.75, "High"},
		{0.6, "Moderate"},
		{0.4, "Low"},
		{0.1, "Marginal"},
	}
	for _, tt := range tests {
		if got := productivityClass(tt.score); got != tt.want {
			t.Errorf("productivityClass(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSustainabilityBounds(t *testing.T) {
	cases := []struct{ erosion, waterlog, solar float64 }{
		{0, 0, 1},
		{3, 1, 0},
		{0.5, 0.5, 0.5},
		{0.2, 0, 0.9},
	}
	for _, c := range cases {
		s := sustainability(c.erosion, c.waterlog, c.solar)
		if s < 0 || s > 1 {
			t.Errorf("sustainability(%v,%v,%v) = %v out of [0,1]", c.erosion, c.waterlog, c.solar, s)
		}
		if s != round2(s) {
			t.Errorf("sustainability %v not rounded to 2dp", s)
		}
	}
}

func TestRecommendCropSelection(t *testing.T) {
	scores := map[CropType]CropScore{
		Grains:     {Score: 0.9, Class: S1},
		Vegetables: {Score: 0.65, Class: S3},
		RootCrops:  {Score: 0.2, Class: N2},
		Orchards:   {Score: 0.75, Class: S2},
	}
	roi := ROIAnalysis{DevelopmentCosts: DevelopmentCosts{PerHectareUSD: 5000}}

	recs := recommend(scores, roi)
	if len(recs) != 1 {
		t.Fatalf("expected just the crop selection block, got %v", recs)
	}
	if recs[0].Category != "Crop Selection" {
		t.Errorf("category %q", recs[0].Category)
	}
	if len(recs[0].Suggestions) != 3 {
		t.Fatalf("expected 3 crops over 0.6, got %v", recs[0].Suggestions)
	}
	// best first
	if !strings.HasPrefix(recs[0].Suggestions[0], string(Grains)) {
		t.Errorf("expected grains first, got %q", recs[0].Suggestions[0])
	}
}

func TestRecommendPhasedDevelopment(t *testing.T) {
	roi := ROIAnalysis{DevelopmentCosts: DevelopmentCosts{PerHectareUSD: 9000}}
	recs := recommend(map[CropType]CropScore{}, roi)
	if len(recs) != 1 || recs[0].Category != "Phased Development" {
		t.Fatalf("expected a phased development suggestion, got %v", recs)
	}
}
