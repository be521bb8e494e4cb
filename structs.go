package arable

// SlopeClass buckets slopes (degrees) into agronomic bands.
type SlopeClass string

const (
	SlopeOptimal   SlopeClass = "OPTIMAL"    // <= 5 deg
	SlopeModerate  SlopeClass = "MODERATE"   // <= 8 deg
	SlopeSteep     SlopeClass = "STEEP"      // <= 16 deg
	SlopeVerySteep SlopeClass = "VERY_STEEP" // <= 30 deg
	SlopeExtreme   SlopeClass = "EXTREME"    // the rest
)

// allSlopeClasses in ascending steepness; iteration order for reports.
var allSlopeClasses = []SlopeClass{
	SlopeOptimal, SlopeModerate, SlopeSteep, SlopeVerySteep, SlopeExtreme,
}

// AspectClass is the compass quadrant a slope faces.
type AspectClass string

const (
	AspectNorth AspectClass = "N"
	AspectEast  AspectClass = "E"
	AspectSouth AspectClass = "S"
	AspectWest  AspectClass = "W"
)

var allAspects = []AspectClass{AspectNorth, AspectEast, AspectSouth, AspectWest}

// ConfidenceInterval for a sample statistic.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"` // eg. 0.95
}

// SlopeBand is one row of the slope distribution.
type SlopeBand struct {
	Percentage  float64 `json:"percentage"` // of all measured slopes, 0-100
	AreaM2      float64 `json:"area_m2"`    // proportional share of the polygon
	Description string  `json:"description"`
}

// SlopeStats aggregates every edge slope measured over the terrain
// surface. Percentages across Distribution sum to 100, fractions
// across Aspects sum to 1 (when any triangles exist).
type SlopeStats struct {
	Mean         float64                  `json:"mean"`
	Median       float64                  `json:"median"`
	StdDev       float64                  `json:"std_dev"`
	Confidence   ConfidenceInterval       `json:"confidence"`
	Distribution map[SlopeClass]SlopeBand `json:"distribution"`
	Aspects      map[AspectClass]float64  `json:"aspects"`
}

// ElevationRange of the enriched sample points, metres.
type ElevationRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// AreaCharacteristics is the headline block of the report.
type AreaCharacteristics struct {
	TotalAreaM2    float64        `json:"total_area_m2"`
	ElevationRange ElevationRange `json:"elevation_range"`
	Slope          SlopeStats     `json:"slope"`
}

// Drainage summarizes the D8 flow model over the raster.
type Drainage struct {
	Pattern          string  `json:"pattern"`            // Dendritic | Trellis | Parallel | Rectangular
	DensityKmPerKm2  float64 `json:"density_km_per_km2"` // channel length per unit area
	WaterloggingRisk float64 `json:"waterlogging_risk"`  // 0-1
}

// ErosionRisk per a RUSLE-flavoured slope model.
type ErosionRisk struct {
	Score    float64 `json:"score"` // 0+, unbounded but small in practice
	Category string  `json:"category"`
}

// WaterRetention per an SCS-CN-flavoured model.
type WaterRetention struct {
	CapacityMm    float64 `json:"capacity_mm"`
	EfficiencyPct float64 `json:"efficiency_pct"`
}

// SolarExposure scores how much sun the parcel's slopes catch.
type SolarExposure struct {
	Score    float64 `json:"score"` // 0-1
	Category string  `json:"category"`
}

// TerrainComplexity measures how broken up the ground is.
type TerrainComplexity struct {
	Score       float64 `json:"score"`       // stddev of slopes / 45
	Variability float64 `json:"variability"` // mean abs deviation of slopes
}

// TerrainAnalysis groups the heavy per-surface analyses.
type TerrainAnalysis struct {
	Drainage       Drainage          `json:"drainage"`
	ErosionRisk    ErosionRisk       `json:"erosion_risk"`
	WaterRetention WaterRetention    `json:"water_retention"`
	SolarExposure  SolarExposure     `json:"solar_exposure"`
	Complexity     TerrainComplexity `json:"complexity"`
}

// CropScore is the suitability verdict for one crop group.
type CropScore struct {
	Score       float64          `json:"score"` // 0-1
	Class       SuitabilityClass `json:"class"`
	Explanation string           `json:"explanation"`
}

// Zone tags a crop as worth planting here.
type Zone struct {
	Crop CropType `json:"crop"`
	Tag  string   `json:"tag"` // Optimal | Suitable
}

// Limitation names a terrain factor that constrains use of the parcel.
type Limitation struct {
	Factor string `json:"factor"` // Slope | Drainage
	Detail string `json:"detail"`
}

// CropSuitabilityReport is the C6 suitability block.
type CropSuitabilityReport struct {
	Scores      map[CropType]CropScore `json:"scores"`
	Zonation    []Zone                 `json:"zonation,omitempty"`
	Limitations []Limitation           `json:"limitations,omitempty"`
}

// DevelopmentCosts estimates what clearing & preparing the parcel runs.
type DevelopmentCosts struct {
	TotalUSD      float64 `json:"total_usd"`
	PerHectareUSD float64 `json:"per_hectare_usd"`
}

// MaintenanceFactor is one recurring upkeep requirement.
type MaintenanceFactor struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"` // Quarterly | Bi-annual
	Level     string `json:"level"`     // High | Medium
}

// MaintenanceEstimate groups upkeep requirements with a yearly figure.
type MaintenanceEstimate struct {
	Factors           []MaintenanceFactor `json:"factors,omitempty"`
	AnnualEstimateUSD float64             `json:"annual_estimate_usd"`
}

// ProductivityPotential is the headline yield outlook.
type ProductivityPotential struct {
	Score float64 `json:"score"`
	Class string  `json:"class"` // Exceptional | High | Moderate | Low | Marginal
}

// ROIAnalysis is the C6 economics block.
type ROIAnalysis struct {
	DevelopmentCosts      DevelopmentCosts      `json:"development_costs"`
	MaintenanceFactors    MaintenanceEstimate   `json:"maintenance_factors"`
	ProductivityPotential ProductivityPotential `json:"productivity_potential"`
	RiskFactors           []string              `json:"risk_factors,omitempty"`
	SustainabilityScore   float64               `json:"sustainability_score"`
}

// Recommendation is one block of human readable advice.
type Recommendation struct {
	Category    string   `json:"category"`
	Suggestions []string `json:"suggestions"`
}

// Report is the aggregate record emitted by one AnalyzeArea call.
// All numeric fields are finite; areas in m², distances in metres,
// percentages in 0-100, scores in 0-1.
type Report struct {
	ID                  string                `json:"id"`
	AreaCharacteristics AreaCharacteristics   `json:"area_characteristics"`
	TerrainAnalysis     TerrainAnalysis       `json:"terrain_analysis"`
	CropSuitability     CropSuitabilityReport `json:"crop_suitability"`
	ROIAnalysis         ROIAnalysis           `json:"roi_analysis"`
	Recommendations     []Recommendation      `json:"recommendations,omitempty"`
}
