// Package arable assesses the agricultural viability of a land parcel
// described by a polygon on the Earth's surface. A polygon goes in;
// a report of terrain statistics (slope, aspect, drainage, erosion,
// solar exposure), per-crop suitability and return-on-investment
// indicators comes out.
//
// The pipeline samples the polygon into a point lattice, attaches
// elevations via an injected ElevationProvider, reconstructs the
// surface as a Delaunay TIN, rasterizes it for D8 hydrology & reduces
// everything to scores. All network I/O lives behind the provider
// interface; the engine itself is pure.
package arable

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/terralens/arable/internal/hydro"
)

// Engine runs parcel analyses. Safe for concurrent use; each call
// carries its own state end to end, nothing is shared between calls.
type Engine struct {
	provider ElevationProvider
	cfg      *Config
}

// New creates an Engine around the given elevation provider. A nil
// cfg means all defaults.
func New(provider ElevationProvider, cfg *Config) (*Engine, error) {
	if provider == nil {
		return nil, errors.New("an ElevationProvider is required")
	}
	return &Engine{provider: provider, cfg: cfg.withDefaults()}, nil
}

// AnalyzeArea runs the full pipeline over a Polygon or MultiPolygon
// (WGS84, lon/lat order). Errors abort the pipeline & surface as one
// of the sentinel errors in errors.go; there are no degraded reports.
func (e *Engine) AnalyzeArea(ctx context.Context, g orb.Geometry) (*Report, error) {
	parcel, err := validateGeometry(g)
	if err != nil {
		return nil, err
	}

	samples := planSamples(parcel, e.cfg)

	enriched, err := enrichPoints(ctx, e.provider, samples, e.cfg)
	if err != nil {
		return nil, err
	}

	mesh, err := buildSurface(enriched)
	if err != nil {
		return nil, err
	}

	// slope & aspect
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}
	sa := newSlopeAnalyzer()
	slopes := edgeSlopes(mesh)
	slopeStats := sa.analyze(mesh, slopes, parcel.areaM2)

	// hydrology over the rasterized surface
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}
	raster := rasterize(mesh, e.cfg.RasterTargetCells)
	flow := hydro.Route(raster)
	drainage := analyzeDrainage(raster, flow, parcel.areaM2)

	// remaining surface analyses
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}
	terrain := TerrainAnalysis{
		Drainage:    drainage,
		ErosionRisk: analyzeErosion(slopeStats.Mean, slopeStats.StdDev),
		WaterRetention: analyzeRetention(
			slopeStats.Mean, slopeStats.Distribution[SlopeOptimal].Percentage),
		SolarExposure: analyzeSolar(slopeStats.Aspects, e.cfg.Hemisphere),
		Complexity:    analyzeComplexity(slopes, slopeStats.Mean, slopeStats.StdDev),
	}

	// suitability & economics
	if err := checkCancel(ctx); err != nil {
		return nil, err
	}
	elev := elevationRange(enriched)
	scores := scoreCrops(
		slopeStats.Mean, elev.Mean, drainage.WaterloggingRisk, terrain.ErosionRisk.Score)
	roi := analyzeROI(parcel.areaM2, slopeStats.Mean, slopeStats.StdDev, terrain)

	return &Report{
		ID: uuid.NewString(),
		AreaCharacteristics: AreaCharacteristics{
			TotalAreaM2:    parcel.areaM2,
			ElevationRange: elev,
			Slope:          slopeStats,
		},
		TerrainAnalysis: terrain,
		CropSuitability: CropSuitabilityReport{
			Scores:      scores,
			Zonation:    zonate(scores),
			Limitations: limitations(slopeStats.Mean, drainage.WaterloggingRisk),
		},
		ROIAnalysis:     roi,
		Recommendations: recommend(scores, roi),
	}, nil
}

// AnalyzeGeoJSON is AnalyzeArea over raw GeoJSON geometry bytes.
func (e *Engine) AnalyzeGeoJSON(ctx context.Context, data []byte) (*Report, error) {
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidGeometry, err.Error())
	}
	return e.AnalyzeArea(ctx, g.Geometry())
}

// AnalyzePoint analyses a small square parcel centred on the given
// location - a convenience for "what is this spot like" queries.
func (e *Engine) AnalyzePoint(ctx context.Context, lon, lat float64) (*Report, error) {
	// a few lattice spacings either side so the sampler has something
	// to chew on
	half := 2 * e.cfg.GridSpacingMeters
	dLat := degreeSpanLat(half)
	dLon := degreeSpanLon(half, lat)
	square := orb.Polygon{orb.Ring{
		{lon - dLon, lat - dLat},
		{lon + dLon, lat - dLat},
		{lon + dLon, lat + dLat},
		{lon - dLon, lat + dLat},
		{lon - dLon, lat - dLat},
	}}
	return e.AnalyzeArea(ctx, square)
}

// JSON returns the report marshalled for transport or storage.
func (r *Report) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// elevationRange summarises survivor elevations.
func elevationRange(points []enrichedPoint) ElevationRange {
	if len(points) == 0 {
		return ElevationRange{}
	}
	out := ElevationRange{Min: points[0].Elevation, Max: points[0].Elevation}
	elevs := make([]float64, len(points))
	for i, p := range points {
		elevs[i] = p.Elevation
		if p.Elevation < out.Min {
			out.Min = p.Elevation
		}
		if p.Elevation > out.Max {
			out.Max = p.Elevation
		}
	}
	out.Mean = stat.Mean(elevs, nil)
	return out
}
