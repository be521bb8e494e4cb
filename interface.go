package arable

import (
	"context"
)

// Location is a WGS84 position, coordinate order lon/lat.
type Location struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// ElevationResult is the per-point outcome of an ElevationProvider call.
// Either Elevation is set or Err explains why it isn't.
type ElevationResult struct {
	Location
	Elevation float64 `json:"elevation"`
	Err       error   `json:"-"`
}

// ElevationProvider resolves elevations for a batch of locations.
// Implementations must
// - return one result per input point, index aligned with the input
// - record per-point failures in ElevationResult.Err rather than
//   failing the whole call
// - return a non-nil error only when the entire batch is unusable
//   (ie. transport failure); the engine backs off & retries those
// The engine decides batch sizes; providers are free to subdivide
// further internally.
type ElevationProvider interface {
	Fetch(ctx context.Context, points []Location) ([]ElevationResult, error)
}
