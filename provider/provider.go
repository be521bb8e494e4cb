// Package provider ships ready-made ElevationProvider implementations:
// the GMRT point service, the Open-Meteo elevation API, and a Static
// in-memory provider for tests & offline use. All of them honour the
// engine contract: one result per input point, index aligned, with
// per-point failures recorded in the result rather than failing the
// batch.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/terralens/arable"
)

const defaultTimeout = 10 * time.Second

// Static resolves elevations from a caller supplied function. Handy
// for tests (synthetic terrain) & for replaying cached survey data.
type Static struct {
	// Elevation returns the elevation for a location, or an error to
	// mark that point as failed.
	Elevation func(lon, lat float64) (float64, error)
}

// Fetch implements arable.ElevationProvider.
func (s *Static) Fetch(_ context.Context, points []arable.Location) ([]arable.ElevationResult, error) {
	out := make([]arable.ElevationResult, len(points))
	for i, p := range points {
		elev, err := s.Elevation(p.Lon, p.Lat)
		out[i] = arable.ElevationResult{Location: p, Elevation: elev, Err: err}
	}
	return out, nil
}

// httpClient returns c or a default with a sane timeout.
func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}
