package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/terralens/arable"
)

const (
	openMeteoURL = "https://api.open-meteo.com/v1/elevation"

	// the API accepts up to 100 coordinates per request
	openMeteoMaxCoords = 100
)

// OpenMeteo fetches elevations from the Open-Meteo elevation API.
// Batches over 100 points are split into sub-requests which run
// concurrently (bounded); result order is preserved regardless.
type OpenMeteo struct {
	// Client to use; nil means a default with a 10s timeout.
	Client *http.Client

	// BaseURL overrides the API endpoint (tests point this at a
	// httptest server).
	BaseURL string

	// Concurrency bounds parallel sub-requests; default 4.
	Concurrency int
}

type openMeteoResponse struct {
	Elevation []float64 `json:"elevation"`
}

// Fetch implements arable.ElevationProvider.
func (o *OpenMeteo) Fetch(ctx context.Context, points []arable.Location) ([]arable.ElevationResult, error) {
	out := make([]arable.ElevationResult, len(points))

	g, ctx := errgroup.WithContext(ctx)
	limit := o.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	for start := 0; start < len(points); start += openMeteoMaxCoords {
		start := start
		end := start + openMeteoMaxCoords
		if end > len(points) {
			end = len(points)
		}
		g.Go(func() error {
			return o.fetchChunk(ctx, points[start:end], out[start:end])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchChunk resolves one sub-request, writing results in place.
func (o *OpenMeteo) fetchChunk(ctx context.Context, points []arable.Location, out []arable.ElevationResult) error {
	lats := make([]string, len(points))
	lons := make([]string, len(points))
	for i, p := range points {
		lats[i] = strconv.FormatFloat(p.Lat, 'f', -1, 64)
		lons[i] = strconv.FormatFloat(p.Lon, 'f', -1, 64)
	}

	base := o.BaseURL
	if base == "" {
		base = openMeteoURL
	}
	q := url.Values{}
	q.Set("latitude", strings.Join(lats, ","))
	q.Set("longitude", strings.Join(lons, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Wrapf(err, "building %s request", o)
	}

	resp, err := httpClient(o.Client).Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request", o)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s returned %d", o, resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return errors.Wrapf(err, "decoding %s response", o)
	}
	if len(body.Elevation) != len(points) {
		return errors.Errorf("%s returned %d elevations for %d points",
			o, len(body.Elevation), len(points))
	}

	for i, p := range points {
		out[i] = arable.ElevationResult{Location: p, Elevation: body.Elevation[i]}
	}
	return nil
}

var _ arable.ElevationProvider = (*OpenMeteo)(nil)

// String identifies the provider in error messages.
func (o *OpenMeteo) String() string {
	return fmt.Sprintf("open-meteo(%s)", openMeteoURL)
}
