package provider

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/terralens/arable"
)

const gmrtURL = "https://www.gmrt.org/services/PointServer"

// GMRT fetches elevations from the GMRT point server, which answers
// one location per request. Requests within a batch fan out
// concurrently (bounded). Per-point HTTP failures are recorded on the
// result - the batch itself only fails on cancellation, so flaky
// single points get dropped by the engine rather than retried forever.
type GMRT struct {
	// Client to use; nil means a default with a 10s timeout.
	Client *http.Client

	// BaseURL overrides the service endpoint (for tests).
	BaseURL string

	// Concurrency bounds parallel point requests; default 4.
	Concurrency int
}

// Fetch implements arable.ElevationProvider.
func (g *GMRT) Fetch(ctx context.Context, points []arable.Location) ([]arable.ElevationResult, error) {
	out := make([]arable.ElevationResult, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	limit := g.Concurrency
	if limit <= 0 {
		limit = 4
	}
	eg.SetLimit(limit)

	for i, p := range points {
		i, p := i, p
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			elev, err := g.fetchPoint(ctx, p)
			out[i] = arable.ElevationResult{Location: p, Elevation: elev, Err: err}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GMRT) fetchPoint(ctx context.Context, p arable.Location) (float64, error) {
	base := g.BaseURL
	if base == "" {
		base = gmrtURL
	}
	q := url.Values{}
	q.Set("longitude", strconv.FormatFloat(p.Lon, 'f', -1, 64))
	q.Set("latitude", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("format", "text/plain")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return 0, errors.Wrap(err, "building gmrt request")
	}

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "gmrt request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("gmrt returned %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, errors.Wrap(err, "reading gmrt response")
	}
	elev, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing gmrt elevation %q", raw)
	}
	return elev, nil
}

var _ arable.ElevationProvider = (*GMRT)(nil)
