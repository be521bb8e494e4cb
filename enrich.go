package arable

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const (
	// plausible elevation bounds, metres (Mariana trench to past Everest)
	minElevationM = -11000.0
	maxElevationM = 9000.0

	// fewest enriched points we can triangulate a surface from
	minSurvivors = 3
)

// enrichedPoint is a sample location with its elevation attached.
type enrichedPoint struct {
	Location
	Elevation float64
}

// enrichPoints attaches elevations to the sample lattice via the
// injected provider. Points are fetched in strictly sequential batches
// (the provider may fan out within a batch) with a polite delay between
// them; failed batches are retried with exponential backoff. Points
// whose final result is an error, or whose elevation is outside sane
// bounds, are dropped. Input order is preserved among survivors.
func enrichPoints(ctx context.Context, provider ElevationProvider, points []Location, cfg *Config) ([]enrichedPoint, error) {
	bs := batchSize(len(points), cfg.MaxBatchSize)

	out := make([]enrichedPoint, 0, len(points))
	for start := 0; start < len(points); start += bs {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}

		end := start + bs
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		results, err := fetchWithRetry(ctx, provider, batch, cfg)
		if err != nil {
			return nil, err
		}

		for i, r := range results {
			if r.Err != nil {
				continue
			}
			if !validElevation(r.Elevation) {
				continue
			}
			out = append(out, enrichedPoint{Location: batch[i], Elevation: r.Elevation})
		}

		if end < len(points) {
			if err := sleepCtx(ctx, cfg.RequestDelay); err != nil {
				return nil, err
			}
		}
	}

	if len(out) < minSurvivors {
		return nil, errors.Wrapf(ErrInsufficientData,
			"%d of %d points enriched, need %d", len(out), len(points), minSurvivors)
	}
	return out, nil
}

// batchSize scales with the total so small jobs don't make tiny calls:
// min(maxBatch, ceil(total/10)), floored at 1.
func batchSize(total, maxBatch int) int {
	bs := (total + 9) / 10
	if bs > maxBatch {
		bs = maxBatch
	}
	if bs < 1 {
		bs = 1
	}
	return bs
}

// fetchWithRetry calls the provider for one batch, backing off
// RequestDelay * 2^attempt between failed attempts.
func fetchWithRetry(ctx context.Context, provider ElevationProvider, batch []Location, cfg *Config) ([]ElevationResult, error) {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, cfg.RequestDelay*(1<<uint(attempt-1))); err != nil {
				return nil, err
			}
		}

		results, err := provider.Fetch(ctx, batch)
		if err != nil {
			lastErr = err
			continue
		}
		if len(results) != len(batch) {
			return nil, errors.Wrapf(ErrInternal,
				"provider returned %d results for %d points", len(results), len(batch))
		}
		return results, nil
	}
	return nil, errors.Wrapf(ErrProvider, "batch of %d failed after %d retries: %v",
		len(batch), cfg.MaxRetries, lastErr)
}

// validElevation rejects NaN / Inf and anything outside earthly bounds.
func validElevation(e float64) bool {
	return finite(e) && e >= minElevationM && e <= maxElevationM
}

// checkCancel is our cooperative cancellation checkpoint.
func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errors.Wrap(ErrCancelled, ctx.Err().Error())
	default:
		return nil
	}
}

// sleepCtx waits d or bails early if the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ErrCancelled, ctx.Err().Error())
	case <-t.C:
		return nil
	}
}
