package arable

import (
	"time"
)

// Hemisphere selects which way the solar exposure weights face.
// The defaults assume the northern hemisphere (south facing slopes
// get the most sun); set South to swap the north/south weights.
type Hemisphere string

const (
	North Hemisphere = "north"
	South Hemisphere = "south"
)

// Config holds engine settings that are hopefully relevant to most
// analyses - sampling density, provider batching, raster resolution etc.
// The zero value is usable; unset fields take the documented defaults.
// None of these are loaded from flags / env / disk - that's up to the
// caller.
type Config struct {
	// GridSpacingMeters is the spacing of the sample lattice laid over
	// the polygon. Smaller values mean more provider calls.
	GridSpacingMeters float64 // default 10

	// MaxPointsPerChunk caps how many lattice points a single chunk may
	// emit. Points past the cap are dropped in scan order.
	MaxPointsPerChunk int // default 1000

	// ChunkAreaThresholdM2 is the polygon area above which the sampler
	// recursively quarters the bounding box & samples each piece.
	ChunkAreaThresholdM2 float64 // default 1e6

	// MaxBatchSize caps how many points we hand the ElevationProvider
	// per call. The actual batch size also scales with the total point
	// count (see enrich.go).
	MaxBatchSize int // default 20

	// RequestDelay is waited between successive provider batches, and
	// doubles per attempt when a batch fails (exponential backoff).
	RequestDelay time.Duration // default 500ms

	// MaxRetries is how many times a failed batch is retried before the
	// whole analysis fails.
	MaxRetries int // default 3

	// RasterTargetCells is the approximate number of cells in the square
	// hydrology raster. The grid side is ceil(sqrt(target)).
	RasterTargetCells int // default 25

	// Hemisphere the polygon sits in. Affects solar exposure weights.
	Hemisphere Hemisphere // default North
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.GridSpacingMeters <= 0 {
		out.GridSpacingMeters = 10
	}
	if out.MaxPointsPerChunk <= 0 {
		out.MaxPointsPerChunk = 1000
	}
	if out.ChunkAreaThresholdM2 <= 0 {
		out.ChunkAreaThresholdM2 = 1e6
	}
	if out.MaxBatchSize <= 0 {
		out.MaxBatchSize = 20
	}
	if out.RequestDelay <= 0 {
		out.RequestDelay = 500 * time.Millisecond
	}
	if out.MaxRetries <= 0 {
		out.MaxRetries = 3
	}
	if out.RasterTargetCells <= 0 {
		out.RasterTargetCells = 25
	}
	if out.Hemisphere != South {
		out.Hemisphere = North
	}
	return &out
}
