package arable

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidGeometry means the input polygon could not be accepted;
	// wrong type, open rings, self intersections, non-finite coords or
	// zero area. Raised before any provider call is made.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInsufficientData means too few sample points survived elevation
	// enrichment to triangulate a surface (we need at least 3).
	ErrInsufficientData = errors.New("insufficient elevation data")

	// ErrDegenerateSurface means every candidate triangle was degenerate
	// (collinear points) & no surface could be reconstructed.
	ErrDegenerateSurface = errors.New("degenerate surface")

	// ErrProvider means the elevation provider failed a whole batch even
	// after our configured retries.
	ErrProvider = errors.New("elevation provider failure")

	// ErrCancelled means the caller's context was cancelled; we stop at
	// the next checkpoint & return this.
	ErrCancelled = errors.New("analysis cancelled")

	// ErrInternal marks a post-condition violation. Should be unreachable.
	ErrInternal = errors.New("internal invariant violated")
)
