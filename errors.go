package harmonize

import "errors"

// Sentinel errors returned by Engine operations. Use errors.Is to test for
// them; wrapped errors carry additional context via %w.
var (
	// ErrInvalidInput is returned for a nil/empty image, non-positive
	// dimensions, or k <= 0.
	ErrInvalidInput = errors.New("harmonize: invalid input")

	// ErrInvalidPalette is returned when palette sizes disagree where
	// equality is required (Resynthesize), or a palette is empty or contains
	// a non-finite component (Resynthesize, Posterize).
	ErrInvalidPalette = errors.New("harmonize: invalid palette")

	// ErrResourceExhausted is returned by Analyze when a DBSCAN block
	// exceeds the spatial grid's point cap, instead of attempting the grid
	// allocation. It is never silently converted into a lower-quality
	// result. The fixed-size LUT has no corresponding failure path.
	ErrResourceExhausted = errors.New("harmonize: resource exhausted")
)
