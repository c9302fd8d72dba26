package harmonize

import "github.com/gogpu/harmonize/internal/nearest"

// EngineOption configures an Engine during construction.
//
// Example:
//
//	// Default RGB working space, one worker per CPU.
//	eng := harmonize.NewEngine()
//
//	// CIELAB working space, fixed seed for reproducible tests.
//	eng := harmonize.NewEngine(harmonize.WithWorkingSpace(harmonize.SpaceLab), harmonize.WithSeed(42))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine construction.
type engineOptions struct {
	space           Space
	seed            uint64
	workers         int
	accelerator     nearest.Accelerator
	pixelSampleCap  int
	blockSize       int
	lutThreshold    int
	lutDisabled     bool
	tilePixelThresh int
	tileByteBudget  int64
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		space:           SpaceRGB,
		seed:            1,
		workers:         0,   // GOMAXPROCS
		accelerator:     nil, // scalar, chosen lazily once K is known
		pixelSampleCap:  250_000,
		blockSize:       1000,
		lutThreshold:    256,
		tilePixelThresh: 16_000_000,
		tileByteBudget:  0, // tiling.DefaultTileBudgetBytes
	}
}

// WithWorkingSpace selects the color space used for clustering and distance
// computation. RGB is faster; CIELAB is perceptually more uniform.
func WithWorkingSpace(s Space) EngineOption {
	return func(o *engineOptions) {
		o.space = s
	}
}

// WithSeed sets the seed for the Engine's deterministic RNG stream, used by
// pixel sampling, k-means++ seeding, and tie-breaking during padding. A zero
// seed is accepted but treated as a distinguished value (see internal/rng).
func WithSeed(seed uint64) EngineOption {
	return func(o *engineOptions) {
		o.seed = seed
	}
}

// WithWorkers sets the number of worker goroutines used per call. Zero or
// negative selects runtime.GOMAXPROCS(0).
func WithWorkers(n int) EngineOption {
	return func(o *engineOptions) {
		o.workers = n
	}
}

// WithAccelerator installs a nearest-centroid accelerator, replacing the
// default scalar implementation. Construction of the accelerator
// itself is the caller's responsibility; a failing accelerator must be
// surfaced by the caller before it ever reaches NewEngine, never silently
// swapped for the scalar path inside the Engine.
func WithAccelerator(a nearest.Accelerator) EngineOption {
	return func(o *engineOptions) {
		o.accelerator = a
	}
}

// WithPixelSampleCap caps the number of pixels reservoir-sampled from an
// image before clustering. Default 250,000.
func WithPixelSampleCap(n int) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.pixelSampleCap = n
		}
	}
}

// WithBlockSize sets the hybrid clusterer's DBSCAN block size (B in
// spec §4.7). Default 1000.
func WithBlockSize(n int) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithLUTThreshold sets the maximum palette size for which Resynthesize may
// build an accelerating 3-D LUT. Default 256.
func WithLUTThreshold(n int) EngineOption {
	return func(o *engineOptions) {
		o.lutThreshold = n
	}
}

// WithoutLUT disables LUT acceleration entirely, forcing direct per-pixel
// nearest-centroid search. Use this when exact (non-quantized) resynthesis
// results are required; see spec §4.9 on LUT/direct-search disagreement near
// centroid boundaries.
func WithoutLUT() EngineOption {
	return func(o *engineOptions) {
		o.lutDisabled = true
	}
}

// WithTilePixelThreshold sets the pixel count above which Resynthesize and
// Posterize switch from a single full-image pass to row-stripe tiling.
// Below this threshold the whole image is processed as one stripe,
// regardless of WithTileByteBudget. Default 16,000,000 (16 Mpx).
func WithTilePixelThreshold(n int) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.tilePixelThresh = n
		}
	}
}

// WithTileByteBudget sets the target working-set size per tile once tiling
// is in effect (see WithTilePixelThreshold): internal/tiling divides each
// tile's row count so that width*rows*bytesPerPixel stays near this
// budget. Default 0 selects internal/tiling.DefaultTileBudgetBytes
// (256MB).
func WithTileByteBudget(n int64) EngineOption {
	return func(o *engineOptions) {
		if n > 0 {
			o.tileByteBudget = n
		}
	}
}
