// Package harmonize extracts a representative color palette from an image
// and resynthesizes images against arbitrary source/target palette pairs,
// preserving each pixel's offset from its matched cluster center.
package harmonize

import (
	"runtime"

	"github.com/gogpu/harmonize/internal/colorspace"
)

// Space selects the color space in which clustering, distance, and
// resynthesis arithmetic happen.
type Space = colorspace.Space

// Working space constants.
const (
	// SpaceRGB is the default: faster, less perceptually uniform.
	SpaceRGB = colorspace.RGB
	// SpaceLab is CIE L*a*b*: slower, better suited to perceptual
	// clustering.
	SpaceLab = colorspace.Lab
)

// ColorPoint is a color expressed as a triple of real-valued components,
// whose meaning depends on the Space it was produced in.
type ColorPoint = colorspace.Point

// PixelBuffer is a rectangular, row-major image of 32-bit packed ARGB
// pixels (0xAARRGGBB), matching the external interface of spec §6. Width
// and Height must be strictly positive and len(Pixels) must equal
// Width*Height.
type PixelBuffer struct {
	Pixels []uint32
	Width  int
	Height int
}

// Engine is an immutable, concurrency-safe palette extraction and
// resynthesis engine. Construct one with NewEngine; a single Engine may be
// used concurrently by multiple goroutines, since no state survives a
// single Analyze/Resynthesize/Posterize call.
type Engine struct {
	opts engineOptions
}

// NewEngine constructs an Engine with the given options applied over the
// defaults (RGB working space, seed 1, GOMAXPROCS workers, scalar
// accelerator, 250,000-pixel sample cap, block size 1000, LUT threshold
// 256, 16 Mpx tiling threshold).
func NewEngine(opts ...EngineOption) *Engine {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return &Engine{opts: o}
}

// workerCount resolves the configured worker count against GOMAXPROCS.
func (e *Engine) workerCount() int {
	if e.opts.workers > 0 {
		return e.opts.workers
	}
	return runtime.GOMAXPROCS(0)
}
