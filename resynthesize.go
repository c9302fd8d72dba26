package harmonize

import (
	"fmt"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/lut"
	"github.com/gogpu/harmonize/internal/parallel"
	"github.com/gogpu/harmonize/internal/tiling"
)

// Resynthesize transfers source's colors onto img's pixels, classified
// against target: for each pixel p, find j = nearest(p, target), compute
// the offset δ = p − target[j] in the engine's working space, and output
// source[j] + δ, clamped to a valid byte per channel. Alpha is preserved
// unchanged. source and target must have equal length or ErrInvalidPalette
// is returned.
func (e *Engine) Resynthesize(img PixelBuffer, source, target ColorPalette) (PixelBuffer, error) {
	if source.Len() != target.Len() {
		return PixelBuffer{}, fmt.Errorf("%w: source has %d entries, target has %d", ErrInvalidPalette, source.Len(), target.Len())
	}
	return e.transform(img, source, target, true)
}

// Posterize classifies each pixel of img against target and replaces it
// with target's matched entry directly, with no offset. In SpaceRGB every
// output pixel (ignoring alpha) is some entry of target rounded to the
// nearest byte per channel; in SpaceLab it is that entry converted back to
// RGB, which matches the original RGB values only within the Lab round-trip
// tolerance.
func (e *Engine) Posterize(img PixelBuffer, target ColorPalette) (PixelBuffer, error) {
	return e.transform(img, target, target, false)
}

// transform is the shared classify-then-compose pass behind both
// Resynthesize (withOffset=true) and Posterize (withOffset=false,
// source==target).
func (e *Engine) transform(img PixelBuffer, source, target ColorPalette, withOffset bool) (PixelBuffer, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pixels) != img.Width*img.Height {
		return PixelBuffer{}, fmt.Errorf("%w: image %dx%d (%d pixels)", ErrInvalidInput, img.Width, img.Height, len(img.Pixels))
	}
	if target.Len() == 0 {
		return PixelBuffer{}, fmt.Errorf("%w: empty palette", ErrInvalidPalette)
	}
	for _, c := range target.Colors {
		if !finite(c) {
			return PixelBuffer{}, fmt.Errorf("%w: non-finite palette component", ErrInvalidPalette)
		}
	}
	for _, c := range source.Colors {
		if !finite(c) {
			return PixelBuffer{}, fmt.Errorf("%w: non-finite palette component", ErrInvalidPalette)
		}
	}

	space := e.opts.space
	sourceWork := source.InSpace(space)
	targetWork := target.InSpace(space)

	useLUT := !e.opts.lutDisabled && target.Len() <= e.opts.lutThreshold && len(img.Pixels) > 10_000
	var table *lut.Table
	if useLUT {
		table = lut.Build(targetWork.Colors, space, e.opts.accelerator)
	}

	out := PixelBuffer{Pixels: make([]uint32, len(img.Pixels)), Width: img.Width, Height: img.Height}

	plan := tiling.NewPlan(img.Width, img.Height, e.opts.tilePixelThresh, e.opts.tileByteBudget)
	var pool *parallel.WorkerPool
	if len(plan.Stripes()) > 1 {
		pool = parallel.NewWorkerPool(e.workerCount())
		defer pool.Close()
	}

	tiling.Run(plan, pool, func(lo, hi int) {
		processRows(img, out, lo, hi, sourceWork, targetWork, space, table, withOffset)
	})

	return out, nil
}

func finite(c ColorPoint) bool {
	return !(isNaNOrInf(c.C1) || isNaNOrInf(c.C2) || isNaNOrInf(c.C3))
}

func isNaNOrInf(f float64) bool {
	return f != f || f > 1e308 || f < -1e308
}

// processRows applies the classify-then-compose transform to rows [lo, hi)
// of img, writing into the corresponding rows of out.
func processRows(img, out PixelBuffer, lo, hi int, source, target ColorPalette, space Space, table *lut.Table, withOffset bool) {
	width := img.Width
	for row := lo; row < hi; row++ {
		base := row * width
		for col := 0; col < width; col++ {
			idx := base + col
			px := img.Pixels[idx]
			a := uint8(px >> 24)
			r := uint8(px >> 16)
			g := uint8(px >> 8)
			b := uint8(px)

			pRGB := ColorPoint{C1: float64(r), C2: float64(g), C3: float64(b)}
			pWork := pRGB
			if space == SpaceLab {
				pWork = colorspace.RGBToLab(pRGB)
			}

			var j int
			if table != nil {
				j = table.Lookup(r, g, b)
			} else {
				j = target.Nearest(pWork)
			}

			var outWork ColorPoint
			if withOffset {
				delta := pWork.Sub(target.Colors[j])
				outWork = source.Colors[j].Add(delta)
			} else {
				outWork = source.Colors[j]
			}

			outRGB := outWork
			if space == SpaceLab {
				outRGB = colorspace.LabToRGB(outWork)
			}

			out.Pixels[idx] = packARGB(a, clampByte(outRGB.C1), clampByte(outRGB.C2), clampByte(outRGB.C3))
		}
	}
}

func packARGB(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
