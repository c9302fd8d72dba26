// Package tiling implements the row-stripe execution driver for
// resynthesis and posterization over large images: above a pixel-count
// threshold, the image is split into horizontal stripes sized to a working
// set budget and processed concurrently on a work-stealing pool, since each
// stripe's output addresses are disjoint and no coordination is needed once
// row ranges are assigned.
package tiling

import "github.com/gogpu/harmonize/internal/parallel"

// DefaultPixelThreshold is the pixel count above which an image is tiled
// instead of processed as a single pass.
const DefaultPixelThreshold = 16_000_000 // 16 Mpx

// DefaultTileBudgetBytes is the target working-set size per tile.
const DefaultTileBudgetBytes = 256 * 1024 * 1024 // 256 MB

// bytesPerPixel approximates a tile's working set: the input pixel (4
// bytes), the output pixel (4 bytes), and per-pixel scratch (an unpacked
// color point, 3 float64 = 24 bytes) rounded up generously.
const bytesPerPixel = 64

// Plan describes how an image of the given dimensions should be split into
// row stripes.
type Plan struct {
	Width, Height int
	RowsPerTile   int
}

// NewPlan computes a tiling plan for a width x height image, given a pixel
// threshold below which tiling is skipped entirely (returning one stripe
// covering the whole image) and a byte budget per tile.
func NewPlan(width, height, pixelThreshold int, tileBudgetBytes int64) Plan {
	if pixelThreshold <= 0 {
		pixelThreshold = DefaultPixelThreshold
	}
	if tileBudgetBytes <= 0 {
		tileBudgetBytes = DefaultTileBudgetBytes
	}
	if width*height <= pixelThreshold {
		return Plan{Width: width, Height: height, RowsPerTile: height}
	}

	rowBytes := int64(width) * bytesPerPixel
	rows := int(tileBudgetBytes / rowBytes)
	if rows < 1 {
		rows = 1
	}
	if rows > height {
		rows = height
	}
	return Plan{Width: width, Height: height, RowsPerTile: rows}
}

// Stripe is a contiguous, half-open range of rows [Lo, Hi).
type Stripe struct {
	Lo, Hi int
}

// Stripes returns the row ranges described by p, covering [0, p.Height)
// with no gaps or overlaps.
func (p Plan) Stripes() []Stripe {
	var out []Stripe
	for lo := 0; lo < p.Height; lo += p.RowsPerTile {
		hi := lo + p.RowsPerTile
		if hi > p.Height {
			hi = p.Height
		}
		out = append(out, Stripe{Lo: lo, Hi: hi})
	}
	return out
}

// Run executes fn once per stripe of p, in parallel on pool when non-nil
// and there is more than one stripe, otherwise sequentially on the caller's
// goroutine. fn receives a stripe's row range; it must only touch output
// addresses within that range, since stripes may run concurrently.
func Run(p Plan, pool *parallel.WorkerPool, fn func(lo, hi int)) {
	stripes := p.Stripes()
	if pool == nil || len(stripes) <= 1 {
		for _, s := range stripes {
			fn(s.Lo, s.Hi)
		}
		return
	}

	work := make([]func(), len(stripes))
	for i, s := range stripes {
		s := s
		work[i] = func() { fn(s.Lo, s.Hi) }
	}
	pool.ExecuteAll(work)
}
