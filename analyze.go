package harmonize

import (
	"fmt"
	"time"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/hybrid"
	"github.com/gogpu/harmonize/internal/parallel"
	"github.com/gogpu/harmonize/internal/rng"
	"github.com/gogpu/harmonize/internal/sample"
)

// Analyze extracts a k-entry representative ColorPalette from img. Pixels
// are reservoir-sampled down to the engine's pixel-sample cap, optionally
// converted to the engine's working space, clustered with the hybrid
// DBSCAN+k-means strategy, and the resulting centroids are converted back
// to RGB and sorted by luminance before returning — the returned palette is
// always in SpaceRGB regardless of which working space clustering ran in.
func (e *Engine) Analyze(img PixelBuffer, k int) (ColorPalette, error) {
	start := time.Now()
	if img.Width <= 0 || img.Height <= 0 || len(img.Pixels) != img.Width*img.Height || k <= 0 {
		return ColorPalette{}, fmt.Errorf("%w: image %dx%d (%d pixels), k=%d", ErrInvalidInput, img.Width, img.Height, len(img.Pixels), k)
	}

	r := rng.New(e.opts.seed)
	sampled := sample.Pixels(img.Pixels, e.opts.pixelSampleCap, r)

	points := sampled
	if e.opts.space == SpaceLab {
		points = colorspace.RGBToLabBatch(sampled)
	}

	var pool *parallel.WorkerPool
	if len(points) >= hybridParallelThreshold {
		pool = parallel.NewWorkerPool(e.workerCount())
		defer pool.Close()
	}

	centroids, err := hybrid.Run(points, hybrid.Config{
		K:           k,
		Seed:        e.opts.seed,
		BlockSize:   e.opts.blockSize,
		Accelerator: e.opts.accelerator,
		Pool:        pool,
	})
	if err != nil {
		return ColorPalette{}, fmt.Errorf("%w: %v", ErrResourceExhausted, err)
	}

	if e.opts.space == SpaceLab {
		centroids = colorspace.LabToRGBBatch(centroids)
	}

	palette := NewColorPalette(centroids, SpaceRGB).SortedByLuminance()
	Logger().Info("harmonize: palette extracted",
		"k", k, "sampled", len(sampled), "elapsed", time.Since(start))
	return palette, nil
}

// hybridParallelThreshold mirrors internal/kmeans's parallelization
// threshold: below it, constructing a worker pool costs more than it saves.
const hybridParallelThreshold = 5000
