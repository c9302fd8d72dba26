// Package hybrid implements the block-partitioned DBSCAN + k-means
// clusterer: the engine's default strategy for palette extraction from
// large point sets.
package hybrid

import (
	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/dbscan"
	"github.com/gogpu/harmonize/internal/kmeans"
	"github.com/gogpu/harmonize/internal/nearest"
	"github.com/gogpu/harmonize/internal/parallel"
	"github.com/gogpu/harmonize/internal/rng"
)

// DefaultBlockSize is B in the block-partitioning rule: blocks of this many
// points are DBSCAN'd independently before the final k-means pass.
const DefaultBlockSize = 1000

// Config controls a single Run.
type Config struct {
	K           int
	Seed        uint64
	BlockSize   int // 0 selects DefaultBlockSize
	MinPts      int // 0 selects dbscan.DefaultMinPts
	Accelerator nearest.Accelerator
	Pool        *parallel.WorkerPool // optional, used for per-block DBSCAN and the final k-means assignment step
}

func (c Config) blockSize() int {
	if c.BlockSize > 0 {
		return c.BlockSize
	}
	return DefaultBlockSize
}

func (c Config) minPts() int {
	if c.MinPts > 0 {
		return c.MinPts
	}
	return dbscan.DefaultMinPts
}

// Run extracts a K-entry palette from points. Run returns an error only if
// a block exceeds dbscan's grid point cap (dbscan.ErrTooManyPoints) —
// blockRepresentatives never silently drops or truncates a block to avoid
// that failure.
//
// Edge cases (all returned directly, bypassing clustering): N = 0 yields
// nil; K <= 0 yields nil; K >= N returns the input points unchanged, in
// input order.
func Run(points []colorspace.Point, cfg Config) ([]colorspace.Point, error) {
	n := len(points)
	if n == 0 || cfg.K <= 0 {
		return nil, nil
	}
	if cfg.K >= n {
		out := make([]colorspace.Point, n)
		copy(out, points)
		return out, nil
	}

	b := cfg.blockSize()
	if n <= 2*b {
		return kmeans.Run(points, kmeans.Config{K: cfg.K, Seed: cfg.Seed, Accelerator: cfg.Accelerator, Pool: cfg.Pool}), nil
	}

	blocks := partition(points, b)
	r := rng.New(cfg.Seed)
	eps := dbscan.EstimateEps(blocks, cfg.minPts(), r)

	reps, err := blockRepresentatives(blocks, eps, cfg.minPts(), cfg.Pool, r)
	if err != nil {
		return nil, err
	}

	if len(reps) < cfg.K {
		reps = padWithRandomPoints(reps, points, cfg.K, r)
	}

	return kmeans.Run(reps, kmeans.Config{K: cfg.K, Seed: cfg.Seed, Accelerator: cfg.Accelerator, Pool: cfg.Pool}), nil
}

// partition splits points into contiguous blocks of at most size elements.
func partition(points []colorspace.Point, size int) [][]colorspace.Point {
	var blocks [][]colorspace.Point
	for lo := 0; lo < len(points); lo += size {
		hi := lo + size
		if hi > len(points) {
			hi = len(points)
		}
		blocks = append(blocks, points[lo:hi])
	}
	return blocks
}

// blockRepresentatives runs DBSCAN on each block, optionally in parallel,
// and concatenates the per-block representative sets in block order — the
// DBSCAN passes themselves may run concurrently (they are independent), but
// results are always assembled in original block order regardless. The
// first block error encountered (in block order) is returned; a failing
// block never causes its siblings' representatives to be discarded
// silently — the whole call fails instead.
func blockRepresentatives(blocks [][]colorspace.Point, eps float64, minPts int, pool *parallel.WorkerPool, r *rng.Source) ([]colorspace.Point, error) {
	results := make([][]colorspace.Point, len(blocks))
	errs := make([]error, len(blocks))

	if pool == nil || len(blocks) < 2 {
		for i, block := range blocks {
			// Each block gets its own RNG stream, seeded deterministically
			// from the shared stream so block-level reseeding (dbscan's
			// empty-cluster case, which cannot actually occur here) stays
			// reproducible regardless of execution order.
			blockSeed := r.Uint64()
			res, err := dbscan.Run(block, eps, minPts, rng.New(blockSeed))
			results[i] = res.Representatives
			errs[i] = err
		}
	} else {
		seeds := make([]uint64, len(blocks))
		for i := range seeds {
			seeds[i] = r.Uint64()
		}
		work := make([]func(), len(blocks))
		for i, block := range blocks {
			i, block := i, block
			work[i] = func() {
				res, err := dbscan.Run(block, eps, minPts, rng.New(seeds[i]))
				results[i] = res.Representatives
				errs[i] = err
			}
		}
		pool.ExecuteAll(work)
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var out []colorspace.Point
	for _, rep := range results {
		out = append(out, rep...)
	}
	return out, nil
}

// padWithRandomPoints draws uniformly random points from the full point set
// until reps has at least k elements.
func padWithRandomPoints(reps, points []colorspace.Point, k int, r *rng.Source) []colorspace.Point {
	for len(reps) < k {
		reps = append(reps, points[r.Intn(len(points))])
	}
	return reps
}
