// Package kmeans implements k-means++ seeded Lloyd iteration, the engine's
// core clustering algorithm and the final stage of the hybrid clusterer.
package kmeans

import (
	"math"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/nearest"
	"github.com/gogpu/harmonize/internal/parallel"
	"github.com/gogpu/harmonize/internal/rng"
)

// seedPlusPlusThreshold is the K above which seeding switches from
// k-means++ to stratified sampling: beyond this the O(kN) cost of
// k-means++ dominates for a quality gain that has flattened out.
const seedPlusPlusThreshold = 64

// parallelThreshold is the point count above which the assignment step is
// split across a worker pool. Below it, a single goroutine is faster once
// scheduling overhead is accounted for.
const parallelThreshold = 5000

// defaultTau is the centroid-movement convergence threshold, in working
// space units.
const defaultTau = 1.0

// Config controls a single Run invocation.
type Config struct {
	K           int
	Seed        uint64
	Accelerator nearest.Accelerator
	Pool        *parallel.WorkerPool // optional; nil runs the assignment step on the caller's goroutine
	Tau         float64              // convergence threshold; 0 selects defaultTau
}

func (c Config) tau() float64 {
	if c.Tau > 0 {
		return c.Tau
	}
	return defaultTau
}

// maxIterations returns the iteration cap for a given k: diminishing
// returns justify a lower cap as k grows.
func maxIterations(k int) int {
	switch {
	case k > 100:
		return 20
	case k > 32:
		return 30
	default:
		return 50
	}
}

// Run clusters points into cfg.K centroids. Cardinality follows the input:
// if len(points) == 0 it returns nil; if len(points) <= cfg.K it returns one
// centroid per input point, unchanged, in input order (not padded to K).
// If the input contains fewer than cfg.K distinct points (but more than K
// total), the input is degenerate: the distinct points are cycled to
// produce exactly K centroids, and Lloyd iteration is skipped.
func Run(points []colorspace.Point, cfg Config) []colorspace.Point {
	if len(points) == 0 || cfg.K <= 0 {
		return nil
	}
	if len(points) <= cfg.K {
		out := make([]colorspace.Point, len(points))
		copy(out, points)
		return out
	}

	if uniq, degenerate := distinctUpTo(points, cfg.K); degenerate {
		return cycleToSize(uniq, cfg.K)
	}

	r := rng.New(cfg.Seed)
	centroids := seed(points, cfg.K, r)
	return lloyd(points, centroids, cfg, r)
}

// distinctUpTo scans points for distinct values, stopping early once it has
// found cfg.K of them (at that point the input cannot be degenerate). It
// returns the distinct values found (in first-occurrence order) and whether
// fewer than k distinct values exist in the whole input.
func distinctUpTo(points []colorspace.Point, k int) ([]colorspace.Point, bool) {
	seen := make(map[colorspace.Point]struct{}, k)
	uniq := make([]colorspace.Point, 0, k)
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
		if len(uniq) >= k {
			return nil, false
		}
	}
	return uniq, true
}

// cycleToSize repeats uniq (which must be non-empty) in order until it has
// exactly size elements.
func cycleToSize(uniq []colorspace.Point, size int) []colorspace.Point {
	out := make([]colorspace.Point, size)
	for i := range out {
		out[i] = uniq[i%len(uniq)]
	}
	return out
}

// seed picks cfg.K initial centroids: k-means++ for k <= 64, stratified
// sampling above that.
func seed(points []colorspace.Point, k int, r *rng.Source) []colorspace.Point {
	if k <= seedPlusPlusThreshold {
		return seedPlusPlus(points, k, r)
	}
	return seedStratified(points, k, r)
}

func seedPlusPlus(points []colorspace.Point, k int, r *rng.Source) []colorspace.Point {
	n := len(points)
	centroids := make([]colorspace.Point, 0, k)
	first := r.Intn(n)
	centroids = append(centroids, points[first])

	minDist := make([]float64, n)
	for i, p := range points {
		minDist[i] = colorspace.DistanceSquared(p, centroids[0])
	}

	for c := 1; c < k; c++ {
		total := 0.0
		for _, d := range minDist {
			total += d
		}

		var chosen int
		if total <= 0 {
			// Every remaining point coincides with an already-chosen
			// centroid: fall back to a uniformly random input point.
			chosen = r.Intn(n)
		} else {
			target := r.Float64() * total
			cum := 0.0
			chosen = n - 1
			for i, d := range minDist {
				cum += d
				if cum >= target {
					chosen = i
					break
				}
			}
		}

		next := points[chosen]
		centroids = append(centroids, next)
		for i, p := range points {
			if d := colorspace.DistanceSquared(p, next); d < minDist[i] {
				minDist[i] = d
			}
		}
	}
	return centroids
}

func seedStratified(points []colorspace.Point, k int, r *rng.Source) []colorspace.Point {
	n := len(points)
	step := n / k
	centroids := make([]colorspace.Point, k)
	for c := 0; c < k; c++ {
		idx := (c*step + r.Intn(step)) % n
		centroids[c] = points[idx]
	}
	return centroids
}

// accum is a double-precision partial-sum accumulator for one cluster's
// mean, used regardless of the input points' own precision.
type accum struct {
	sum1, sum2, sum3 float64
	n                int
}

func (a *accum) add(p colorspace.Point) {
	a.sum1 += p.C1
	a.sum2 += p.C2
	a.sum3 += p.C3
	a.n++
}

func (a accum) mean() colorspace.Point {
	n := float64(a.n)
	return colorspace.Point{C1: a.sum1 / n, C2: a.sum2 / n, C3: a.sum3 / n}
}

// lloyd runs Lloyd iteration to convergence or the iteration cap, returning
// the final centroids.
func lloyd(points []colorspace.Point, centroids []colorspace.Point, cfg Config, r *rng.Source) []colorspace.Point {
	k := len(centroids)
	n := len(points)
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	tau := cfg.tau()
	iterCap := maxIterations(k)

	for iter := 0; iter < iterCap; iter++ {
		changed := assignAll(points, centroids, assign, cfg)

		// Accumulate cluster sums in a single sequential pass over the
		// points in input order, regardless of whether assignment itself
		// ran on one goroutine or many: this is what makes the result
		// bit-identical across thread counts, since floating-point
		// summation order is otherwise thread-count-dependent.
		sums := make([]accum, k)
		for i, p := range points {
			sums[assign[i]].add(p)
		}

		next := make([]colorspace.Point, k)
		movement := 0.0
		for c := 0; c < k; c++ {
			if sums[c].n == 0 {
				next[c] = points[r.Intn(n)]
			} else {
				next[c] = sums[c].mean()
			}
			d := math.Sqrt(colorspace.DistanceSquared(centroids[c], next[c]))
			if d > movement {
				movement = d
			}
		}

		centroids = next
		if movement < tau || changed == 0 {
			break
		}
	}
	return centroids
}

// assignAll assigns every point to its nearest centroid, writing into
// assign and returning the number of assignments that changed. When the
// input is large enough and a worker pool is supplied, the assignment loop
// is split into contiguous, disjoint ranges processed concurrently; each
// point's result depends only on its own coordinates and the (fixed)
// centroid set, so the split has no effect on the result.
func assignAll(points, centroids []colorspace.Point, assign []int, cfg Config) int {
	n := len(points)
	if cfg.Pool == nil || n < parallelThreshold {
		return nearest.Batch(points, centroids, assign, cfg.Accelerator)
	}

	workers := cfg.Pool.Workers()
	if workers <= 1 {
		return nearest.Batch(points, centroids, assign, cfg.Accelerator)
	}

	chunk := (n + workers - 1) / workers
	partial := make([]int, workers)
	work := make([]func(), 0, workers)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		w, lo, hi := w, lo, hi
		work = append(work, func() {
			partial[w] = nearest.Batch(points[lo:hi], centroids, assign[lo:hi], cfg.Accelerator)
		})
	}
	cfg.Pool.ExecuteAll(work)

	changed := 0
	for _, c := range partial {
		changed += c
	}
	return changed
}
