// Package nearest implements nearest-centroid search: the operation shared
// by k-means assignment and LUT construction.
//
// Accelerator is the Go-native redesign of the source's process-wide GPU
// accelerator singleton (see spec §9 "Singleton accelerator"): instead of a
// package-level registry with silent fallback, an Accelerator is a plain
// value constructed once by the caller and held by the Engine that uses it.
// There is no global state in this package and no fallback-on-error path —
// if a caller wants a faster accelerator and it fails to construct, that
// failure belongs to the caller, not to this package.
package nearest

import "github.com/gogpu/harmonize/internal/colorspace"

// Accelerator computes the nearest centroid to a point. Implementations may
// use instruction-level parallelism or SIMD-friendly unrolling; they must
// preserve the lowest-index tie-break rule exactly, since clustering
// determinism depends on it.
type Accelerator interface {
	// Name identifies the accelerator, for logging/diagnostics.
	Name() string
	// Nearest returns the index of the centroid closest to p by squared
	// Euclidean distance, breaking ties toward the lowest index.
	Nearest(p colorspace.Point, centroids []colorspace.Point) int
}

// Scalar is the simplest possible Accelerator: a linear scan. It is always
// correct and is the fallback when no other Accelerator is supplied or when
// K is too small for wide unrolling to help.
type Scalar struct{}

// Name implements Accelerator.
func (Scalar) Name() string { return "scalar" }

// Nearest implements Accelerator.
func (Scalar) Nearest(p colorspace.Point, centroids []colorspace.Point) int {
	best := 0
	bestDist := colorspace.DistanceSquared(p, centroids[0])
	for i := 1; i < len(centroids); i++ {
		d := colorspace.DistanceSquared(p, centroids[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// Wide is a 4-way unrolled Accelerator. Portable Go has no portable SIMD
// intrinsics, so "vectorized" here means processing four centroids per loop
// step so the compiler can pipeline the independent float64 arithmetic —
// the instruction-level-parallelism-friendly shape the reference
// implementation calls out for K >= 4. For K < 4 it behaves like Scalar.
type Wide struct{}

// Name implements Accelerator.
func (Wide) Name() string { return "wide4" }

// Nearest implements Accelerator.
func (Wide) Nearest(p colorspace.Point, centroids []colorspace.Point) int {
	n := len(centroids)
	if n < 4 {
		return Scalar{}.Nearest(p, centroids)
	}
	best := 0
	bestDist := colorspace.DistanceSquared(p, centroids[0])
	i := 1
	for ; i+4 <= n; i += 4 {
		d0 := colorspace.DistanceSquared(p, centroids[i])
		d1 := colorspace.DistanceSquared(p, centroids[i+1])
		d2 := colorspace.DistanceSquared(p, centroids[i+2])
		d3 := colorspace.DistanceSquared(p, centroids[i+3])
		if d0 < bestDist {
			bestDist, best = d0, i
		}
		if d1 < bestDist {
			bestDist, best = d1, i+1
		}
		if d2 < bestDist {
			bestDist, best = d2, i+2
		}
		if d3 < bestDist {
			bestDist, best = d3, i+3
		}
	}
	for ; i < n; i++ {
		d := colorspace.DistanceSquared(p, centroids[i])
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

// pick selects the accelerator to use: the caller-supplied one when given
// and K is large enough to benefit, otherwise the scalar fallback.
func pick(accel Accelerator, k int) Accelerator {
	if accel != nil && k >= 4 {
		return accel
	}
	return Scalar{}
}

// Nearest returns the index of the centroid nearest to p, using accel when
// non-nil and beneficial (K >= 4), otherwise a scalar linear scan. Ties
// break toward the lowest index.
func Nearest(p colorspace.Point, centroids []colorspace.Point, accel Accelerator) int {
	return pick(accel, len(centroids)).Nearest(p, centroids)
}

// Batch assigns every point in points to its nearest centroid, writing into
// assign (which must have len(points) entries and hold the previous
// assignment, or -1 for "none yet"). It returns the number of assignments
// that changed from their previous value.
//
// The outer loop over points may be parallelized by the caller (see
// internal/kmeans's assignAll); this function itself is sequential and deterministic,
// and parallel callers must preserve exactly this per-point result.
func Batch(points, centroids []colorspace.Point, assign []int, accel Accelerator) int {
	a := pick(accel, len(centroids))
	changed := 0
	for i, p := range points {
		j := a.Nearest(p, centroids)
		if assign[i] != j {
			assign[i] = j
			changed++
		}
	}
	return changed
}
