// Package dbscan implements the block-local density clustering pass used by
// the hybrid clusterer to compress each block of points into a small set of
// representatives before the final k-means stage.
package dbscan

import (
	"errors"
	"math"
	"sort"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/rng"
)

// DefaultMinPts is used when a caller does not override it: one more than
// the working space's dimensionality, the conventional DBSCAN starting
// point for 3-D data.
const DefaultMinPts = 4

// ErrTooManyPoints is returned by Run when the input exceeds the spatial
// grid's point cap (see maxGridPoints in grid.go). Run never silently
// truncates or subsamples the input to stay under the cap; the caller
// (internal/hybrid, then the root package) must surface this failure
// rather than produce a result from less data than it was asked to
// cluster.
var ErrTooManyPoints = errors.New("dbscan: too many points for grid allocation")

// Label is the state of a single point during the DBSCAN pass. It replaces
// the magic integers (-2, -1, -3) of the reference algorithm with a small
// tagged type: Unclassified, Noise, and InQueue are distinguished sentinel
// values, and any non-negative Label is a cluster id.
type Label int32

const (
	// Unclassified is the initial state of every point.
	Unclassified Label = -2
	// Noise marks a point with fewer than minPts neighbors. It may later be
	// promoted to a cluster if reached as another cluster's border point.
	Noise Label = -1
	// InQueue marks a point already enqueued for expansion, preventing it
	// from being enqueued twice.
	InQueue Label = -3
)

// Cluster returns the Label for cluster id.
func Cluster(id uint32) Label { return Label(id) }

// IsCluster reports whether l identifies a cluster (as opposed to one of
// the three sentinel states).
func (l Label) IsCluster() bool { return l >= 0 }

// ClusterID returns the cluster id. Only valid when IsCluster is true.
func (l Label) ClusterID() uint32 { return uint32(l) }

// Result is the outcome of a single Run.
type Result struct {
	// Labels holds the final Label of each input point, in input order.
	Labels []Label
	// Representatives holds one mean per discovered cluster (in discovery
	// order) followed by every noise point unchanged (in input order).
	Representatives []colorspace.Point
}

// Run clusters points with the given eps and minPts, returning per-point
// labels and the block's representatives. Run returns ErrTooManyPoints,
// wrapped with the offending count, if the block exceeds the grid's point
// cap rather than attempting the allocation.
func Run(points []colorspace.Point, eps float64, minPts int, r *rng.Source) (Result, error) {
	n := len(points)
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Unclassified
	}
	if n == 0 {
		return Result{Labels: labels}, nil
	}

	g, err := buildGrid(points, eps)
	if err != nil {
		return Result{}, err
	}
	eps2 := eps * eps
	nextCluster := uint32(0)

	var queue []int32
	neighborBuf := make([]int32, 0, 64)

	for i := 0; i < n; i++ {
		if labels[i] != Unclassified {
			continue
		}
		neighbors := g.rangeQuery(points, i, eps2, neighborBuf[:0])
		if len(neighbors) < minPts {
			labels[i] = Noise
			continue
		}

		cid := Cluster(nextCluster)
		nextCluster++
		labels[i] = cid

		queue = queue[:0]
		for _, j := range neighbors {
			if int(j) == i {
				continue
			}
			if labels[j] == Unclassified || labels[j] == Noise {
				labels[j] = InQueue
				queue = append(queue, j)
			}
		}

		for len(queue) > 0 {
			q := queue[0]
			queue = queue[1:]
			labels[q] = cid

			qNeighbors := g.rangeQuery(points, int(q), eps2, neighborBuf[:0])
			if len(qNeighbors) >= minPts {
				for _, j := range qNeighbors {
					if labels[j] == Unclassified || labels[j] == Noise {
						labels[j] = InQueue
						queue = append(queue, j)
					}
				}
			}
		}
	}

	return Result{Labels: labels, Representatives: representatives(points, labels, nextCluster, r)}, nil
}

// representatives builds the deterministic representative list: one mean
// per cluster (discovery order, i.e. increasing cluster id) followed by
// every noise point in input order.
func representatives(points []colorspace.Point, labels []Label, numClusters uint32, r *rng.Source) []colorspace.Point {
	type sum struct {
		c1, c2, c3 float64
		n          int
	}
	sums := make([]sum, numClusters)
	var noise []colorspace.Point

	for i, l := range labels {
		if l.IsCluster() {
			s := &sums[l.ClusterID()]
			s.c1 += points[i].C1
			s.c2 += points[i].C2
			s.c3 += points[i].C3
			s.n++
		} else if l == Noise {
			noise = append(noise, points[i])
		}
	}

	out := make([]colorspace.Point, 0, int(numClusters)+len(noise))
	for _, s := range sums {
		if s.n == 0 {
			// A cluster id was allocated but never assigned a member; this
			// cannot happen given the algorithm above, but reseed rather
			// than emit a NaN centroid if it ever did.
			out = append(out, points[r.Intn(len(points))])
			continue
		}
		n := float64(s.n)
		out = append(out, colorspace.Point{C1: s.c1 / n, C2: s.c2 / n, C3: s.c3 / n})
	}
	out = append(out, noise...)
	return out
}

// EstimateEps computes a single adaptive epsilon for the whole dataset from
// a cross-block sample: draw from up to 10 of the caller's blocks, up to 20
// points per block, compute each sampled point's (minPts-1)-th nearest
// neighbor distance within its own block, pool every sampled distance into
// one combined list, take the median, multiply by 1.5, and clamp to
// [8, 30] (RGB working-space units). The result is one eps value, meant to
// be applied uniformly across every block's DBSCAN pass.
//
// blocks is the caller's block partitioning of the full point set. This
// resolves the specification's block-level-vs-whole-dataset ambiguity
// toward a single global estimate rather than a distinct eps per block:
// sampling across multiple blocks before committing to one value avoids an
// unlucky single block (e.g. an unusually sparse or dense one) skewing the
// density estimate the rest of the dataset is clustered against.
func EstimateEps(blocks [][]colorspace.Point, minPts int, r *rng.Source) float64 {
	const maxBlocks = 10
	const maxPointsPerBlock = 20
	const multiplier = 1.5
	const clampLo, clampHi = 8.0, 30.0

	blockCount := len(blocks)
	if blockCount > maxBlocks {
		blockCount = maxBlocks
	}

	var distances []float64
	for bi := 0; bi < blockCount; bi++ {
		block := blocks[bi]
		if len(block) == 0 {
			continue
		}
		sampleN := len(block)
		if sampleN > maxPointsPerBlock {
			sampleN = maxPointsPerBlock
		}
		for si := 0; si < sampleN; si++ {
			idx := r.Intn(len(block))
			d := kthNearestDistance(block, idx, minPts-1)
			if !math.IsInf(d, 1) {
				distances = append(distances, d)
			}
		}
	}

	if len(distances) == 0 {
		return clampLo
	}
	sort.Float64s(distances)
	median := distances[len(distances)/2]
	if len(distances)%2 == 0 {
		median = (distances[len(distances)/2-1] + distances[len(distances)/2]) / 2
	}

	eps := median * multiplier
	if eps < clampLo {
		eps = clampLo
	}
	if eps > clampHi {
		eps = clampHi
	}
	return eps
}

// kthNearestDistance returns the distance from points[idx] to its k-th
// nearest neighbor within points (k=0 means the nearest other point).
// Returns +Inf if the block is too small to have a k-th neighbor.
func kthNearestDistance(points []colorspace.Point, idx, k int) float64 {
	if k < 0 || k >= len(points)-1 {
		return math.Inf(1)
	}
	dists := make([]float64, 0, len(points)-1)
	for i, p := range points {
		if i == idx {
			continue
		}
		dists = append(dists, math.Sqrt(colorspace.DistanceSquared(points[idx], p)))
	}
	sort.Float64s(dists)
	return dists[k]
}
