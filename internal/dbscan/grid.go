package dbscan

import (
	"fmt"

	"github.com/gogpu/harmonize/internal/colorspace"
)

// maxGridSide bounds the number of cells along any axis, capping total
// memory at maxGridSide^3 regardless of how sparse eps makes the grid
// relative to the point cloud's bounding box.
const maxGridSide = 256

// maxGridPoints caps the number of points a single grid build will index.
// The default block-partitioning size (internal/hybrid.DefaultBlockSize)
// is three orders of magnitude below this; the cap exists to fail cleanly
// on a misconfigured or adversarial block size rather than attempting a
// multi-gigabyte set of scratch allocations (cellIDsTemp, pointIdxs, and
// the dedup map in buildGrid all scale linearly with the point count).
const maxGridPoints = 4_000_000

// grid is a uniform 3-D spatial index over a Space's working coordinates,
// cell side equal to eps (or larger, if that would exceed maxGridSide cells
// per axis). It stores cell contents as sorted, offset-indexed arrays
// rather than a map, so iteration order is reproducible and lookups are a
// binary search rather than a hash probe — the same cache-friendly,
// deterministic shape as the reference 2-D spatial grid this is adapted
// from, extended to three dimensions.
type grid struct {
	minC1, minC2, minC3 float64
	cellSize            float64
	invCellSize         float64

	cellIDs     []int64 // sorted, unique cell ids
	cellOffsets []int32 // len(cellIDs)+1; cellOffsets[i]:cellOffsets[i+1] indexes pointIdxs
	pointIdxs   []int32 // point indices grouped by cell, in cellIDs order
}

// cellBits is the number of bits per axis in the packed cell id: enough to
// hold maxGridSide distinct coordinates per axis with room to spare.
const cellBits = 20
const cellMask = (1 << cellBits) - 1

func packCellID(x, y, z int32) int64 {
	return (int64(x)&cellMask)<<(2*cellBits) | (int64(y)&cellMask)<<cellBits | int64(z)&cellMask
}

func buildGrid(points []colorspace.Point, eps float64) (*grid, error) {
	if len(points) > maxGridPoints {
		return nil, fmt.Errorf("%w: %d points exceeds grid cap of %d", ErrTooManyPoints, len(points), maxGridPoints)
	}

	minC1, maxC1 := points[0].C1, points[0].C1
	minC2, maxC2 := points[0].C2, points[0].C2
	minC3, maxC3 := points[0].C3, points[0].C3
	for _, p := range points[1:] {
		if p.C1 < minC1 {
			minC1 = p.C1
		}
		if p.C1 > maxC1 {
			maxC1 = p.C1
		}
		if p.C2 < minC2 {
			minC2 = p.C2
		}
		if p.C2 > maxC2 {
			maxC2 = p.C2
		}
		if p.C3 < minC3 {
			minC3 = p.C3
		}
		if p.C3 > maxC3 {
			maxC3 = p.C3
		}
	}
	// Pad the bounding box by eps so points on its boundary still have a
	// full 3x3x3 neighborhood of cells around them.
	minC1 -= eps
	minC2 -= eps
	minC3 -= eps
	span := maxC1 - minC1 + eps
	if s := maxC2 - minC2 + eps; s > span {
		span = s
	}
	if s := maxC3 - minC3 + eps; s > span {
		span = s
	}

	cellSize := eps
	if cellSize <= 0 {
		cellSize = 1
	}
	if span/cellSize > maxGridSide {
		cellSize = span / maxGridSide
	}
	invCellSize := 1.0 / cellSize

	n := len(points)
	cellIDsTemp := make([]int64, n)
	for i, p := range points {
		cellIDsTemp[i] = packCellID(
			int32((p.C1-minC1)*invCellSize),
			int32((p.C2-minC2)*invCellSize),
			int32((p.C3-minC3)*invCellSize),
		)
	}

	counts := make(map[int64]int32, n/2+1)
	for _, cid := range cellIDsTemp {
		counts[cid]++
	}
	cellIDs := make([]int64, 0, len(counts))
	for cid := range counts {
		cellIDs = append(cellIDs, cid)
	}
	sortInt64s(cellIDs)

	cellOffsets := make([]int32, len(cellIDs)+1)
	offset := int32(0)
	for i, cid := range cellIDs {
		cellOffsets[i] = offset
		offset += counts[cid]
	}
	cellOffsets[len(cellIDs)] = offset

	pointIdxs := make([]int32, n)
	fillPos := make([]int32, len(cellIDs))
	copy(fillPos, cellOffsets[:len(cellIDs)])
	for i, cid := range cellIDsTemp {
		idx := binarySearchInt64(cellIDs, cid)
		pos := fillPos[idx]
		pointIdxs[pos] = int32(i)
		fillPos[idx]++
	}

	return &grid{
		minC1: minC1, minC2: minC2, minC3: minC3,
		cellSize: cellSize, invCellSize: invCellSize,
		cellIDs: cellIDs, cellOffsets: cellOffsets, pointIdxs: pointIdxs,
	}, nil
}

// rangeQuery appends to buf the indices of every point within eps of
// points[idx] (eps2 = eps*eps), examining the 3x3x3 = 27 cells around the
// query point's cell, and returns the result.
func (g *grid) rangeQuery(points []colorspace.Point, idx int, eps2 float64, buf []int32) []int32 {
	p := points[idx]
	bx := int32((p.C1 - g.minC1) * g.invCellSize)
	by := int32((p.C2 - g.minC2) * g.invCellSize)
	bz := int32((p.C3 - g.minC3) * g.invCellSize)

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				cid := packCellID(bx+dx, by+dy, bz+dz)
				ci := binarySearchInt64(g.cellIDs, cid)
				if ci < 0 || ci >= len(g.cellIDs) || g.cellIDs[ci] != cid {
					continue
				}
				start, end := g.cellOffsets[ci], g.cellOffsets[ci+1]
				for k := start; k < end; k++ {
					j := g.pointIdxs[k]
					if colorspace.DistanceSquared(p, points[j]) <= eps2 {
						buf = append(buf, j)
					}
				}
			}
		}
	}
	return buf
}

func binarySearchInt64(a []int64, target int64) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if a[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(a) && a[lo] == target {
		return lo
	}
	return lo
}

// sortInt64s sorts a in place with insertion sort for small inputs (the
// common case: a block's distinct cell count is rarely large) and a simple
// introsort-free quicksort otherwise.
func sortInt64s(a []int64) {
	if len(a) <= 16 {
		for i := 1; i < len(a); i++ {
			key := a[i]
			j := i - 1
			for j >= 0 && a[j] > key {
				a[j+1] = a[j]
				j--
			}
			a[j+1] = key
		}
		return
	}
	quicksortInt64(a, 0, len(a)-1)
}

func quicksortInt64(a []int64, lo, hi int) {
	for lo < hi {
		if hi-lo < 16 {
			for i := lo + 1; i <= hi; i++ {
				key := a[i]
				j := i - 1
				for j >= lo && a[j] > key {
					a[j+1] = a[j]
					j--
				}
				a[j+1] = key
			}
			return
		}
		p := partitionInt64(a, lo, hi)
		if p-lo < hi-p {
			quicksortInt64(a, lo, p-1)
			lo = p + 1
		} else {
			quicksortInt64(a, p+1, hi)
			hi = p - 1
		}
	}
}

func partitionInt64(a []int64, lo, hi int) int {
	mid := lo + (hi-lo)/2
	pivot := a[mid]
	a[mid], a[hi] = a[hi], a[mid]
	store := lo
	for i := lo; i < hi; i++ {
		if a[i] < pivot {
			a[i], a[store] = a[store], a[i]
			store++
		}
	}
	a[store], a[hi] = a[hi], a[store]
	return store
}
