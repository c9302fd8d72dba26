// Package assignment solves the palette-to-palette correspondence problem:
// given a source palette S and target palette T, find the mapping
// M: [0,len(S)) -> [0,len(T)) minimizing the sum of squared distances.
//
// No repository in the reference corpus implements an assignment-problem
// solver; this one is written directly against the textbook Kuhn-Munkres
// (Hungarian) algorithm for the equal-size case, and a direct nearest-unused
// greedy rule for the unequal-size case per the chosen correspondence
// policy.
package assignment

import "github.com/gogpu/harmonize/internal/colorspace"

// Solve computes the correspondence mapping from s to t, minimizing total
// squared distance. When len(s) == len(t), it is a bijection computed by
// the Hungarian algorithm. Otherwise, each source index maps to its nearest
// unused target while any remain unused; once all targets are used,
// remaining source indices map to their nearest target (targets may then be
// shared). All tie-breaks favor the lowest index.
func Solve(s, t []colorspace.Point) []int {
	if len(s) == 0 {
		return nil
	}
	if len(s) == len(t) {
		return hungarian(s, t)
	}
	return nearestUnusedThenNearest(s, t)
}

func nearestUnusedThenNearest(s, t []colorspace.Point) []int {
	m := make([]int, len(s))
	used := make([]bool, len(t))
	unusedCount := len(t)

	for i, sp := range s {
		best := -1
		bestDist := 0.0
		if unusedCount > 0 {
			for j, tp := range t {
				if used[j] {
					continue
				}
				d := colorspace.DistanceSquared(sp, tp)
				if best == -1 || d < bestDist {
					best, bestDist = j, d
				}
			}
			used[best] = true
			unusedCount--
		} else {
			for j, tp := range t {
				d := colorspace.DistanceSquared(sp, tp)
				if best == -1 || d < bestDist {
					best, bestDist = j, d
				}
			}
		}
		m[i] = best
	}
	return m
}

// hungarian solves the balanced (n==n) assignment problem with the
// O(n^3) Jonker-Volgenant-free, textbook Kuhn-Munkres algorithm using
// potentials and augmenting paths. Cost is squared Euclidean distance.
//
// This is a 1-indexed implementation internally (the classic formulation of
// the algorithm is most naturally expressed that way); the public
// interface remains 0-indexed.
func hungarian(s, t []colorspace.Point) []int {
	n := len(s)
	const inf = 1e18

	cost := make([][]float64, n+1)
	for i := range cost {
		cost[i] = make([]float64, n+1)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cost[i+1][j+1] = colorspace.DistanceSquared(s[i], t[j])
		}
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j] = row matched to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	m := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			m[p[j]-1] = j - 1
		}
	}
	return m
}
