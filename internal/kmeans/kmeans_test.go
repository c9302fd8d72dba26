package kmeans

import (
	"math"
	"testing"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/parallel"
)

func repeat(p colorspace.Point, n int) []colorspace.Point {
	out := make([]colorspace.Point, n)
	for i := range out {
		out[i] = p
	}
	return out
}

// TestTwoExtremesS1 exercises spec scenario S1.
func TestTwoExtremesS1(t *testing.T) {
	pts := append(repeat(colorspace.Point{C1: 0, C2: 0, C3: 0}, 50), repeat(colorspace.Point{C1: 255, C2: 255, C3: 255}, 50)...)
	out := Run(pts, Config{K: 2, Seed: 42})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	foundBlack, foundWhite := false, false
	for _, c := range out {
		if math.Sqrt(colorspace.DistanceSquared(c, colorspace.Point{})) <= 1.0 {
			foundBlack = true
		}
		if math.Sqrt(colorspace.DistanceSquared(c, colorspace.Point{C1: 255, C2: 255, C3: 255})) <= 1.0 {
			foundWhite = true
		}
	}
	if !foundBlack || !foundWhite {
		t.Fatalf("centroids %v do not bracket black/white", out)
	}
}

func gaussianCluster(center colorspace.Point, sigma float64, n int, seedBase uint64) []colorspace.Point {
	// Deterministic jitter pattern (not a statistical RNG): enough spread to
	// exercise convergence without depending on math/rand.
	out := make([]colorspace.Point, n)
	for i := range out {
		t := float64(i%7) - 3
		out[i] = colorspace.Point{
			C1: center.C1 + t*sigma/3,
			C2: center.C2 + float64((i+1)%5-2)*sigma/3,
			C3: center.C3 + float64((i+2)%9-4)*sigma/3,
		}
	}
	return out
}

// TestThreeClustersS2 exercises spec scenario S2.
func TestThreeClustersS2(t *testing.T) {
	centers := []colorspace.Point{{C1: 50, C2: 50, C3: 50}, {C1: 150, C2: 150, C3: 150}, {C1: 200, C2: 50, C3: 200}}
	var pts []colorspace.Point
	for _, c := range centers {
		pts = append(pts, gaussianCluster(c, 5, 100, 42)...)
	}
	out := Run(pts, Config{K: 3, Seed: 42})
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for _, c := range centers {
		best := math.MaxFloat64
		for _, o := range out {
			if d := math.Sqrt(colorspace.DistanceSquared(c, o)); d < best {
				best = d
			}
		}
		if best > 15 {
			t.Errorf("no centroid within 15 of %v (closest %v)", c, best)
		}
	}
}

func TestCardinalityFewerPointsThanK(t *testing.T) {
	pts := []colorspace.Point{{C1: 1, C2: 1, C3: 1}, {C1: 2, C2: 2, C3: 2}}
	out := Run(pts, Config{K: 5, Seed: 1})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}

func TestDegenerateDuplicatePoints(t *testing.T) {
	pts := append(repeat(colorspace.Point{C1: 7, C2: 7, C3: 7}, 10), repeat(colorspace.Point{C1: 8, C2: 8, C3: 8}, 10)...)
	out := Run(pts, Config{K: 5, Seed: 1})
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
	for _, c := range out {
		if c != (colorspace.Point{C1: 7, C2: 7, C3: 7}) && c != (colorspace.Point{C1: 8, C2: 8, C3: 8}) {
			t.Fatalf("unexpected centroid %v for degenerate input", c)
		}
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	var pts []colorspace.Point
	for i := 0; i < 500; i++ {
		pts = append(pts, colorspace.Point{C1: float64(i % 256), C2: float64((i * 3) % 256), C3: float64((i * 7) % 256)})
	}
	a := Run(pts, Config{K: 6, Seed: 99})
	b := Run(pts, Config{K: 6, Seed: 99})
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run diverged at centroid %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestBitIdenticalAcrossWorkerCounts(t *testing.T) {
	var pts []colorspace.Point
	for i := 0; i < 20000; i++ {
		pts = append(pts, colorspace.Point{C1: float64(i % 256), C2: float64((i * 13) % 256), C3: float64((i * 31) % 256)})
	}

	seq := Run(pts, Config{K: 8, Seed: 7})

	pool := parallel.NewWorkerPool(8)
	defer pool.Close()
	par := Run(pts, Config{K: 8, Seed: 7, Pool: pool})

	if len(seq) != len(par) {
		t.Fatalf("len mismatch: %d vs %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("centroid %d differs between sequential and parallel runs: %v != %v", i, seq[i], par[i])
		}
	}
}

func TestEmptyInputReturnsNil(t *testing.T) {
	if out := Run(nil, Config{K: 3, Seed: 1}); out != nil {
		t.Fatalf("Run(nil) = %v, want nil", out)
	}
}

func TestZeroOrNegativeKReturnsNil(t *testing.T) {
	pts := []colorspace.Point{{C1: 1, C2: 1, C3: 1}}
	if out := Run(pts, Config{K: 0, Seed: 1}); out != nil {
		t.Fatalf("Run with K=0 = %v, want nil", out)
	}
}
