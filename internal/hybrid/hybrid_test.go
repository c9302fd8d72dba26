package hybrid

import (
	"testing"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/parallel"
)

func TestEmptyInput(t *testing.T) {
	out, err := Run(nil, Config{K: 3, Seed: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != nil {
		t.Fatalf("Run(nil) = %v, want nil", out)
	}
}

func TestNonPositiveK(t *testing.T) {
	pts := []colorspace.Point{{C1: 1, C2: 1, C3: 1}}
	out, err := Run(pts, Config{K: 0, Seed: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != nil {
		t.Fatalf("Run with K=0 = %v, want nil", out)
	}
}

func TestKGreaterOrEqualNReturnsInputUnchanged(t *testing.T) {
	pts := []colorspace.Point{{C1: 1, C2: 1, C3: 1}, {C1: 2, C2: 2, C3: 2}, {C1: 3, C2: 3, C3: 3}}
	out, err := Run(pts, Config{K: 5, Seed: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != len(pts) {
		t.Fatalf("len = %d, want %d", len(out), len(pts))
	}
	for i := range pts {
		if out[i] != pts[i] {
			t.Fatalf("out[%d] = %v, want %v (input unchanged)", i, out[i], pts[i])
		}
	}
}

func TestSmallInputGoesDirectToKMeans(t *testing.T) {
	pts := make([]colorspace.Point, 500)
	for i := range pts {
		pts[i] = colorspace.Point{C1: float64(i % 256), C2: float64(i % 256), C3: float64(i % 256)}
	}
	out, err := Run(pts, Config{K: 4, Seed: 1, BlockSize: 1000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
}

func TestLargeInputUsesBlockPartitioning(t *testing.T) {
	var pts []colorspace.Point
	centers := []colorspace.Point{{C1: 20, C2: 20, C3: 20}, {C1: 220, C2: 220, C3: 220}}
	for _, c := range centers {
		for i := 0; i < 3000; i++ {
			pts = append(pts, colorspace.Point{
				C1: c.C1 + float64(i%5-2),
				C2: c.C2 + float64((i+1)%5-2),
				C3: c.C3 + float64((i+2)%5-2),
			})
		}
	}
	out, err := Run(pts, Config{K: 2, Seed: 7, BlockSize: 500})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	var pts []colorspace.Point
	for i := 0; i < 6000; i++ {
		pts = append(pts, colorspace.Point{C1: float64(i % 256), C2: float64((i * 3) % 256), C3: float64((i * 7) % 256)})
	}
	a, err := Run(pts, Config{K: 5, Seed: 99, BlockSize: 500})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(pts, Config{K: 5, Seed: 99, BlockSize: 500})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run diverged at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestBlockRepresentativesOrderIndependentOfPool(t *testing.T) {
	var pts []colorspace.Point
	for i := 0; i < 6000; i++ {
		pts = append(pts, colorspace.Point{C1: float64(i % 256), C2: float64((i * 5) % 256), C3: float64((i * 11) % 256)})
	}
	seq, err := Run(pts, Config{K: 5, Seed: 11, BlockSize: 500})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	pool := parallel.NewWorkerPool(4)
	defer pool.Close()
	par, err := Run(pts, Config{K: 5, Seed: 11, BlockSize: 500, Pool: pool})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(seq) != len(par) {
		t.Fatalf("len mismatch: %d vs %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("centroid %d differs: %v != %v", i, seq[i], par[i])
		}
	}
}
