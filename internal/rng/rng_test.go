package rng

import "testing"

func TestDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 1000; i++ {
		av, bv := a.Uint64(), b.Uint64()
		if av != bv {
			t.Fatalf("stream diverged at draw %d: %d != %d", i, av, bv)
		}
	}
}

func TestZeroSeedIsSubstituted(t *testing.T) {
	z := New(0)
	nz := New(0x9E3779B97F4A7C15)
	if z.Uint64() != nz.Uint64() {
		t.Fatal("zero seed was not substituted with the documented constant")
	}
}

func TestFloat64Range(t *testing.T) {
	s := New(7)
	for i := 0; i < 10000; i++ {
		v := s.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, want [0,1)", v)
		}
	}
}

func TestIntnRange(t *testing.T) {
	s := New(123)
	for i := 0; i < 10000; i++ {
		v := s.Intn(7)
		if v < 0 || v >= 7 {
			t.Fatalf("Intn(7) = %d, out of range", v)
		}
	}
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for n <= 0")
		}
	}()
	New(1).Intn(0)
}

func TestIntnDistributionRoughlyUniform(t *testing.T) {
	s := New(99)
	const n = 4
	counts := make([]int, n)
	const draws = 40000
	for i := 0; i < draws; i++ {
		counts[s.Intn(n)]++
	}
	expect := draws / n
	for i, c := range counts {
		if c < expect/2 || c > expect*3/2 {
			t.Errorf("bucket %d count %d far from expected %d", i, c, expect)
		}
	}
}
