package sample

import (
	"testing"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/rng"
)

func makePoints(n int) []colorspace.Point {
	out := make([]colorspace.Point, n)
	for i := range out {
		out[i] = colorspace.Point{C1: float64(i), C2: float64(i), C3: float64(i)}
	}
	return out
}

func TestPointsReturnsAllWhenUnderCap(t *testing.T) {
	src := makePoints(5)
	got := Points(src, 10, rng.New(1))
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
}

func TestPointsRespectsCap(t *testing.T) {
	src := makePoints(1000)
	got := Points(src, 50, rng.New(1))
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
}

func TestPointsDeterministic(t *testing.T) {
	src := makePoints(1000)
	a := Points(src, 50, rng.New(7))
	b := Points(src, 50, rng.New(7))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample diverged at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestPointsEmptyAndZeroSize(t *testing.T) {
	if got := Points(nil, 10, rng.New(1)); got != nil {
		t.Fatalf("Points(nil) = %v, want nil", got)
	}
	if got := Points(makePoints(5), 0, rng.New(1)); got != nil {
		t.Fatalf("Points(size=0) = %v, want nil", got)
	}
}

func TestPixelsUnpacksRGBIgnoresAlpha(t *testing.T) {
	buf := []uint32{0xFF112233, 0x00445566}
	got := Pixels(buf, 10, rng.New(1))
	want := []colorspace.Point{{C1: 0x11, C2: 0x22, C3: 0x33}, {C1: 0x44, C2: 0x55, C3: 0x66}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Pixels[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPixelsRespectsCapAndIsDeterministic(t *testing.T) {
	buf := make([]uint32, 2000)
	for i := range buf {
		buf[i] = uint32(i)
	}
	a := Pixels(buf, 100, rng.New(42))
	b := Pixels(buf, 100, rng.New(42))
	if len(a) != 100 {
		t.Fatalf("len = %d, want 100", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample diverged at %d", i)
		}
	}
}
