package harmonize

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.space != SpaceRGB {
		t.Errorf("default space = %v, want RGB", o.space)
	}
	if o.pixelSampleCap != 250_000 {
		t.Errorf("default pixelSampleCap = %d, want 250000", o.pixelSampleCap)
	}
	if o.blockSize != 1000 {
		t.Errorf("default blockSize = %d, want 1000", o.blockSize)
	}
	if o.lutThreshold != 256 {
		t.Errorf("default lutThreshold = %d, want 256", o.lutThreshold)
	}
	if o.lutDisabled {
		t.Errorf("default lutDisabled = true, want false")
	}
}

func TestWithWorkingSpace(t *testing.T) {
	eng := NewEngine(WithWorkingSpace(SpaceLab))
	if eng.opts.space != SpaceLab {
		t.Errorf("space = %v, want Lab", eng.opts.space)
	}
}

func TestWithSeed(t *testing.T) {
	eng := NewEngine(WithSeed(7))
	if eng.opts.seed != 7 {
		t.Errorf("seed = %d, want 7", eng.opts.seed)
	}
}

func TestWithWorkers(t *testing.T) {
	eng := NewEngine(WithWorkers(4))
	if eng.workerCount() != 4 {
		t.Errorf("workerCount() = %d, want 4", eng.workerCount())
	}
}

func TestWithWorkersZeroUsesGOMAXPROCS(t *testing.T) {
	eng := NewEngine(WithWorkers(0))
	if eng.workerCount() <= 0 {
		t.Errorf("workerCount() = %d, want > 0", eng.workerCount())
	}
}

func TestWithPixelSampleCapIgnoresNonPositive(t *testing.T) {
	eng := NewEngine(WithPixelSampleCap(0))
	if eng.opts.pixelSampleCap != 250_000 {
		t.Errorf("pixelSampleCap = %d, want default preserved", eng.opts.pixelSampleCap)
	}
	eng = NewEngine(WithPixelSampleCap(1000))
	if eng.opts.pixelSampleCap != 1000 {
		t.Errorf("pixelSampleCap = %d, want 1000", eng.opts.pixelSampleCap)
	}
}

func TestWithBlockSizeIgnoresNonPositive(t *testing.T) {
	eng := NewEngine(WithBlockSize(-5))
	if eng.opts.blockSize != 1000 {
		t.Errorf("blockSize = %d, want default preserved", eng.opts.blockSize)
	}
}

func TestWithoutLUTDisablesAcceleration(t *testing.T) {
	eng := NewEngine(WithoutLUT())
	if !eng.opts.lutDisabled {
		t.Error("lutDisabled = false, want true")
	}
}

func TestWithLUTThreshold(t *testing.T) {
	eng := NewEngine(WithLUTThreshold(16))
	if eng.opts.lutThreshold != 16 {
		t.Errorf("lutThreshold = %d, want 16", eng.opts.lutThreshold)
	}
}

func TestWithTilePixelThresholdIgnoresNonPositive(t *testing.T) {
	eng := NewEngine(WithTilePixelThreshold(0))
	if eng.opts.tilePixelThresh != 16_000_000 {
		t.Errorf("tilePixelThresh = %d, want default preserved", eng.opts.tilePixelThresh)
	}
}

func TestWithTilePixelThresholdOverrides(t *testing.T) {
	eng := NewEngine(WithTilePixelThreshold(1000))
	if eng.opts.tilePixelThresh != 1000 {
		t.Errorf("tilePixelThresh = %d, want 1000", eng.opts.tilePixelThresh)
	}
}

func TestWithTileByteBudgetIgnoresNonPositive(t *testing.T) {
	eng := NewEngine(WithTileByteBudget(0))
	if eng.opts.tileByteBudget != 0 {
		t.Errorf("tileByteBudget = %d, want default preserved (0 selects tiling.DefaultTileBudgetBytes)", eng.opts.tileByteBudget)
	}
}

func TestWithTileByteBudgetOverrides(t *testing.T) {
	eng := NewEngine(WithTileByteBudget(64 * 1024 * 1024))
	if eng.opts.tileByteBudget != 64*1024*1024 {
		t.Errorf("tileByteBudget = %d, want 64MB", eng.opts.tileByteBudget)
	}
}

func TestWithAccelerator(t *testing.T) {
	eng := NewEngine(WithAccelerator(scalarSpy{}))
	if eng.opts.accelerator == nil {
		t.Error("accelerator not installed")
	}
}

// scalarSpy is a trivial Accelerator used only to verify that
// WithAccelerator stores whatever is passed to it.
type scalarSpy struct{}

func (scalarSpy) Name() string { return "spy" }
func (scalarSpy) Nearest(p ColorPoint, centroids []ColorPoint) int {
	return 0
}
