// Package lut builds the 128^3 palette-classification lookup table used to
// accelerate resynthesis and posterization when the target palette is small
// enough and the image large enough for the setup cost to pay for itself.
package lut

import (
	"sync"

	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/nearest"
)

// Size is the LUT's per-channel resolution: indexed by the top 7 bits of
// each 8-bit input channel.
const Size = 128

// Table maps a quantized (r,g,b) coordinate to the index of its nearest
// palette entry.
type Table struct {
	indices []int32
}

// Build constructs a Table for target, a palette expressed in the given
// working space. Each LUT cell is built from its reconstructed RGB value
// ((r*2, g*2, b*2), the lower of the two 8-bit values that quantize to
// that cell), converted into space if necessary before the nearest-centroid
// search.
//
// Construction is split into Size independent row-planes, one goroutine per
// r value, following the reference's per-image-row goroutine fan-out for
// LUT building: the workload's shape is fixed and embarrassingly parallel,
// so a plain WaitGroup is used rather than the work-stealing pool reserved
// for data-dependent tiling work.
func Build(target []colorspace.Point, space colorspace.Space, accel nearest.Accelerator) *Table {
	indices := make([]int32, Size*Size*Size)

	var wg sync.WaitGroup
	for r := 0; r < Size; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			rc := float64(r * 2)
			rBase := r * Size * Size
			for g := 0; g < Size; g++ {
				gc := float64(g * 2)
				gBase := rBase + g*Size
				for b := 0; b < Size; b++ {
					bc := float64(b * 2)
					p := colorspace.Point{C1: rc, C2: gc, C3: bc}
					if space == colorspace.Lab {
						p = colorspace.RGBToLab(p)
					}
					indices[gBase+b] = int32(nearest.Nearest(p, target, accel))
				}
			}
		}(r)
	}
	wg.Wait()

	return &Table{indices: indices}
}

// Lookup returns the palette index for a packed RGB triple, quantizing each
// channel to its top 7 bits.
func (t *Table) Lookup(r, g, b uint8) int {
	ri := int(r) >> 1
	gi := int(g) >> 1
	bi := int(b) >> 1
	return int(t.indices[ri*Size*Size+gi*Size+bi])
}
