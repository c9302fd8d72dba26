package harmonize

import (
	"sort"

	"github.com/gogpu/harmonize/internal/assignment"
	"github.com/gogpu/harmonize/internal/colorspace"
)

// ColorPalette is an ordered list of representative colors extracted from
// an image, together with the working space their components are
// expressed in.
type ColorPalette struct {
	Colors []ColorPoint
	Space  Space
}

// NewColorPalette wraps colors as a ColorPalette in the given working
// space. The slice is not copied; callers that mutate colors afterward
// must not also keep using the returned palette.
func NewColorPalette(colors []ColorPoint, space Space) ColorPalette {
	return ColorPalette{Colors: colors, Space: space}
}

// Len returns the number of colors in the palette.
func (p ColorPalette) Len() int { return len(p.Colors) }

// Nearest returns the index of the palette entry closest to c by squared
// Euclidean distance, breaking ties toward the lowest index.
func (p ColorPalette) Nearest(c ColorPoint) int {
	best := 0
	bestDist := colorspace.DistanceSquared(c, p.Colors[0])
	for i := 1; i < len(p.Colors); i++ {
		if d := colorspace.DistanceSquared(c, p.Colors[i]); d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

// luminance returns the Rec. 601 luminance of c in the RGB working space,
// or its first component directly in the Lab working space (Lab's L
// channel is already a perceptual lightness, so no re-derivation applies).
func luminance(c ColorPoint, space Space) float64 {
	if space == SpaceLab {
		return c.C1
	}
	return 0.299*c.C1 + 0.587*c.C2 + 0.114*c.C3
}

// SortedByLuminance returns a new palette with the same colors, stably
// sorted by luminance ascending. The receiver is not modified.
func (p ColorPalette) SortedByLuminance() ColorPalette {
	out := make([]ColorPoint, len(p.Colors))
	copy(out, p.Colors)
	sort.SliceStable(out, func(i, j int) bool {
		return luminance(out[i], p.Space) < luminance(out[j], p.Space)
	})
	return ColorPalette{Colors: out, Space: p.Space}
}

// CorrespondTo computes the minimum-total-squared-distance mapping from p
// to target: a bijection via the Hungarian algorithm when the palettes are
// the same size, or nearest-unused-then-nearest when they are not (see
// internal/assignment). The result m satisfies: p.Colors[i] corresponds to
// target.Colors[m[i]].
func (p ColorPalette) CorrespondTo(target ColorPalette) []int {
	return assignment.Solve(p.Colors, target.Colors)
}

// Hex returns the "#rrggbb" hex projection of every palette entry, in
// palette order.
func (p ColorPalette) Hex() []string {
	out := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		out[i] = colorspace.Hex(c, p.Space)
	}
	return out
}

// InSpace returns a copy of the palette converted into the target working
// space, converting through RGB as an intermediate when necessary.
func (p ColorPalette) InSpace(target Space) ColorPalette {
	if p.Space == target {
		out := make([]ColorPoint, len(p.Colors))
		copy(out, p.Colors)
		return ColorPalette{Colors: out, Space: target}
	}
	out := make([]ColorPoint, len(p.Colors))
	for i, c := range p.Colors {
		if target == SpaceLab {
			out[i] = colorspace.RGBToLab(c)
		} else {
			out[i] = colorspace.LabToRGB(c)
		}
	}
	return ColorPalette{Colors: out, Space: target}
}
