// Package colorspace implements the sRGB <-> CIE L*a*b* conversion pipeline,
// the hot-path squared-Euclidean distance used by every clustering and
// nearest-centroid operation, and a reference CIEDE2000 distance for
// export/diagnostic use.
package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Space identifies the color space working coordinates are expressed in.
type Space uint8

const (
	// RGB is the standard [0,255]^3 working space. Faster, less
	// perceptually uniform.
	RGB Space = iota
	// Lab is the CIE L*a*b* working space: L in [0,100], a and b in
	// [-128,128]. Slower, better suited to perceptual clustering.
	Lab
)

func (s Space) String() string {
	if s == Lab {
		return "Lab"
	}
	return "RGB"
}

// Point is an immutable triple of real-valued color components. Its meaning
// depends on the Space it was produced in: RGB components are in [0,255];
// Lab components are L in [0,100], a/b in [-128,128]. Point carries no
// space tag of its own — every API that produces or consumes one is
// parameterized by an explicit Space.
type Point struct {
	C1, C2, C3 float64
}

// Add returns the component-wise sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{p.C1 + q.C1, p.C2 + q.C2, p.C3 + q.C3}
}

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.C1 - q.C1, p.C2 - q.C2, p.C3 - q.C3}
}

// Scale returns p with every component multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{p.C1 * k, p.C2 * k, p.C3 * k}
}

// DistanceSquared returns the squared Euclidean distance between p and q.
// This is the only distance function used on clustering/assignment hot
// paths: the square root is never taken, per the reference's "sqrt is
// avoided on hot paths" guidance.
func DistanceSquared(p, q Point) float64 {
	d1 := p.C1 - q.C1
	d2 := p.C2 - q.C2
	d3 := p.C3 - q.C3
	return d1*d1 + d2*d2 + d3*d3
}

// --- sRGB <-> linear ---------------------------------------------------

// SRGBToLinear applies the sRGB EOTF to a single channel in [0,1].
func SRGBToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB OETF to a single linear channel in [0,1],
// clamping the result to [0,1].
func LinearToSRGB(l float64) float64 {
	if l <= 0 {
		return 0
	}
	if l >= 1 {
		return 1
	}
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// --- linear RGB <-> XYZ (D65) -------------------------------------------

const (
	whiteX = 95.047
	whiteY = 100.000
	whiteZ = 108.883
)

func linearRGBToXYZ(r, g, b float64) (x, y, z float64) {
	x = (0.4124564*r + 0.3575761*g + 0.1804375*b) * 100
	y = (0.2126729*r + 0.7151522*g + 0.0721750*b) * 100
	z = (0.0193339*r + 0.1191920*g + 0.9503041*b) * 100
	return
}

func xyzToLinearRGB(x, y, z float64) (r, g, b float64) {
	x /= 100
	y /= 100
	z /= 100
	r = 3.2404542*x - 1.5371385*y - 0.4985314*z
	g = -0.9692660*x + 1.8760108*y + 0.0415560*z
	b = 0.0556434*x - 0.2040259*y + 1.0572252*z
	return
}

// --- XYZ <-> L*a*b* -------------------------------------------------------

const (
	labEpsilon = 216.0 / 24389.0
	labKappa   = 24389.0 / 27.0
)

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

func labFInv(t float64) float64 {
	t3 := t * t * t
	if t3 > labEpsilon {
		return t3
	}
	return (116*t - 16) / labKappa
}

func xyzToLab(x, y, z float64) (l, a, b float64) {
	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)
	l = 116*fy - 16
	a = 500 * (fx - fy)
	b = 200 * (fy - fz)
	return
}

func labToXYZ(l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	x = whiteX * labFInv(fx)
	y = whiteY * labFInv(fy)
	z = whiteZ * labFInv(fz)
	return
}

// --- public RGB <-> Lab --------------------------------------------------

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// RGBToLab converts a Point in the RGB working space ([0,255]^3) to the
// CIE L*a*b* working space.
func RGBToLab(p Point) Point {
	r := SRGBToLinear(p.C1 / 255)
	g := SRGBToLinear(p.C2 / 255)
	b := SRGBToLinear(p.C3 / 255)
	x, y, z := linearRGBToXYZ(r, g, b)
	l, a, bb := xyzToLab(x, y, z)
	return Point{l, a, bb}
}

// LabToRGB converts a Point in the CIE L*a*b* working space back to RGB,
// clamping each output channel to [0,255].
func LabToRGB(p Point) Point {
	x, y, z := labToXYZ(p.C1, p.C2, p.C3)
	r, g, b := xyzToLinearRGB(x, y, z)
	return Point{
		clamp255(LinearToSRGB(r) * 255),
		clamp255(LinearToSRGB(g) * 255),
		clamp255(LinearToSRGB(b) * 255),
	}
}

// RGBToLabBatch converts a sequence of RGB points to Lab, in order. The
// output at index i depends only on input index i: batches may be split
// across goroutines by the caller (see internal/tiling) without affecting
// results.
func RGBToLabBatch(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = RGBToLab(p)
	}
	return out
}

// LabToRGBBatch is the batch counterpart of LabToRGB.
func LabToRGBBatch(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = LabToRGB(p)
	}
	return out
}

// --- reference CIEDE2000 --------------------------------------------------

// toColorful converts a Point in the given Space to a go-colorful Color
// (sRGB, [0,1] components).
func toColorful(p Point, space Space) colorful.Color {
	rgb := p
	if space == Lab {
		rgb = LabToRGB(p)
	}
	return colorful.Color{R: rgb.C1 / 255, G: rgb.C2 / 255, B: rgb.C3 / 255}
}

// DistanceCIEDE2000 computes the perceptual CIEDE2000 distance between two
// points expressed in the given working space. This is a reference/export
// function only — clustering and resynthesis always use DistanceSquared.
func DistanceCIEDE2000(p, q Point, space Space) float64 {
	return toColorful(p, space).DistanceCIEDE2000(toColorful(q, space))
}

// Hex returns the "#rrggbb" hex projection of a Point in the given working
// space, delegating to go-colorful for the authoritative string form.
func Hex(p Point, space Space) string {
	return toColorful(p, space).Clamped().Hex()
}
