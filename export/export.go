// Package export writes a harmonize.ColorPalette in the three interchange
// formats described by the engine's external interfaces: GIMP .gpl, a
// CIELAB CSV, and a PNG swatch grid. These are collaborators over the
// engine's public types, not part of the clustering/resynthesis core —
// following the teacher's own Pixmap.SavePNG, they go through the stdlib
// image codecs directly rather than any internal representation.
package export

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/harmonize"
)

// GPL writes p in GIMP Palette format to w. name is used verbatim as the
// "Name:" header field.
func GPL(w io.Writer, p harmonize.ColorPalette, name string) error {
	rgb := p.InSpace(harmonize.SpaceRGB)
	columns := rgb.Len()
	if columns > 16 {
		columns = 16
	}

	if _, err := fmt.Fprintln(w, "GIMP Palette"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Name: %s\n", name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Columns: %d\n", columns); err != nil {
		return err
	}

	for i, c := range rgb.Colors {
		if _, err := fmt.Fprintf(w, "%3d %3d %3d\tColor %d\n",
			clampChannel(c.C1), clampChannel(c.C2), clampChannel(c.C3), i+1); err != nil {
			return err
		}
	}
	return nil
}

func clampChannel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v + 0.5)
}

// CSV writes p as a CIELAB CSV to w: header "Index,L,a,b,Hex", one row per
// color with L/a/b to two decimal places and the sRGB hex projection.
func CSV(w io.Writer, p harmonize.ColorPalette) error {
	lab := p.InSpace(harmonize.SpaceLab)
	hex := p.Hex()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Index", "L", "a", "b", "Hex"}); err != nil {
		return err
	}
	for i, c := range lab.Colors {
		row := []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.2f", c.C1),
			fmt.Sprintf("%.2f", c.C2),
			fmt.Sprintf("%.2f", c.C3),
			hex[i],
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// swatchColumns implements the N-dependent column-count rule for the PNG
// swatch grid: preserved so a palette image looks the same across
// interoperable implementations, regardless of which one produced it.
func swatchColumns(n int) int {
	switch {
	case n <= 4:
		return n
	case n <= 8:
		return 4
	case n <= 16:
		return 4
	case n <= 25:
		return 5
	case n <= 36:
		return 6
	case n <= 64:
		return 8
	case n <= 100:
		return 10
	case n <= 144:
		return 12
	default:
		return int(math.Ceil(math.Sqrt(float64(n))))
	}
}

// PNG writes p as a grid of solid-color swatches, swatchSize pixels square
// each, to w. Rows are filled left to right, top to bottom; any trailing
// cells in the final row are left fully transparent.
func PNG(w io.Writer, p harmonize.ColorPalette, swatchSize int) error {
	n := p.Len()
	if n == 0 {
		return fmt.Errorf("export: empty palette")
	}
	if swatchSize <= 0 {
		swatchSize = 32
	}
	cols := swatchColumns(n)
	rows := (n + cols - 1) / cols

	img := image.NewNRGBA(image.Rect(0, 0, cols*swatchSize, rows*swatchSize))

	rgb := p.InSpace(harmonize.SpaceRGB)
	for i, c := range rgb.Colors {
		col := i % cols
		row := i / cols
		fill := color.NRGBA{
			R: uint8(clampChannel(c.C1)), G: uint8(clampChannel(c.C2)), B: uint8(clampChannel(c.C3)),
			A: 255,
		}
		x0, y0 := col*swatchSize, row*swatchSize
		for y := y0; y < y0+swatchSize; y++ {
			for x := x0; x < x0+swatchSize; x++ {
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	return png.Encode(w, img)
}
