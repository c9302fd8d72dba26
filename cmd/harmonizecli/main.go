// Command harmonizecli drives the harmonize engine over PNG/JPEG files from
// the shell: extract a palette from an image, or resynthesize/posterize an
// image against a pair of palettes loaded from GPL files.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"

	"github.com/gogpu/harmonize"
	"github.com/gogpu/harmonize/export"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: harmonizecli <analyze|resynthesize|posterize> [flags]")
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "analyze":
		err = runAnalyze(args)
	case "resynthesize":
		err = runResynthesize(args)
	case "posterize":
		err = runPosterize(args)
	default:
		log.Fatalf("unknown command %q; want analyze, resynthesize, or posterize", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var (
		input   = fs.String("input", "", "input image (PNG or JPEG)")
		k       = fs.Int("k", 8, "number of palette entries")
		seed    = fs.Uint64("seed", 1, "PRNG seed")
		space   = fs.String("space", "rgb", "working space: rgb or lab")
		gplOut  = fs.String("gpl", "", "write palette as a .gpl file")
		csvOut  = fs.String("csv", "", "write palette as a .csv file")
		pngOut  = fs.String("png", "", "write palette as a swatch-grid PNG")
		workers = fs.Int("workers", 0, "worker count (0 = GOMAXPROCS)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("analyze: -input is required")
	}

	buf, err := loadPixelBuffer(*input)
	if err != nil {
		return err
	}

	eng := harmonize.NewEngine(
		harmonize.WithSeed(*seed),
		harmonize.WithWorkingSpace(parseSpace(*space)),
		harmonize.WithWorkers(*workers),
	)
	palette, err := eng.Analyze(buf, *k)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if *gplOut != "" {
		if err := writeFile(*gplOut, func(f *os.File) error {
			return export.GPL(f, palette, *input)
		}); err != nil {
			return err
		}
	}
	if *csvOut != "" {
		if err := writeFile(*csvOut, func(f *os.File) error {
			return export.CSV(f, palette)
		}); err != nil {
			return err
		}
	}
	if *pngOut != "" {
		if err := writeFile(*pngOut, func(f *os.File) error {
			return export.PNG(f, palette, 32)
		}); err != nil {
			return err
		}
	}

	for i, hex := range palette.Hex() {
		fmt.Printf("%d: %s\n", i, hex)
	}
	return nil
}

func runResynthesize(args []string) error {
	fs := flag.NewFlagSet("resynthesize", flag.ExitOnError)
	var (
		input  = fs.String("input", "", "input image (PNG or JPEG)")
		output = fs.String("output", "out.png", "output PNG")
		source = fs.String("source", "", "source .gpl palette")
		target = fs.String("target", "", "target .gpl palette")
		space  = fs.String("space", "rgb", "working space: rgb or lab")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *source == "" || *target == "" {
		return fmt.Errorf("resynthesize: -input, -source, and -target are required")
	}

	buf, err := loadPixelBuffer(*input)
	if err != nil {
		return err
	}
	sourcePalette, err := loadGPL(*source)
	if err != nil {
		return err
	}
	targetPalette, err := loadGPL(*target)
	if err != nil {
		return err
	}

	eng := harmonize.NewEngine(harmonize.WithWorkingSpace(parseSpace(*space)))
	out, err := eng.Resynthesize(buf, sourcePalette, targetPalette)
	if err != nil {
		return fmt.Errorf("resynthesize: %w", err)
	}
	return savePixelBuffer(*output, out)
}

func runPosterize(args []string) error {
	fs := flag.NewFlagSet("posterize", flag.ExitOnError)
	var (
		input  = fs.String("input", "", "input image (PNG or JPEG)")
		output = fs.String("output", "out.png", "output PNG")
		target = fs.String("target", "", "target .gpl palette")
		space  = fs.String("space", "rgb", "working space: rgb or lab")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *target == "" {
		return fmt.Errorf("posterize: -input and -target are required")
	}

	buf, err := loadPixelBuffer(*input)
	if err != nil {
		return err
	}
	targetPalette, err := loadGPL(*target)
	if err != nil {
		return err
	}

	eng := harmonize.NewEngine(harmonize.WithWorkingSpace(parseSpace(*space)))
	out, err := eng.Posterize(buf, targetPalette)
	if err != nil {
		return fmt.Errorf("posterize: %w", err)
	}
	return savePixelBuffer(*output, out)
}

func parseSpace(s string) harmonize.Space {
	if s == "lab" {
		return harmonize.SpaceLab
	}
	return harmonize.SpaceRGB
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

// loadPixelBuffer decodes a PNG or JPEG file into a harmonize.PixelBuffer,
// packing each pixel as 0xAARRGGBB.
func loadPixelBuffer(path string) (harmonize.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return harmonize.PixelBuffer{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return harmonize.PixelBuffer{}, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]uint32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*w+x] = uint32(a>>8)<<24 | uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
		}
	}
	return harmonize.PixelBuffer{Pixels: pixels, Width: w, Height: h}, nil
}

// savePixelBuffer encodes a harmonize.PixelBuffer as a PNG at path.
func savePixelBuffer(path string, buf harmonize.PixelBuffer) error {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			px := buf.Pixels[y*buf.Width+x]
			a := uint8(px >> 24)
			r := uint8(px >> 16)
			g := uint8(px >> 8)
			b := uint8(px)
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// loadGPL reads a GIMP .gpl palette written by export.GPL back into a
// ColorPalette. Only the three leading R G B integers of each color line
// are consulted; the trailing name is ignored.
func loadGPL(path string) (harmonize.ColorPalette, error) {
	f, err := os.Open(path)
	if err != nil {
		return harmonize.ColorPalette{}, err
	}
	defer f.Close()

	var colors []harmonize.ColorPoint
	var r, g, b int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if n, _ := fmt.Sscanf(line, "%d %d %d", &r, &g, &b); n == 3 {
			colors = append(colors, harmonize.ColorPoint{C1: float64(r), C2: float64(g), C3: float64(b)})
		}
	}
	if err := scanner.Err(); err != nil {
		return harmonize.ColorPalette{}, err
	}
	if len(colors) == 0 {
		return harmonize.ColorPalette{}, fmt.Errorf("loadGPL %s: no color entries found", path)
	}
	return harmonize.NewColorPalette(colors, harmonize.SpaceRGB), nil
}
