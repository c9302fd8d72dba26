// Package harmonize extracts a representative color palette from a bitmap
// image and transfers color harmony from one image to another.
//
// # Overview
//
// Given a source and a target image, harmonize:
//
//  1. extracts a small palette from each image via a hybrid DBSCAN+k-means
//     clustering pass over sampled pixels,
//  2. resynthesizes the target image so every pixel is shifted from its
//     nearest cluster in the target palette to the corresponding cluster in
//     the source palette, preserving the pixel's offset from its cluster
//     center.
//
// # Quick Start
//
//	eng := harmonize.NewEngine(harmonize.WithSeed(42))
//
//	srcPalette, _ := eng.Analyze(srcImage, 8)
//	tgtPalette, _ := eng.Analyze(tgtImage, 8)
//	result, _ := eng.Resynthesize(tgtImage, srcPalette, tgtPalette)
//
// # Determinism
//
// Every operation is a pure function of its inputs and the Engine's seed:
// repeating a call with the same image, palette(s), and seed produces a
// byte-identical result regardless of GOMAXPROCS or how the internal worker
// pool happened to schedule goroutines. See internal/kmeans and
// internal/dbscan for where that guarantee is enforced.
//
// # Working space
//
// An Engine clusters and measures distance either in RGB (faster, less
// perceptually uniform) or in CIE L*a*b* (slower, perceptually closer to how
// a palette "should" look). Pick the space once, via WithWorkingSpace, when
// constructing the Engine.
//
// # Scope
//
// harmonize does not decode or encode image files, does not offer a GUI, and
// does not offer GPU acceleration of its own. It consumes and produces a
// plain row-major packed-pixel buffer (PixelBuffer); see cmd/harmonizecli for
// a thin wrapper that reads/writes PNG and JPEG files.
package harmonize
