// Package sample implements reservoir sampling over color points and packed
// pixel buffers, the single entry point through which the rest of the
// module ever reduces an image to a working-set of points.
package sample

import (
	"github.com/gogpu/harmonize/internal/colorspace"
	"github.com/gogpu/harmonize/internal/rng"
)

// Points draws a uniform sample of at most size elements from src using
// Algorithm R, consuming r in index order. If len(src) <= size, a copy of
// src is returned unchanged (no randomness is consumed in that case beyond
// what the caller already drew for anything upstream).
func Points(src []colorspace.Point, size int, r *rng.Source) []colorspace.Point {
	if size <= 0 || len(src) == 0 {
		return nil
	}
	if len(src) <= size {
		out := make([]colorspace.Point, len(src))
		copy(out, src)
		return out
	}
	out := make([]colorspace.Point, size)
	copy(out, src[:size])
	for i := size; i < len(src); i++ {
		j := r.Intn(i + 1)
		if j < size {
			out[j] = src[i]
		}
	}
	return out
}

// Pixels draws a uniform sample of at most size color points from a packed
// ARGB pixel buffer, unpacking RGB channels and discarding alpha. It uses
// the same Algorithm R reservoir as Points so that seeding a Source with the
// same value reproduces the same sample regardless of whether the caller
// already had points unpacked or not.
func Pixels(buf []uint32, size int, r *rng.Source) []colorspace.Point {
	if size <= 0 || len(buf) == 0 {
		return nil
	}
	if len(buf) <= size {
		out := make([]colorspace.Point, len(buf))
		for i, px := range buf {
			out[i] = unpack(px)
		}
		return out
	}
	out := make([]colorspace.Point, size)
	for i := 0; i < size; i++ {
		out[i] = unpack(buf[i])
	}
	for i := size; i < len(buf); i++ {
		j := r.Intn(i + 1)
		if j < size {
			out[j] = unpack(buf[i])
		}
	}
	return out
}

// unpack extracts the RGB channels of a packed 0xAARRGGBB pixel, discarding
// alpha, as a colorspace.Point in the RGB working space.
func unpack(px uint32) colorspace.Point {
	r := float64((px >> 16) & 0xFF)
	g := float64((px >> 8) & 0xFF)
	b := float64(px & 0xFF)
	return colorspace.Point{C1: r, C2: g, C3: b}
}
