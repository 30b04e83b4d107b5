package renderer

import (
	"image/color"
	"math"
	"math/rand"
)

// ColorTable maps a triangle index to its opaque color. It is built before
// tracing starts and only read afterwards.
type ColorTable []color.RGBA

// RandomColorTable gives every triangle an independent, uniformly sampled RGB
// color with each channel drawn from {0, ..., 255}. Alpha is always 255.
func RandomColorTable(numTriangles int, random *rand.Rand) ColorTable {
	table := make(ColorTable, numTriangles)
	for i := range table {
		table[i] = color.RGBA{
			R: uint8(random.Intn(256)),
			G: uint8(random.Intn(256)),
			B: uint8(random.Intn(256)),
			A: 255,
		}
	}
	return table
}

// GradientColorTable colors every triangle by interpolating between minColor
// and maxColor with its normalized resolution rate.
func GradientColorTable(stats *ResolutionStats, minColor, maxColor color.RGBA) ColorTable {
	table := make(ColorTable, len(stats.Triangles))
	for i, tri := range stats.Triangles {
		table[i] = LerpColor(minColor, maxColor, tri.Normalized)
	}
	return table
}

// LerpColor linearly interpolates between a (t = 0) and b (t = 1).
// t is clamped to [0, 1].
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: lerpChannel(a.A, b.A, t),
	}
}

// lerpChannel interpolates in [0, 1] space and rounds back to 8 bits
func lerpChannel(a, b uint8, t float64) uint8 {
	from := float64(a) / 255
	to := float64(b) / 255
	return uint8(math.Round((from + (to-from)*t) * 255))
}
