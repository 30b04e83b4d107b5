package renderer

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-resolution-raycaster/pkg/core"
	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

const (
	// LowerThreshold separates rates that waste screen pixels (<= 1 texel per
	// pixel) from rates that lose texture detail (> 1 texel per pixel).
	LowerThreshold = 1.0

	// ReferenceRate splits the lower population into two sub-bands.
	ReferenceRate = 0.3344944
)

// TriangleResolution holds the resolution-rate data of one triangle
type TriangleResolution struct {
	Area       float64 // Texture-space area in texels
	Hits       int     // Pixels whose first hit is this triangle
	Rate       float64 // Area / Hits; only meaningful when HasRate is set
	HasRate    bool    // False without hits or when the rate is not finite
	Normalized float64 // Rate mapped into [0, 1]; 0 without hits
}

// BandSummary describes one population of raw rates
type BandSummary struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

// ResolutionBands summarises the populations used for normalization
type ResolutionBands struct {
	Lower      BandSummary // Rates <= LowerThreshold
	LowerLower BandSummary // Lower rates <= ReferenceRate
	LowerUpper BandSummary // Lower rates > ReferenceRate
	Upper      BandSummary // Rates > LowerThreshold
}

// ResolutionStats holds per-triangle resolution data for one render
type ResolutionStats struct {
	Triangles []TriangleResolution
	Bands     ResolutionBands
}

// TexelArea returns the area, in texels, of the UV triangle uv1, uv2, uv3
// on a texture of the given size. Degenerate triangles have zero area.
func TexelArea(uv1, uv2, uv3 core.Vec2, textureWidth, textureHeight int) float64 {
	tw, th := float64(textureWidth), float64(textureHeight)
	a := uv1.Scale(tw, th)
	edgeA := uv2.Scale(tw, th).Subtract(a)
	edgeB := uv3.Scale(tw, th).Subtract(a)
	return 0.5 * math.Abs(edgeA.Cross(edgeB))
}

// NewResolutionStats combines texel areas and hit counts into raw rates and
// normalizes them. areas and hits must have one entry per triangle.
// Non-finite rates are left out of the bands and normalize to 0.
func NewResolutionStats(areas []float64, hits []int) *ResolutionStats {
	stats := &ResolutionStats{Triangles: make([]TriangleResolution, len(areas))}
	for i := range stats.Triangles {
		tri := &stats.Triangles[i]
		tri.Area = areas[i]
		tri.Hits = hits[i]
		if tri.Hits > 0 {
			tri.Rate = tri.Area / float64(tri.Hits)
			tri.HasRate = !math.IsNaN(tri.Rate) && !math.IsInf(tri.Rate, 0)
		}
	}
	stats.Normalize()
	return stats
}

// Normalize computes the band summaries and maps every defined raw rate into
// [0, 1]. The four lower bands cover [0, 0.2] and the two upper bands cover
// [0.2, 1]. Triangles without hits normalize to 0.
func (s *ResolutionStats) Normalize() {
	var lower, lowerLower, lowerUpper, upper []float64
	for _, tri := range s.Triangles {
		if !tri.HasRate {
			continue
		}
		switch {
		case tri.Rate <= ReferenceRate:
			lowerLower = append(lowerLower, tri.Rate)
			lower = append(lower, tri.Rate)
		case tri.Rate <= LowerThreshold:
			lowerUpper = append(lowerUpper, tri.Rate)
			lower = append(lower, tri.Rate)
		default:
			upper = append(upper, tri.Rate)
		}
	}

	s.Bands = ResolutionBands{
		Lower:      summarize(lower),
		LowerLower: summarize(lowerLower),
		LowerUpper: summarize(lowerUpper),
		Upper:      summarize(upper),
	}

	lowerBands, upperBands := s.Bands.bands()
	for i := range s.Triangles {
		tri := &s.Triangles[i]
		if !tri.HasRate {
			tri.Normalized = 0
			continue
		}
		if tri.Rate <= LowerThreshold {
			tri.Normalized = mapRate(tri.Rate, lowerBands[:])
		} else {
			tri.Normalized = mapRate(tri.Rate, upperBands[:])
		}
	}
}

// NormalizedRates returns the normalized rate of every triangle
func (s *ResolutionStats) NormalizedRates() []float64 {
	rates := make([]float64, len(s.Triangles))
	for i, tri := range s.Triangles {
		rates[i] = tri.Normalized
	}
	return rates
}

func summarize(rates []float64) BandSummary {
	if len(rates) == 0 {
		return BandSummary{}
	}
	return BandSummary{
		Count: len(rates),
		Mean:  stat.Mean(rates, nil),
		Min:   floats.Min(rates),
		Max:   floats.Max(rates),
	}
}

// rateBand linearly maps raw rates in [lo, hi] onto [outLo, outHi]
type rateBand struct {
	lo, hi       float64
	outLo, outHi float64
}

func (b rateBand) interpolate(rate float64) float64 {
	if b.hi <= b.lo {
		return b.outLo
	}
	t := (rate - b.lo) / (b.hi - b.lo)
	return b.outLo + math.Max(0, math.Min(1, t))*(b.outHi-b.outLo)
}

// bands builds the six contiguous rate bands. An empty lower sub-band has no
// mean; its breakpoint collapses onto the population edge so the neighbouring
// band covers its range.
func (rb ResolutionBands) bands() (lower [4]rateBand, upper [2]rateBand) {
	meanLowerLower := rb.LowerLower.Mean
	if rb.LowerLower.Count == 0 {
		meanLowerLower = rb.Lower.Min
	}
	meanLowerUpper := rb.LowerUpper.Mean
	if rb.LowerUpper.Count == 0 {
		meanLowerUpper = rb.Lower.Max
	}

	lowerEdges := [5]float64{rb.Lower.Min, meanLowerLower, rb.Lower.Mean, meanLowerUpper, rb.Lower.Max}
	for i := range lower {
		lower[i] = rateBand{
			lo:    lowerEdges[i],
			hi:    lowerEdges[i+1],
			outLo: 0.05 * float64(i),
			outHi: 0.05 * float64(i+1),
		}
	}

	upperEdges := [3]float64{rb.Upper.Min, rb.Upper.Mean, rb.Upper.Max}
	for i := range upper {
		upper[i] = rateBand{
			lo:    upperEdges[i],
			hi:    upperEdges[i+1],
			outLo: 0.2 + 0.4*float64(i),
			outHi: 0.2 + 0.4*float64(i+1),
		}
	}
	return lower, upper
}

// mapRate routes a raw rate to the first band whose upper edge contains it.
// Routing compares the raw rate, never a previously normalized value.
func mapRate(rate float64, bands []rateBand) float64 {
	last := len(bands) - 1
	for i, b := range bands {
		if i == last || rate <= b.hi {
			normalized := b.interpolate(rate)
			if math.IsNaN(normalized) {
				return 0
			}
			return normalized
		}
	}
	return 0
}

// ResolutionAnalyzer measures, per triangle, how many texels are spent on
// each screen pixel.
type ResolutionAnalyzer struct {
	mesh       *geometry.WorldMesh
	rasterizer *Rasterizer
	logger     *zap.Logger
}

// NewResolutionAnalyzer creates an analyzer that traces with rasterizer.
// The mesh must have texture coordinates.
func NewResolutionAnalyzer(mesh *geometry.WorldMesh, rasterizer *Rasterizer) *ResolutionAnalyzer {
	return &ResolutionAnalyzer{
		mesh:       mesh,
		rasterizer: rasterizer,
		logger:     rasterizer.logger,
	}
}

// Analyze runs the texture-area, coverage and normalization passes in order.
// The returned hit buffer is the one the coverage pass counted.
func (a *ResolutionAnalyzer) Analyze(ctx context.Context, textureWidth, textureHeight int) (*ResolutionStats, *HitBuffer, RenderStats, error) {
	start := time.Now()

	areas := a.texelAreas(textureWidth, textureHeight)

	hits, renderStats, err := a.rasterizer.Trace(ctx)
	if err != nil {
		return nil, nil, RenderStats{}, err
	}
	counts := hits.Counts(a.mesh.TriangleCount())
	renderStats.countTrianglesHit(counts)

	stats := NewResolutionStats(areas, counts)

	a.logger.Debug("resolution analysis complete",
		zap.Int("lower", stats.Bands.Lower.Count),
		zap.Int("lower_lower", stats.Bands.LowerLower.Count),
		zap.Int("lower_upper", stats.Bands.LowerUpper.Count),
		zap.Int("upper", stats.Bands.Upper.Count),
		zap.Duration("elapsed", time.Since(start)))

	return stats, hits, renderStats, nil
}

func (a *ResolutionAnalyzer) texelAreas(textureWidth, textureHeight int) []float64 {
	areas := make([]float64, a.mesh.TriangleCount())
	for i := range areas {
		uv1, uv2, uv3 := a.mesh.TriangleUV(i)
		areas[i] = TexelArea(uv1, uv2, uv3, textureWidth, textureHeight)
	}
	return areas
}
