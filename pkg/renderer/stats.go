package renderer

import "time"

// RenderStats contains statistics about one render
type RenderStats struct {
	Pixels       int           // Total number of pixels traced
	PixelsHit    int           // Pixels whose ray hit a triangle
	Triangles    int           // Triangles in the mesh
	TrianglesHit int           // Triangles that are the first hit of at least one pixel
	Workers      int           // Parallel workers used for tracing
	Tiles        int           // Tiles the image was split into
	TraceTime    time.Duration // Time spent casting rays
	TotalTime    time.Duration // Time for the whole render
}

// Coverage returns the fraction of pixels that hit a triangle
func (s RenderStats) Coverage() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.PixelsHit) / float64(s.Pixels)
}

// addTile accumulates the statistics of a traced tile
func (s *RenderStats) addTile(tile TileStats) {
	s.Pixels += tile.Pixels
	s.PixelsHit += tile.PixelsHit
}

// countTrianglesHit sets TrianglesHit from per-triangle hit counts
func (s *RenderStats) countTrianglesHit(counts []int) {
	s.TrianglesHit = 0
	for _, c := range counts {
		if c > 0 {
			s.TrianglesHit++
		}
	}
}
