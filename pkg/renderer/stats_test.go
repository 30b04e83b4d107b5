package renderer

import "testing"

func TestRenderStatsCoverage(t *testing.T) {
	tests := []struct {
		name     string
		stats    RenderStats
		expected float64
	}{
		{"empty", RenderStats{}, 0},
		{"half", RenderStats{Pixels: 4, PixelsHit: 2}, 0.5},
		{"full", RenderStats{Pixels: 9, PixelsHit: 9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Coverage(); got != tt.expected {
				t.Errorf("Expected coverage %g, got %g", tt.expected, got)
			}
		})
	}
}

func TestRenderStatsAccumulation(t *testing.T) {
	var stats RenderStats
	stats.addTile(TileStats{Pixels: 16, PixelsHit: 3})
	stats.addTile(TileStats{Pixels: 8, PixelsHit: 8})

	if stats.Pixels != 24 || stats.PixelsHit != 11 {
		t.Errorf("Expected 24 pixels with 11 hit, got %d with %d hit", stats.Pixels, stats.PixelsHit)
	}

	stats.countTrianglesHit([]int{0, 5, 0, 1, 2})
	if stats.TrianglesHit != 3 {
		t.Errorf("Expected 3 triangles hit, got %d", stats.TrianglesHit)
	}

	// Recounting replaces the previous value
	stats.countTrianglesHit([]int{1})
	if stats.TrianglesHit != 1 {
		t.Errorf("Expected 1 triangle hit after recount, got %d", stats.TrianglesHit)
	}
}
