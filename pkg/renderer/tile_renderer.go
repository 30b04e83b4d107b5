package renderer

import (
	"image"

	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

// TileRenderer traces the pixels of a tile and records the first-hit triangle of each
type TileRenderer struct {
	mesh   *geometry.WorldMesh
	camera *Camera
	hits   *HitBuffer
}

// NewTileRenderer creates a tile renderer writing into hits
func NewTileRenderer(mesh *geometry.WorldMesh, camera *Camera, hits *HitBuffer) *TileRenderer {
	return &TileRenderer{
		mesh:   mesh,
		camera: camera,
		hits:   hits,
	}
}

// TileStats counts the pixels traced in a tile
type TileStats struct {
	Pixels    int
	PixelsHit int
}

// RenderTileBounds traces every pixel within the bounds
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle) TileStats {
	stats := TileStats{Pixels: bounds.Dx() * bounds.Dy()}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			triangle := tr.mesh.FirstHit(tr.camera.GetRay(x, y))
			tr.hits.Set(x, y, triangle)
			if triangle >= 0 {
				stats.PixelsHit++
			}
		}
	}

	return stats
}
