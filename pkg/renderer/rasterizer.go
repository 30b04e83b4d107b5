package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

// DefaultTileSize is the edge length of the square tiles handed to workers
const DefaultTileSize = 32

// Rasterizer casts one ray per pixel and records the first triangle, in mesh
// index order, that each ray hits. Pixels are traced in parallel tiles; the
// triangle scan for a single pixel is always sequential.
type Rasterizer struct {
	mesh       *geometry.WorldMesh
	camera     *Camera
	numWorkers int
	tileSize   int
	logger     *zap.Logger
}

// NewRasterizer creates a rasterizer for a world mesh seen through camera
func NewRasterizer(mesh *geometry.WorldMesh, camera *Camera, opts RenderOptions) *Rasterizer {
	tileSize := opts.TileSize
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &Rasterizer{
		mesh:       mesh,
		camera:     camera,
		numWorkers: opts.Workers,
		tileSize:   tileSize,
		logger:     opts.logger(),
	}
}

// Trace fills a hit buffer for every pixel of the camera's image. It returns
// once all tiles are done, so the buffer is final when it is returned.
func (r *Rasterizer) Trace(ctx context.Context) (*HitBuffer, RenderStats, error) {
	start := time.Now()
	width, height := r.camera.PixelWidth, r.camera.PixelHeight

	hits := NewHitBuffer(width, height)
	tiles := NewTileGrid(width, height, r.tileSize)

	pool := NewWorkerPool(ctx, NewTileRenderer(r.mesh, r.camera, hits), len(tiles), r.numWorkers)
	pool.Start()
	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: taskID})
	}

	stats := RenderStats{
		Triangles: r.mesh.TriangleCount(),
		Workers:   pool.GetNumWorkers(),
		Tiles:     len(tiles),
	}

	// Wait for every tile so no worker is still writing when we return
	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.addTile(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	stats.TraceTime = time.Since(start)
	r.logger.Debug("trace complete",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("triangles", stats.Triangles),
		zap.Int("tiles", stats.Tiles),
		zap.Int("workers", stats.Workers),
		zap.Int("pixels_hit", stats.PixelsHit),
		zap.Duration("elapsed", stats.TraceTime))

	return hits, stats, nil
}

// Shade converts a hit buffer into an image using one color per triangle.
// Missed pixels get the background color. Ray row y is written to image row
// height-1-y so that the image is upright.
func Shade(hits *HitBuffer, table ColorTable, background color.RGBA) *image.RGBA {
	width, height := hits.Width(), hits.Height()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixelColor := background
			if triangle := hits.At(x, y); triangle != NoHit {
				pixelColor = table[triangle]
			}
			img.SetRGBA(x, height-1-y, pixelColor)
		}
	}

	return img
}
