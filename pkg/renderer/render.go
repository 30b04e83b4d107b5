package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

// RenderOptions configures the pixel loop shared by both render modes
type RenderOptions struct {
	Width      int         // Output width in pixels
	Height     int         // Output height in pixels
	Background color.RGBA  // Color of pixels that hit no triangle
	Workers    int         // Number of parallel workers (0 = use CPU count)
	TileSize   int         // Tile edge length in pixels (0 = DefaultTileSize)
	Logger     *zap.Logger // Optional logger; nil disables logging
}

func (o RenderOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// FlatOptions configures a flat-shaded preview render
type FlatOptions struct {
	RenderOptions
	Seed int64 // Seed for the per-triangle random colors
}

// ResolutionOptions configures a resolution-rate diagnostic render
type ResolutionOptions struct {
	RenderOptions
	TextureWidth  int        // Texture width in texels
	TextureHeight int        // Texture height in texels
	MinColor      color.RGBA // Color for normalized rate 0
	MaxColor      color.RGBA // Color for normalized rate 1
}

// RenderFlat renders the mesh with one random color per triangle.
// Each pixel takes the color of the first triangle, in index order, its ray hits.
func RenderFlat(ctx context.Context, mesh *geometry.Mesh, transform geometry.Transform, camera *Camera, opts FlatOptions) (*image.RGBA, RenderStats, error) {
	start := time.Now()

	snapshot, err := prepareRender(mesh, camera, opts.RenderOptions)
	if err != nil {
		return nil, RenderStats{}, err
	}
	logger := opts.logger()

	world := mesh.ToWorld(transform)
	table := RandomColorTable(world.TriangleCount(), rand.New(rand.NewSource(opts.Seed)))

	rasterizer := NewRasterizer(world, snapshot, opts.RenderOptions)
	hits, stats, err := rasterizer.Trace(ctx)
	if err != nil {
		return nil, RenderStats{}, err
	}
	stats.countTrianglesHit(hits.Counts(world.TriangleCount()))

	img := Shade(hits, table, opts.Background)
	stats.TotalTime = time.Since(start)

	logger.Info("flat render complete",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("triangles", stats.Triangles),
		zap.Int("triangles_hit", stats.TrianglesHit),
		zap.Duration("elapsed", stats.TotalTime))

	return img, stats, nil
}

// RenderResolutionRate renders the mesh colored by how many texels each
// triangle spends per screen pixel. The normalization pass finishes before any
// pixel is colored.
func RenderResolutionRate(ctx context.Context, mesh *geometry.Mesh, transform geometry.Transform, camera *Camera, opts ResolutionOptions) (*image.RGBA, *ResolutionStats, RenderStats, error) {
	start := time.Now()

	snapshot, err := prepareRender(mesh, camera, opts.RenderOptions)
	if err != nil {
		return nil, nil, RenderStats{}, err
	}
	if !mesh.HasTexCoords() {
		return nil, nil, RenderStats{}, fmt.Errorf("%w: %d texture coordinates for %d vertices",
			ErrMissingTexCoords, len(mesh.TexCoords), len(mesh.Vertices))
	}
	if opts.TextureWidth <= 0 || opts.TextureHeight <= 0 {
		return nil, nil, RenderStats{}, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, opts.TextureWidth, opts.TextureHeight)
	}
	logger := opts.logger()

	world := mesh.ToWorld(transform)
	analyzer := NewResolutionAnalyzer(world, NewRasterizer(world, snapshot, opts.RenderOptions))

	resolution, hits, stats, err := analyzer.Analyze(ctx, opts.TextureWidth, opts.TextureHeight)
	if err != nil {
		return nil, nil, RenderStats{}, err
	}

	table := GradientColorTable(resolution, opts.MinColor, opts.MaxColor)
	img := Shade(hits, table, opts.Background)
	stats.TotalTime = time.Since(start)

	logger.Info("resolution render complete",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("texture_width", opts.TextureWidth),
		zap.Int("texture_height", opts.TextureHeight),
		zap.Int("triangles", stats.Triangles),
		zap.Int("triangles_hit", stats.TrianglesHit),
		zap.Duration("elapsed", stats.TotalTime))

	return img, resolution, stats, nil
}

// prepareRender fails fast on configuration errors and returns the camera
// snapshot used for the render, sized to the output dimensions.
func prepareRender(mesh *geometry.Mesh, camera *Camera, opts RenderOptions) (*Camera, error) {
	if mesh == nil {
		return nil, ErrNoMesh
	}
	if camera == nil {
		return nil, ErrNoCamera
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, opts.Width, opts.Height)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh: %w", err)
	}

	snapshot := *camera
	snapshot.PixelWidth = opts.Width
	snapshot.PixelHeight = opts.Height
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
