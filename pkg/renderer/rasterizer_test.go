package renderer

import (
	"context"
	"errors"
	"image/color"
	"math/rand"
	"testing"

	"github.com/df07/go-resolution-raycaster/pkg/core"
	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

// facingTriangle covers the whole 90 degree view of axisCamera at depth z
func facingTriangle(z float64) [3]core.Vec3 {
	s := -z * 20
	return [3]core.Vec3{
		core.NewVec3(-s, -s, z),
		core.NewVec3(s, -s, z),
		core.NewVec3(0, s, z),
	}
}

func TestRasterizer_CornerPixel(t *testing.T) {
	mesh := geometry.NewWorldMesh([][3]core.Vec3{cornerTriangle()}, nil)
	rasterizer := NewRasterizer(mesh, axisCamera(2, 2), RenderOptions{Workers: 2, TileSize: 1})

	hits, stats, err := rasterizer.Trace(context.Background())
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if stats.Pixels != 4 || stats.PixelsHit != 1 || stats.Tiles != 4 || stats.Workers != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	img := Shade(hits, ColorTable{red}, black)

	// Ray (0, 1) is the top row of the image
	expected := [2][2]color.RGBA{
		{red, black},
		{black, black},
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			if got := img.RGBAAt(col, row); got != expected[row][col] {
				t.Errorf("Image pixel (%d,%d): expected %v, got %v", col, row, expected[row][col], got)
			}
		}
	}
}

func TestRasterizer_LowerIndexWins(t *testing.T) {
	tests := []struct {
		name      string
		triangles [][3]core.Vec3
		color     color.RGBA
	}{
		{"far triangle first", [][3]core.Vec3{facingTriangle(-5), facingTriangle(-1)}, red},
		{"near triangle first", [][3]core.Vec3{facingTriangle(-1), facingTriangle(-5)}, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := geometry.NewWorldMesh(tt.triangles, nil)
			rasterizer := NewRasterizer(mesh, axisCamera(4, 3), RenderOptions{})

			hits, _, err := rasterizer.Trace(context.Background())
			if err != nil {
				t.Fatalf("Trace failed: %v", err)
			}

			// Triangle 0 is drawn regardless of depth
			img := Shade(hits, ColorTable{red, green}, black)
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					if got := img.RGBAAt(x, y); got != tt.color {
						t.Errorf("Pixel (%d,%d): expected %v, got %v", x, y, tt.color, got)
					}
				}
			}
		})
	}
}

func TestRasterizer_EmptyMesh(t *testing.T) {
	mesh := geometry.NewWorldMesh(nil, nil)
	rasterizer := NewRasterizer(mesh, axisCamera(3, 3), RenderOptions{})

	hits, stats, err := rasterizer.Trace(context.Background())
	if err != nil {
		t.Fatalf("Trace failed: %v", err)
	}
	if stats.PixelsHit != 0 {
		t.Errorf("Expected no hits, got %d", stats.PixelsHit)
	}

	background := color.RGBA{10, 20, 30, 255}
	img := Shade(hits, nil, background)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := img.RGBAAt(x, y); got != background {
				t.Errorf("Pixel (%d,%d): expected background, got %v", x, y, got)
			}
		}
	}
}

func TestRasterizer_TilingDoesNotChangeResult(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	triangles := make([][3]core.Vec3, 40)
	for i := range triangles {
		center := core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, -2-random.Float64()*4)
		for j := range triangles[i] {
			offset := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5)
			triangles[i][j] = center.Add(offset)
		}
	}
	mesh := geometry.NewWorldMesh(triangles, nil)
	camera := axisCamera(17, 13)

	reference, _, err := NewRasterizer(mesh, camera, RenderOptions{Workers: 1, TileSize: 64}).Trace(context.Background())
	if err != nil {
		t.Fatalf("Reference trace failed: %v", err)
	}

	configs := []RenderOptions{
		{Workers: 1, TileSize: 1},
		{Workers: 4, TileSize: 5},
		{Workers: 3, TileSize: 32},
		{Workers: 0, TileSize: 0},
	}
	for _, opts := range configs {
		hits, stats, err := NewRasterizer(mesh, camera, opts).Trace(context.Background())
		if err != nil {
			t.Fatalf("Trace with %+v failed: %v", opts, err)
		}
		if stats.Pixels != 17*13 {
			t.Errorf("Options %+v: expected %d pixels, got %d", opts, 17*13, stats.Pixels)
		}
		for y := 0; y < 13; y++ {
			for x := 0; x < 17; x++ {
				if hits.At(x, y) != reference.At(x, y) {
					t.Errorf("Options %+v: pixel (%d,%d) hit %d, expected %d", opts, x, y, hits.At(x, y), reference.At(x, y))
				}
			}
		}
	}
}

func TestRasterizer_Cancelled(t *testing.T) {
	mesh := geometry.NewWorldMesh([][3]core.Vec3{facingTriangle(-1)}, nil)
	rasterizer := NewRasterizer(mesh, axisCamera(64, 64), RenderOptions{Workers: 2, TileSize: 8})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hits, _, err := rasterizer.Trace(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if hits != nil {
		t.Error("Expected no hit buffer from a cancelled trace")
	}
}
