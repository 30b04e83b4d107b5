package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-resolution-raycaster/pkg/core"
)

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

// axisCamera looks down -Z from the origin with +X right and +Y up
func axisCamera(width, height int) *Camera {
	return &Camera{
		Position:    core.NewVec3(0, 0, 0),
		Forward:     core.NewVec3(0, 0, -1),
		Right:       core.NewVec3(1, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		FOV:         90,
		Near:        1,
		PixelWidth:  width,
		PixelHeight: height,
	}
}

func TestNewCamera_LookAtBasis(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center: core.NewVec3(0, 0, 5),
		LookAt: core.NewVec3(0, 0, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   60,
		Near:   0.3,
		Width:  640,
		Height: 480,
	})

	tests := []struct {
		name     string
		got      core.Vec3
		expected core.Vec3
	}{
		{"forward", camera.Forward, core.NewVec3(0, 0, -1)},
		{"right", camera.Right, core.NewVec3(1, 0, 0)},
		{"up", camera.Up, core.NewVec3(0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if camera.FOV != 60 || camera.Near != 0.3 {
		t.Errorf("Expected FOV 60 and near 0.3, got %g and %g", camera.FOV, camera.Near)
	}
}

func TestNewCamera_OrthonormalWithTiltedUp(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Center: core.NewVec3(3, 2, 1),
		LookAt: core.NewVec3(-1, 0, 4),
		Up:     core.NewVec3(0.2, 1, 0),
		VFov:   45,
		Near:   1,
		Width:  100,
		Height: 100,
	})

	for name, v := range map[string]core.Vec3{"forward": camera.Forward, "right": camera.Right, "up": camera.Up} {
		if math.Abs(v.Length()-1) > 1e-12 {
			t.Errorf("Expected unit %s vector, got length %g", name, v.Length())
		}
	}
	if d := camera.Forward.Dot(camera.Right); math.Abs(d) > 1e-12 {
		t.Errorf("Forward and right not orthogonal: dot %g", d)
	}
	if d := camera.Forward.Dot(camera.Up); math.Abs(d) > 1e-12 {
		t.Errorf("Forward and up not orthogonal: dot %g", d)
	}
	if d := camera.Right.Dot(camera.Up); math.Abs(d) > 1e-12 {
		t.Errorf("Right and up not orthogonal: dot %g", d)
	}
}

func TestCameraExtents(t *testing.T) {
	tests := []struct {
		name       string
		fov, near  float64
		width      int
		height     int
		horizontal float64
		vertical   float64
	}{
		{"square 90", 90, 1, 100, 100, 2, 2},
		{"wide 90", 90, 1, 200, 100, 4, 2},
		{"tall 90 near 0.5", 90, 0.5, 50, 100, 0.5, 1},
		{"60 degrees", 60, 1, 100, 100, 2 * math.Tan(math.Pi/6), 2 * math.Tan(math.Pi/6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := axisCamera(tt.width, tt.height)
			camera.FOV = tt.fov
			camera.Near = tt.near

			h, v := camera.Extents()
			if math.Abs(h-tt.horizontal) > 1e-12 || math.Abs(v-tt.vertical) > 1e-12 {
				t.Errorf("Expected extents (%g, %g), got (%g, %g)", tt.horizontal, tt.vertical, h, v)
			}
		})
	}
}

func TestCameraGetRay(t *testing.T) {
	camera := axisCamera(2, 2)

	tests := []struct {
		x, y      int
		direction core.Vec3
	}{
		{0, 0, core.NewVec3(-1, -1, -1)},
		{1, 0, core.NewVec3(0, -1, -1)},
		{0, 1, core.NewVec3(-1, 0, -1)},
		{1, 1, core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		ray := camera.GetRay(tt.x, tt.y)
		if ray.Origin != camera.Position {
			t.Errorf("Pixel (%d,%d): expected origin %v, got %v", tt.x, tt.y, camera.Position, ray.Origin)
		}
		if !vecNear(ray.Direction, tt.direction, 1e-12) {
			t.Errorf("Pixel (%d,%d): expected direction %v, got %v", tt.x, tt.y, tt.direction, ray.Direction)
		}
	}
}

func TestCameraGetRay_OffsetPosition(t *testing.T) {
	camera := axisCamera(4, 2)
	camera.Position = core.NewVec3(10, -3, 2)

	// Width 4, height 2, FOV 90, near 1: extents are 4 by 2
	ray := camera.GetRay(3, 0)
	expected := core.NewVec3(0.25*4, -0.5*2, -1)

	if ray.Origin != camera.Position {
		t.Errorf("Expected origin %v, got %v", camera.Position, ray.Origin)
	}
	if !vecNear(ray.Direction, expected, 1e-12) {
		t.Errorf("Expected direction %v, got %v", expected, ray.Direction)
	}
}

func TestCameraValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(c *Camera)
		expected error
	}{
		{"valid", func(c *Camera) {}, nil},
		{"zero width", func(c *Camera) { c.PixelWidth = 0 }, ErrInvalidDimensions},
		{"negative height", func(c *Camera) { c.PixelHeight = -1 }, ErrInvalidDimensions},
		{"zero fov", func(c *Camera) { c.FOV = 0 }, ErrInvalidCamera},
		{"straight fov", func(c *Camera) { c.FOV = 180 }, ErrInvalidCamera},
		{"zero near", func(c *Camera) { c.Near = 0 }, ErrInvalidCamera},
		{"degenerate basis", func(c *Camera) { c.Right = core.Vec3{} }, ErrInvalidCamera},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := axisCamera(8, 8)
			tt.modify(camera)

			err := camera.Validate()
			if tt.expected == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}
