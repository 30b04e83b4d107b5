package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-resolution-raycaster/pkg/core"
)

// Camera is an immutable snapshot of the viewpoint used for one render.
// Forward, Right and Up are expected to be unit vectors. FOV is the vertical
// field of view in degrees. PixelWidth and PixelHeight only set the aspect ratio.
type Camera struct {
	Position    core.Vec3
	Forward     core.Vec3
	Right       core.Vec3
	Up          core.Vec3
	FOV         float64
	Near        float64
	PixelWidth  int
	PixelHeight int
}

// CameraConfig describes a camera by eye position and look-at target
type CameraConfig struct {
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera looks at
	Up     core.Vec3 // World up direction
	VFov   float64   // Vertical field of view in degrees
	Near   float64   // Near clip distance
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
}

// NewCamera builds an orthonormal camera basis from a look-at configuration
func NewCamera(config CameraConfig) *Camera {
	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	return &Camera{
		Position:    config.Center,
		Forward:     forward,
		Right:       right,
		Up:          up,
		FOV:         config.VFov,
		Near:        config.Near,
		PixelWidth:  config.Width,
		PixelHeight: config.Height,
	}
}

// Validate checks that the camera can generate rays
func (c *Camera) Validate() error {
	if c.PixelWidth <= 0 || c.PixelHeight <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.PixelWidth, c.PixelHeight)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("%w: field of view %g outside (0, 180)", ErrInvalidCamera, c.FOV)
	}
	if c.Near <= 0 {
		return fmt.Errorf("%w: near clip distance %g must be positive", ErrInvalidCamera, c.Near)
	}
	if c.Forward == (core.Vec3{}) || c.Right == (core.Vec3{}) || c.Up == (core.Vec3{}) {
		return fmt.Errorf("%w: degenerate basis", ErrInvalidCamera)
	}
	return nil
}

// Extents returns the width and height of the near plane in world units
func (c *Camera) Extents() (horizontal, vertical float64) {
	vertical = 2 * c.Near * math.Tan(c.FOV*0.5*math.Pi/180)
	horizontal = float64(c.PixelWidth) / float64(c.PixelHeight) * vertical
	return horizontal, vertical
}

// GetRay returns the ray from the camera position through pixel (x, y) on the
// near plane. y grows along Up, so row 0 is the bottom of the view.
// The direction is not normalized.
func (c *Camera) GetRay(x, y int) core.Ray {
	horizontal, vertical := c.Extents()
	width := float64(c.PixelWidth)
	height := float64(c.PixelHeight)

	nearPlaneCenter := c.Position.Add(c.Forward.Multiply(c.Near))
	pixelPoint := nearPlaneCenter.
		Add(c.Right.Multiply((float64(x) - 0.5*width) / width * horizontal)).
		Add(c.Up.Multiply((float64(y) - 0.5*height) / height * vertical))

	return core.NewRay(c.Position, pixelPoint.Subtract(c.Position))
}
