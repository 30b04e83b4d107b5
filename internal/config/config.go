// Package config handles render scene configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Render modes
const (
	ModeFlat       = "flat"
	ModeResolution = "resolution"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all settings of one render.
type Config struct {
	Mesh       MeshConfig       `yaml:"mesh"`
	Transform  TransformConfig  `yaml:"transform"`
	Camera     CameraConfig     `yaml:"camera"`
	Output     OutputConfig     `yaml:"output"`
	Mode       string           `yaml:"mode"` // "flat" or "resolution"
	Flat       FlatConfig       `yaml:"flat"`
	Resolution ResolutionConfig `yaml:"resolution"`
	Render     RenderConfig     `yaml:"render"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// MeshConfig points at the mesh file (.ply or .obj).
type MeshConfig struct {
	Path string `yaml:"path"`
}

// TransformConfig places the mesh in the world. Rotation is in degrees.
type TransformConfig struct {
	Position Vec3 `yaml:"position"`
	Rotation Vec3 `yaml:"rotation"`
	Scale    Vec3 `yaml:"scale"`
}

// CameraConfig holds the viewpoint.
type CameraConfig struct {
	Position Vec3    `yaml:"position"`
	LookAt   Vec3    `yaml:"look_at"`
	Up       Vec3    `yaml:"up"`
	FOV      float64 `yaml:"fov"` // Vertical field of view in degrees
	Near     float64 `yaml:"near"`
}

// OutputConfig holds the output image settings.
type OutputConfig struct {
	Path       string `yaml:"path"` // Format is chosen by extension
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background Color  `yaml:"background"`
}

// FlatConfig holds flat preview settings.
type FlatConfig struct {
	Seed int64 `yaml:"seed"`
}

// ResolutionConfig holds resolution-rate diagnostic settings.
// TextureWidth and TextureHeight are read from Texture when it is set.
type ResolutionConfig struct {
	Texture       string `yaml:"texture"`
	TextureWidth  int    `yaml:"texture_width"`
	TextureHeight int    `yaml:"texture_height"`
	MinColor      Color  `yaml:"min_color"`
	MaxColor      Color  `yaml:"max_color"`
	StatsCSV      string `yaml:"stats_csv"`
}

// RenderConfig holds parallelism settings.
type RenderConfig struct {
	Workers  int `yaml:"workers"`   // 0 = one per CPU
	TileSize int `yaml:"tile_size"` // 0 = renderer default
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Transform: TransformConfig{
			Scale: Vec3{1, 1, 1},
		},
		Camera: CameraConfig{
			Position: Vec3{0, 0, 5},
			LookAt:   Vec3{0, 0, 0},
			Up:       Vec3{0, 1, 0},
			FOV:      60,
			Near:     0.3,
		},
		Output: OutputConfig{
			Path:       "render.png",
			Width:      512,
			Height:     512,
			Background: Color{0, 0, 0, 255},
		},
		Mode: ModeFlat,
		Flat: FlatConfig{
			Seed: 1,
		},
		Resolution: ResolutionConfig{
			MinColor: Color{0, 0, 255, 255},
			MaxColor: Color{255, 0, 0, 255},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings that the renderer cannot recover from
func (c *Config) Validate() error {
	if c.Mesh.Path == "" {
		return fmt.Errorf("%w: mesh path is required", ErrInvalidConfig)
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("%w: output size %dx%d", ErrInvalidConfig, c.Output.Width, c.Output.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera fov %g outside (0, 180)", ErrInvalidConfig, c.Camera.FOV)
	}
	if c.Camera.Near <= 0 {
		return fmt.Errorf("%w: camera near %g must be positive", ErrInvalidConfig, c.Camera.Near)
	}
	if c.Camera.Position == c.Camera.LookAt {
		return fmt.Errorf("%w: camera position and look_at coincide", ErrInvalidConfig)
	}

	switch c.Mode {
	case ModeFlat:
	case ModeResolution:
		if c.Resolution.Texture == "" && (c.Resolution.TextureWidth <= 0 || c.Resolution.TextureHeight <= 0) {
			return fmt.Errorf("%w: resolution mode needs a texture or a positive texture size", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}

	if c.Render.Workers < 0 || c.Render.TileSize < 0 {
		return fmt.Errorf("%w: workers and tile_size must not be negative", ErrInvalidConfig)
	}
	return nil
}
