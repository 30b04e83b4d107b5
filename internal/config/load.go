package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Overrides holds command line values. Zero values leave the config unchanged.
type Overrides struct {
	Mesh          string
	Output        string
	Mode          string
	Width         int
	Height        int
	Seed          *int64
	Workers       int
	Texture       string
	TextureWidth  int
	TextureHeight int
	StatsCSV      string
}

// LoadFile loads configuration with priority: defaults < file.
// An empty path returns the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg.resolvePaths(filepath.Dir(path))
	}

	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// resolvePaths makes relative input paths relative to the config file's directory
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Mesh.Path, &c.Resolution.Texture} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// ApplyOverrides applies command line values to the config (highest priority).
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Mesh != "" {
		c.Mesh.Path = o.Mesh
	}
	if o.Output != "" {
		c.Output.Path = o.Output
	}
	if o.Mode != "" {
		c.Mode = o.Mode
	}
	if o.Width > 0 {
		c.Output.Width = o.Width
	}
	if o.Height > 0 {
		c.Output.Height = o.Height
	}
	if o.Seed != nil {
		c.Flat.Seed = *o.Seed
	}
	if o.Workers > 0 {
		c.Render.Workers = o.Workers
	}
	if o.Texture != "" {
		c.Resolution.Texture = o.Texture
	}
	if o.TextureWidth > 0 {
		c.Resolution.TextureWidth = o.TextureWidth
	}
	if o.TextureHeight > 0 {
		c.Resolution.TextureHeight = o.TextureHeight
	}
	if o.StatsCSV != "" {
		c.Resolution.StatsCSV = o.StatsCSV
	}
}
