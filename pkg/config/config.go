// Package config loads render settings from TOML files and command-line overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-sky-pathtracer/pkg/lights"
	"github.com/df07/go-sky-pathtracer/pkg/renderer"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

// ErrInvalidConfig is returned when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Config holds render settings. Zero-valued sampling fields and nil pointers defer to the scene.
type Config struct {
	Scene     string   `toml:"scene"`      // Built-in scene name or YAML scene file
	Width     int      `toml:"width"`      // Image width in pixels
	Height    int      `toml:"height"`     // Image height in pixels
	Samples   int      `toml:"samples"`    // Samples per pixel
	MaxDepth  *int     `toml:"max_depth"`  // Maximum bounces per path, nil keeps the scene value, 0 renders black
	Jitter    *float64 `toml:"jitter"`     // Primary ray jitter in pixels, nil keeps the scene camera
	Seed      int64    `toml:"seed"`       // Base seed for tile samplers
	Sun       bool     `toml:"sun"`        // Add the sun term to the sky
	Passes    int      `toml:"passes"`     // Progressive passes
	TileSize  int      `toml:"tile_size"`  // Tile edge in pixels
	Workers   int      `toml:"workers"`    // Parallel workers, 0 = logical CPU count
	OutputDir string   `toml:"output_dir"` // Root directory for renders, ~ is expanded
	Format    string   `toml:"format"`     // "png" or "ppm"
}

// Default returns the settings used when neither a file nor flags provide a value
func Default() Config {
	return Config{
		Scene:     "default",
		Passes:    1,
		TileSize:  renderer.DefaultTileSize,
		OutputDir: "output",
		Format:    "png",
	}
}

// Load reads a TOML config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strictErr.String())
		}
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Merge overlays the non-zero fields of overrides onto base
func Merge(base, overrides Config) (Config, error) {
	merged := base
	if err := copier.CopyWithOption(&merged, &overrides, copier.Option{IgnoreEmpty: true}); err != nil {
		return Config{}, fmt.Errorf("failed to merge config: %w", err)
	}
	return merged, nil
}

// Validate checks ranges and the output format
func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("%w: scene is required", ErrInvalidConfig)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Samples < 0:
		return fmt.Errorf("%w: samples %d", ErrInvalidConfig, c.Samples)
	case c.MaxDepth != nil && *c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, *c.MaxDepth)
	case c.Jitter != nil && *c.Jitter < 0:
		return fmt.Errorf("%w: jitter %g", ErrInvalidConfig, *c.Jitter)
	case c.Passes < 0 || c.TileSize < 0 || c.Workers < 0:
		return fmt.Errorf("%w: passes %d, tile size %d, workers %d", ErrInvalidConfig, c.Passes, c.TileSize, c.Workers)
	case c.Format != "png" && c.Format != "ppm":
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}

// Apply writes the set fields into the scene and validates the result
func (c Config) Apply(sc *scene.Scene) error {
	sampling := &sc.SamplingConfig
	if c.Width > 0 {
		sampling.Width = c.Width
	}
	if c.Height > 0 {
		sampling.Height = c.Height
	}
	if c.Samples > 0 {
		sampling.SamplesPerPixel = c.Samples
	}
	if c.MaxDepth != nil {
		sampling.MaxDepth = *c.MaxDepth
	}
	if c.Seed != 0 {
		sampling.Seed = c.Seed
	}
	if c.Jitter != nil {
		camera := sc.CameraConfig
		camera.Jitter = *c.Jitter
		sc.SetCamera(camera)
	}
	if c.Sun && sc.Sky.Sun == nil {
		sc.Sky.Sun = lights.DefaultSun()
	}
	return sampling.Validate()
}

// ProgressiveConfig returns the renderer settings for a scene that already has the config applied
func (c Config) ProgressiveConfig(sc *scene.Scene) renderer.ProgressiveConfig {
	return renderer.ProgressiveConfig{
		TileSize:           c.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: sc.SamplingConfig.SamplesPerPixel,
		MaxPasses:          max(c.Passes, 1),
		NumWorkers:         c.Workers,
	}
}
