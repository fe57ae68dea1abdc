package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

const sampleConfig = `
scene = "metal"
width = 320
height = 180
samples = 64
max_depth = 12
jitter = 0.0
seed = 9
passes = 4
output_dir = "~/renders"
format = "ppm"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "metal", cfg.Scene)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 180, cfg.Height)
	assert.Equal(t, 64, cfg.Samples)
	require.NotNil(t, cfg.MaxDepth)
	assert.Equal(t, 12, *cfg.MaxDepth)
	require.NotNil(t, cfg.Jitter)
	assert.Equal(t, 0.0, *cfg.Jitter)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 4, cfg.Passes)
	assert.Equal(t, "~/renders", cfg.OutputDir)
	assert.Equal(t, "ppm", cfg.Format)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("scene = \"default\"\nsamples_per_pixel = 4\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("width = \"wide\"\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "metal", cfg.Scene)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	jitter := 0.25
	base := Default()
	overrides := Config{Width: 64, Samples: 8, Jitter: &jitter, Format: "ppm"}

	merged, err := Merge(base, overrides)
	require.NoError(t, err)

	assert.Equal(t, "default", merged.Scene, "empty override keeps base")
	assert.Equal(t, 64, merged.Width)
	assert.Equal(t, 0, merged.Height)
	assert.Equal(t, 8, merged.Samples)
	require.NotNil(t, merged.Jitter)
	assert.Equal(t, 0.25, *merged.Jitter)
	assert.Equal(t, "ppm", merged.Format)
	assert.Equal(t, "output", merged.OutputDir)
	assert.Equal(t, 1, merged.Passes)

	// Base is not modified
	assert.Nil(t, base.Jitter)
	assert.Equal(t, "png", base.Format)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	negative := -1.0
	negativeDepth := -1
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty scene", func(c *Config) { c.Scene = "" }},
		{"negative width", func(c *Config) { c.Width = -1 }},
		{"negative samples", func(c *Config) { c.Samples = -3 }},
		{"negative depth", func(c *Config) { c.MaxDepth = &negativeDepth }},
		{"negative jitter", func(c *Config) { c.Jitter = &negative }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"unknown format", func(c *Config) { c.Format = "jpg" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestApply(t *testing.T) {
	jitter := 0.0
	depth := 2
	cfg := Config{Width: 40, Height: 30, Samples: 3, MaxDepth: &depth, Seed: 5, Jitter: &jitter, Sun: true}

	sc := scene.NewDefaultScene()
	require.NoError(t, cfg.Apply(sc))

	assert.Equal(t, 40, sc.SamplingConfig.Width)
	assert.Equal(t, 30, sc.SamplingConfig.Height)
	assert.Equal(t, 3, sc.SamplingConfig.SamplesPerPixel)
	assert.Equal(t, 2, sc.SamplingConfig.MaxDepth)
	assert.Equal(t, int64(5), sc.SamplingConfig.Seed)
	assert.Equal(t, 0.0, sc.CameraConfig.Jitter)
	assert.NotNil(t, sc.Sky.Sun)
}

func TestApply_ZeroDepth(t *testing.T) {
	fileCfg, err := Parse([]byte("max_depth = 0\n"))
	require.NoError(t, err)
	require.NotNil(t, fileCfg.MaxDepth)

	cfg, err := Merge(Default(), fileCfg)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	sc := scene.NewDefaultScene()
	require.NoError(t, cfg.Apply(sc))
	assert.Equal(t, 0, sc.SamplingConfig.MaxDepth)
}

func TestApply_KeepsSceneValues(t *testing.T) {
	sc := scene.NewMetalScene()
	before := sc.SamplingConfig
	jitterBefore := sc.CameraConfig.Jitter

	require.NoError(t, Default().Apply(sc))
	assert.Equal(t, before, sc.SamplingConfig)
	assert.Equal(t, jitterBefore, sc.CameraConfig.Jitter)
	assert.Nil(t, sc.Sky.Sun)
}

func TestProgressiveConfig(t *testing.T) {
	sc := scene.NewDefaultScene()
	cfg := Default()
	cfg.Passes = 0
	cfg.Workers = 3

	pc := cfg.ProgressiveConfig(sc)
	assert.Equal(t, 1, pc.MaxPasses)
	assert.Equal(t, sc.SamplingConfig.SamplesPerPixel, pc.MaxSamplesPerPixel)
	assert.Equal(t, 3, pc.NumWorkers)
	assert.Equal(t, cfg.TileSize, pc.TileSize)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "render.example.toml"))
	require.NoError(t, err)

	merged, err := Merge(Default(), cfg)
	require.NoError(t, err)
	require.NoError(t, merged.Validate())
	assert.Equal(t, "sunset", merged.Scene)
	assert.Equal(t, 4, merged.Passes)
	assert.Equal(t, "~/renders", merged.OutputDir)
}
