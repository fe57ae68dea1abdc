package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-sky-pathtracer/pkg/config"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"metal scene", "metal", false},
		{"sunset scene", "sunset", false},

		{"unknown scene", "nonexistent", true},
		{"missing scene file", "scenes/nonexistent.yaml", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Scene = tt.sceneType
			sc, err := createScene(cfg)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, sc)
				return
			}
			require.NoError(t, err)
			assert.Greater(t, sc.SamplingConfig.Width, 0)
			assert.Greater(t, sc.SamplingConfig.Height, 0)
			assert.Greater(t, sc.GetPrimitiveCount(), 0)
		})
	}
}

func TestCreateScene_UnknownIsSentinel(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "nonexistent"
	_, err := createScene(cfg)
	assert.True(t, errors.Is(err, scene.ErrUnknownScene))
}

func TestParseFlags_OnlyExplicitOverrides(t *testing.T) {
	opts, err := parseFlags([]string{"-scene", "metal", "-width", "32", "-jitter", "0", "-format", "PPM"}, &bytes.Buffer{})
	require.NoError(t, err)

	o := opts.overrides
	assert.Equal(t, "metal", o.Scene)
	assert.Equal(t, 32, o.Width)
	assert.Equal(t, 0, o.Height, "unset flags stay zero")
	require.NotNil(t, o.Jitter)
	assert.Equal(t, 0.0, *o.Jitter)
	assert.Equal(t, "ppm", o.Format)

	opts, err = parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Nil(t, opts.overrides.Jitter, "jitter default does not override the scene camera")
}

func TestParseFlags_Help(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-help"}, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, stderr.String(), "Usage")
}

func TestLoadConfig_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte("scene = \"metal\"\nwidth = 100\nsamples = 2\n"), 0644))

	opts, err := parseFlags([]string{"-config", path, "-width", "50"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := loadConfig(opts)
	require.NoError(t, err)
	assert.Equal(t, "metal", cfg.Scene, "file overrides default")
	assert.Equal(t, 50, cfg.Width, "flag overrides file")
	assert.Equal(t, 2, cfg.Samples)
	assert.Equal(t, "png", cfg.Format, "default kept")
}

func TestCreateScene_ZeroDepthFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth = 7\n"), 0644))

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"flag", []string{"-depth", "0"}, 0},
		{"flag over file", []string{"-config", path, "-depth", "0"}, 0},
		{"file", []string{"-config", path}, 7},
		{"scene default", nil, scene.DefaultSamplingConfig().MaxDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, &bytes.Buffer{})
			require.NoError(t, err)
			cfg, err := loadConfig(opts)
			require.NoError(t, err)

			sc, err := createScene(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sc.SamplingConfig.MaxDepth)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	opts, err := parseFlags([]string{"-format", "gif"}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = loadConfig(opts)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRun_WritesImage(t *testing.T) {
	dir := t.TempDir()
	args := []string{
		"-scene", "default",
		"-width", "8", "-height", "6",
		"-samples", "2", "-depth", "3",
		"-passes", "2", "-workers", "2",
		"-output", dir, "-format", "ppm",
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))

	matches, err := filepath.Glob(filepath.Join(dir, "default", "render_*.ppm"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, stdout.String(), matches[0])

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "P3", lines[0])
	assert.Equal(t, "8 6", lines[1])
	assert.Len(t, lines, 3+8*6)
}
