package renderer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

// newTestScene returns the reference scene sized for fast tests
func newTestScene(t *testing.T, width, height, samples int) *scene.Scene {
	t.Helper()
	sc := scene.NewDefaultScene()
	sc.SamplingConfig.Width = width
	sc.SamplingConfig.Height = height
	sc.SamplingConfig.SamplesPerPixel = samples
	sc.SamplingConfig.MaxDepth = 4
	require.NoError(t, sc.SamplingConfig.Validate())
	return sc
}

func discardLogger() core.Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
