package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	// Test the sample calculation logic without creating a full raytracer
	config := DefaultProgressiveConfig()
	config.InitialSamples = 1
	config.MaxSamplesPerPixel = 50
	config.MaxPasses = 7

	pr := &ProgressiveRaytracer{
		config: config.normalized(),
	}

	// Pass 1: 1 sample
	// Pass 2-6: (50-1)/6 = 8.16 -> 8 samples per pass -> 1 + 8*1 = 9, 1 + 8*2 = 17, etc.
	// Pass 7: 50 (final pass gets all remaining)
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}

	for pass := 1; pass <= 7; pass++ {
		totalSamples := pr.getSamplesForPass(pass)

		if totalSamples != expectedTotalSamples[pass-1] {
			t.Errorf("Pass %d: expected %d total samples, got %d",
				pass, expectedTotalSamples[pass-1], totalSamples)
		}
	}
}

func TestProgressiveSingle(t *testing.T) {
	pr := &ProgressiveRaytracer{
		config: ProgressiveConfig{InitialSamples: 1, MaxSamplesPerPixel: 12, MaxPasses: 1}.normalized(),
	}
	assert.Equal(t, 12, pr.getSamplesForPass(1))
}

func TestProgressiveConfig(t *testing.T) {
	config := DefaultProgressiveConfig()

	assert.Equal(t, DefaultTileSize, config.TileSize)
	assert.Equal(t, 1, config.InitialSamples)
	assert.Equal(t, 16, config.MaxSamplesPerPixel)
	assert.Equal(t, 4, config.MaxPasses)
	assert.Equal(t, 0, config.NumWorkers)
}

func TestProgressiveConfig_Normalized(t *testing.T) {
	tests := []struct {
		name     string
		config   ProgressiveConfig
		expected ProgressiveConfig
	}{
		{
			name:     "more passes than samples",
			config:   ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 3, MaxPasses: 10},
			expected: ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 3, MaxPasses: 3},
		},
		{
			name:     "zero values",
			config:   ProgressiveConfig{},
			expected: ProgressiveConfig{TileSize: DefaultTileSize, InitialSamples: 1, MaxSamplesPerPixel: 1, MaxPasses: 1},
		},
		{
			name:     "initial above max",
			config:   ProgressiveConfig{TileSize: 16, InitialSamples: 9, MaxSamplesPerPixel: 4, MaxPasses: 2},
			expected: ProgressiveConfig{TileSize: 16, InitialSamples: 4, MaxSamplesPerPixel: 4, MaxPasses: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.normalized())
		})
	}
}

func TestRenderProgressive_Passes(t *testing.T) {
	sc := newTestScene(t, 24, 16, 6)
	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 6, MaxPasses: 3, NumWorkers: 4}
	pr := NewProgressiveRaytracer(sc, 24, 16, config, discardLogger())

	passChan, errChan := pr.RenderProgressive(context.Background())

	var results []PassResult
	for result := range passChan {
		results = append(results, result)
	}
	for err := range errChan {
		require.NoError(t, err)
	}

	require.Len(t, results, 3)
	expectedSamples := []int{1, 3, 6}
	for i, result := range results {
		assert.Equal(t, i+1, result.PassNumber)
		assert.Equal(t, expectedSamples[i], result.Stats.MinSamples, "pass %d", i+1)
		assert.Equal(t, expectedSamples[i], result.Stats.MaxSamplesUsed, "pass %d", i+1)
		assert.Equal(t, 24*16*expectedSamples[i], result.Stats.Terminations.Total(), "termination counts accumulate across passes")
		assert.Equal(t, i == 2, result.IsLast)
		assert.Equal(t, 24, result.Frame.Width)
	}
}

func TestRenderProgressive_SinglePassMatchesRaytracer(t *testing.T) {
	sc := newTestScene(t, 20, 12, 3)

	rt := NewRaytracer(sc, 20, 12)
	rt.SetTileSize(8)
	expected, _, err := rt.RenderPass(context.Background())
	require.NoError(t, err)

	config := ProgressiveConfig{TileSize: 8, InitialSamples: 1, MaxSamplesPerPixel: 3, MaxPasses: 1, NumWorkers: 3}
	pr := NewProgressiveRaytracer(sc, 20, 12, config, discardLogger())
	defer pr.Close()

	frame, stats, err := pr.RenderPass(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stats.AverageSamples)
	assert.Equal(t, expected.Pixels, frame.Pixels, "worker count must not change the image")
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	sc := newTestScene(t, 16, 16, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr := NewProgressiveRaytracer(sc, 16, 16, DefaultProgressiveConfig(), discardLogger())
	passChan, errChan := pr.RenderProgressive(ctx)

	for range passChan {
		t.Error("no pass expected after cancellation")
	}
	err := <-errChan
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
