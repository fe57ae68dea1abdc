package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

// DefaultLogger implements core.Logger on top of a structured slog logger
type DefaultLogger struct {
	logger *slog.Logger
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// NewDefaultLogger creates a logger writing through slog.Default()
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{logger: slog.Default()}
}

// NewSlogLogger adapts an existing slog logger
func NewSlogLogger(logger *slog.Logger) core.Logger {
	return &DefaultLogger{logger: logger}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int // Size of each tile
	InitialSamples     int // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int // Maximum total samples per pixel
	MaxPasses          int // Maximum number of passes
	NumWorkers         int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: 16,
		MaxPasses:          4,
		NumWorkers:         0, // Auto-detect CPU count
	}
}

// normalized clamps the config so every pass adds at least one sample
func (c ProgressiveConfig) normalized() ProgressiveConfig {
	if c.TileSize <= 0 {
		c.TileSize = DefaultTileSize
	}
	c.MaxSamplesPerPixel = max(c.MaxSamplesPerPixel, 1)
	c.InitialSamples = max(1, min(c.InitialSamples, c.MaxSamplesPerPixel))
	c.MaxPasses = max(1, min(c.MaxPasses, c.MaxSamplesPerPixel-c.InitialSamples+1))
	return c
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Frame      *Frame
	Stats      RenderStats
	Elapsed    time.Duration
	IsLast     bool
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile           // Tile management, each tile owns its sampler
	currentPass   int               // Progressive state
	pixelStats    [][]PixelStats    // Shared pixel statistics array (global image coordinates)
	terminations  TerminationCounts // Accumulated over all passes
	workerPool    *WorkerPool       // Worker pool for parallel processing
	logger        core.Logger       // Logger for rendering output
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(sc *scene.Scene, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	config = config.normalized()
	if logger == nil {
		logger = NewDefaultLogger()
	}

	tiles := NewTileGrid(width, height, config.TileSize, sc.SamplingConfig.Seed)

	return &ProgressiveRaytracer{
		scene:      sc,
		width:      width,
		height:     height,
		config:     config,
		tiles:      tiles,
		pixelStats: newPixelStats(width, height),
		workerPool: NewWorkerPool(sc, width, height, len(tiles), config.NumWorkers),
		logger:     logger,
	}
}

// Config returns the effective configuration
func (pr *ProgressiveRaytracer) Config() ProgressiveConfig {
	return pr.config
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := max(1, remainingSamples/remainingPasses)

	return min(pr.config.InitialSamples+(passNumber-1)*samplesPerPass, pr.config.MaxSamplesPerPixel)
}

// RenderPass renders a single progressive pass using parallel processing.
// Every pixel is brought up to the pass's target sample count.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int) (*Frame, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	pr.workerPool.Start()

	// Submit tiles until cancelled
	submitted := 0
	for taskID, tile := range pr.tiles {
		if ctx.Err() != nil {
			break
		}
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
		submitted++
	}

	// Wait for every submitted tile, even after a failure, so no worker still writes to pixelStats
	var firstErr error
	passTerminations := TerminationCounts{}
	for i := 0; i < submitted; i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		pr.tiles[result.TaskID].PassesCompleted++
		passTerminations.Merge(result.Stats.Terminations)
	}

	if firstErr != nil {
		return nil, RenderStats{}, fmt.Errorf("pass %d: %w", passNumber, firstErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	pr.terminations.Merge(passTerminations)

	stats := newRenderStats(pr.width*pr.height, targetSamples)
	stats.Terminations = pr.terminations
	frame := assembleFrame(pr.pixelStats, &stats)

	return frame, stats, nil
}

// Close stops the worker pool. Only needed when calling RenderPass directly.
func (pr *ProgressiveRaytracer) Close() {
	pr.workerPool.Stop()
}

// RenderProgressive renders with channel-based communication.
// The pass channel receives one result per completed pass; the error channel receives
// at most one error (including ctx.Err() on cancellation). Both are closed when rendering ends.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)
		renderStart := time.Now()

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check if client disconnected before starting this pass
			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			startTime := time.Now()
			frame, stats, err := pr.RenderPass(ctx, pass)
			if err != nil {
				errChan <- err
				return
			}

			passTime := time.Since(startTime)
			pr.logger.Printf("Pass %d completed in %v (%.1f samples/pixel, %.2f bounces/path, %d misses, %d exhausted, %d absorbed)\n",
				pass, passTime, stats.AverageSamples, stats.AverageBounces,
				stats.Terminations.Miss, stats.Terminations.DepthExhausted, stats.Terminations.Absorbed)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			result := PassResult{
				PassNumber: pass,
				Frame:      frame,
				Stats:      stats,
				Elapsed:    passTime,
				IsLast:     isLast,
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				break
			}
		}

		pr.logger.Printf("Render completed in %v\n", time.Since(renderStart))
	}()

	return passChan, errChan
}
