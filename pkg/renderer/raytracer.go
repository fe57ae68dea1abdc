package renderer

import (
	"context"
	"fmt"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/integrator"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

// DefaultTileSize is the edge length of a render tile in pixels
const DefaultTileSize = 32

// Raytracer renders a scene single-threaded, one tile after another
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	config     scene.SamplingConfig
	integrator *integrator.PathTracingIntegrator
	tileSize   int
}

// NewRaytracer creates a new raytracer using the scene's sampling config
func NewRaytracer(sc *scene.Scene, width, height int) *Raytracer {
	rt := &Raytracer{
		scene:    sc,
		width:    width,
		height:   height,
		tileSize: DefaultTileSize,
	}
	rt.SetSamplingConfig(sc.SamplingConfig)
	return rt
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config scene.SamplingConfig) {
	rt.config = config
	rt.integrator = integrator.NewPathTracingIntegrator(config)
}

// SetTileSize changes the tile edge length used to split the random streams
func (rt *Raytracer) SetTileSize(tileSize int) {
	if tileSize > 0 {
		rt.tileSize = tileSize
	}
}

// RenderPixel averages SamplesPerPixel traced samples through pixel (col, row) and clamps the result
func (rt *Raytracer) RenderPixel(col, row int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	for ps.SampleCount < rt.config.SamplesPerPixel {
		ray := rt.scene.Camera.GetRay(col, row, rt.width, rt.height, sampler)
		ps.AddSample(rt.integrator.RayColor(ray, rt.scene, sampler))
	}
	return ps.GetColor()
}

// RenderPass renders every pixel to SamplesPerPixel and returns the frame.
// Tiles and their seeds match the parallel renderer, so both produce the same image.
func (rt *Raytracer) RenderPass(ctx context.Context) (*Frame, RenderStats, error) {
	if rt.width <= 0 || rt.height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("%w: image size %dx%d", scene.ErrInvalidSampling, rt.width, rt.height)
	}

	tileRenderer := NewTileRenderer(rt.scene, rt.integrator, rt.width, rt.height)
	pixelStats := newPixelStats(rt.width, rt.height)
	stats := newRenderStats(rt.width*rt.height, rt.config.SamplesPerPixel)

	for _, tile := range NewTileGrid(rt.width, rt.height, rt.tileSize, rt.config.Seed) {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, err
		}
		stats.merge(tileRenderer.RenderTileBounds(tile.Bounds, pixelStats, tile.Sampler, rt.config.SamplesPerPixel))
	}

	frame := assembleFrame(pixelStats, &stats)
	return frame, stats, nil
}

// assembleFrame averages the accumulated samples into a frame and completes the sample statistics
func assembleFrame(pixelStats [][]PixelStats, stats *RenderStats) *Frame {
	height := len(pixelStats)
	width := 0
	if height > 0 {
		width = len(pixelStats[0])
	}

	frame := NewFrame(width, height)
	stats.TotalPixels = width * height
	stats.TotalSamples = 0
	stats.MinSamples = stats.MaxSamples
	stats.MaxSamplesUsed = 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := &pixelStats[y][x]
			frame.Set(x, y, pixel.GetColor())
			stats.updateStats(pixel.SampleCount)
		}
	}

	stats.finalize()
	return frame
}
