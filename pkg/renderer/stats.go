package renderer

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int               // Total number of pixels rendered
	TotalSamples   int               // Total number of samples taken
	AverageSamples float64           // Average samples per pixel
	MaxSamples     int               // Target samples per pixel
	MinSamples     int               // Minimum samples taken per pixel
	MaxSamplesUsed int               // Maximum samples actually used by any pixel
	Terminations   TerminationCounts // How the traced paths ended
	AverageBounces float64           // Mean scatters per path
}

// TerminationCounts tallies path terminations by kind
type TerminationCounts struct {
	Miss           int `json:"miss"`
	DepthExhausted int `json:"depthExhausted"`
	Absorbed       int `json:"absorbed"`
	Bounces        int `json:"bounces"`
}

// Record adds one traced path
func (tc *TerminationCounts) Record(result integrator.PathResult) {
	switch result.Termination {
	case integrator.TerminationMiss:
		tc.Miss++
	case integrator.TerminationDepthExhausted:
		tc.DepthExhausted++
	case integrator.TerminationAbsorbed:
		tc.Absorbed++
	}
	tc.Bounces += result.Bounces
}

// Merge adds the counts from other
func (tc *TerminationCounts) Merge(other TerminationCounts) {
	tc.Miss += other.Miss
	tc.DepthExhausted += other.DepthExhausted
	tc.Absorbed += other.Absorbed
	tc.Bounces += other.Bounces
}

// Total returns the number of recorded paths
func (tc TerminationCounts) Total() int {
	return tc.Miss + tc.DepthExhausted + tc.Absorbed
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel, clamped to [0, 1]
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount)).Clamp(0, 1)
}

// Variance returns the luminance variance of the samples so far
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return max(0, meanSq-mean*mean)
}

// newRenderStats initializes statistics for pixelCount pixels rendered to targetSamples
func newRenderStats(pixelCount, targetSamples int) RenderStats {
	return RenderStats{
		TotalPixels: pixelCount,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}
}

// updateStats updates the render statistics with data from a single pixel
func (rs *RenderStats) updateStats(samplesUsed int) {
	rs.TotalSamples += samplesUsed
	rs.MinSamples = min(rs.MinSamples, samplesUsed)
	rs.MaxSamplesUsed = max(rs.MaxSamplesUsed, samplesUsed)
}

// merge folds a tile's statistics into the pass statistics
func (rs *RenderStats) merge(tile RenderStats) {
	rs.Terminations.Merge(tile.Terminations)
}

// finalize calculates averages after all pixels are rendered
func (rs *RenderStats) finalize() {
	if rs.TotalPixels > 0 {
		rs.AverageSamples = float64(rs.TotalSamples) / float64(rs.TotalPixels)
	}
	if paths := rs.Terminations.Total(); paths > 0 {
		rs.AverageBounces = float64(rs.Terminations.Bounces) / float64(paths)
	}
}
