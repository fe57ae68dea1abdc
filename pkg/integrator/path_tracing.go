package integrator

import (
	"math"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

// PathTracingIntegrator implements recursive unidirectional path tracing.
// Each bounce multiplies the incoming radiance by the material attenuation;
// paths end at the sky, at an absorbing surface, or when depth runs out.
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// MaxDepth returns the bounce budget given to primary rays
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.config.MaxDepth
}

// RayColor computes the color for a single ray, starting with the configured max depth
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.Trace(ray, scene, sampler, pt.config.MaxDepth).Color
}

// Trace follows a ray for at most depth bounces and reports how the path ended
func (pt *PathTracingIntegrator) Trace(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) PathResult {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return PathResult{Termination: TerminationDepthExhausted}
	}

	hit, isHit := scene.World.ClosestHit(ray, pt.tMin(), math.Inf(1))
	if !isHit {
		return PathResult{
			Color:       scene.Background(ray),
			Termination: TerminationMiss,
		}
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return PathResult{Termination: TerminationAbsorbed}
	}

	next := pt.Trace(scatter.Scattered, scene, sampler, depth-1)
	return PathResult{
		Color:       scatter.Attenuation.MultiplyVec(next.Color),
		Termination: next.Termination,
		Bounces:     next.Bounces + 1,
	}
}

func (pt *PathTracingIntegrator) tMin() float64 {
	if pt.config.TMin > 0 {
		return pt.config.TMin
	}
	return core.DefaultTMin
}
