package integrator

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along a primary ray
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler) core.Vec3
}

// Termination describes how a traced path ended
type Termination int

const (
	// TerminationMiss means the path escaped to the sky
	TerminationMiss Termination = iota
	// TerminationDepthExhausted means the bounce budget ran out before the path escaped
	TerminationDepthExhausted
	// TerminationAbsorbed means a material absorbed the ray
	TerminationAbsorbed
)

func (t Termination) String() string {
	switch t {
	case TerminationMiss:
		return "miss"
	case TerminationDepthExhausted:
		return "depth-exhausted"
	case TerminationAbsorbed:
		return "absorbed"
	default:
		return "unknown"
	}
}

// PathResult is the outcome of tracing one path
type PathResult struct {
	Color       core.Vec3   // Radiance carried back to the path origin
	Termination Termination // Why the path stopped
	Bounces     int         // Number of successful scatters
}
