package material

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
)

// DefaultDiffuseAttenuation is the gray albedo of a plain diffuse surface
const DefaultDiffuseAttenuation = 0.5

// maxDiffuseResamples bounds resampling of degenerate scatter directions
const maxDiffuseResamples = 16

// Lambertian represents a diffuse material
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// NewDefaultLambertian creates the gray diffuse material with DefaultDiffuseAttenuation
func NewDefaultLambertian() *Lambertian {
	a := DefaultDiffuseAttenuation
	return NewLambertian(core.NewVec3(a, a, a))
}

// Scatter implements the Material interface for diffuse scattering.
// The direction is normal + random unit vector, flipped into the normal's hemisphere.
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := hit.Normal
	for i := 0; i < maxDiffuseResamples; i++ {
		candidate := hit.Normal.Add(core.RandomUnitVector(sampler))
		if !candidate.NearZero() {
			direction = candidate
			break
		}
	}

	direction = direction.Normalize()
	if direction.Dot(hit.Normal) < 0 {
		direction = direction.Negate()
	}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo,
	}, true
}
