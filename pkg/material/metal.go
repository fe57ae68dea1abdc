package material

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
)

// DefaultMetalAttenuation is the gray albedo of a plain metal surface
const DefaultMetalAttenuation = 0.8

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material. Fuzz is kept as given; scenes reject values outside [0, 1].
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// NewDefaultMetal creates a gray metal with DefaultMetalAttenuation
func NewDefaultMetal(fuzz float64) *Metal {
	a := DefaultMetalAttenuation
	return NewMetal(core.NewVec3(a, a, a), fuzz)
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	// Calculate perfect reflection direction
	reflected := rayIn.Direction.Normalize().Reflect(hit.Normal)

	// Add fuzziness by perturbing the reflection direction
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))
	}
	reflected = reflected.Normalize()

	// Rays pushed into the surface are absorbed
	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, reflected),
		Attenuation: m.Albedo,
	}, true
}
