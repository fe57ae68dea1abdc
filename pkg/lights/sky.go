package lights

import (
	"math"

	"github.com/df07/go-sky-pathtracer/pkg/core"
)

// Sun is a directional highlight added on top of the sky gradient
type Sun struct {
	Direction core.Vec3 // Unit vector towards the sun
	Color     core.Vec3 // Warm tint
	Exponent  float64   // Sharpness of the highlight
	Intensity float64   // Scale applied before clamping
}

// DefaultSun returns a sharp, very bright sun up and behind the camera's view axis
func DefaultSun() *Sun {
	return &Sun{
		Direction: core.NewVec3(0, 1, 1).Normalize(),
		Color:     core.NewVec3(1.0, 0.95, 0.8),
		Exponent:  200,
		Intensity: 100000,
	}
}

// Radiance returns the sun contribution for a unit direction
func (s *Sun) Radiance(direction core.Vec3) core.Vec3 {
	cosTheta := math.Max(0, direction.Dot(s.Direction))
	return s.Color.Multiply(math.Pow(cosTheta, s.Exponent) * s.Intensity)
}

// Sky maps ray directions to a background color: a vertical gradient from the
// horizon color (straight down) to the zenith color (straight up), plus an optional sun.
type Sky struct {
	Horizon core.Vec3
	Zenith  core.Vec3
	Sun     *Sun // nil disables the sun term
}

// NewSky creates the white-to-blue sky without a sun
func NewSky() *Sky {
	return &Sky{
		Horizon: core.NewVec3(1.0, 1.0, 1.0),
		Zenith:  core.NewVec3(0.5, 0.7, 1.0),
	}
}

// NewSkyWithSun creates the default sky with a sun term
func NewSkyWithSun(sun *Sun) *Sky {
	sky := NewSky()
	sky.Sun = sun
	return sky
}

// Color returns the background color for a direction, each channel in [0, 1]
func (s *Sky) Color(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Map Y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)
	color := s.Horizon.Lerp(s.Zenith, t)

	if s.Sun != nil {
		color = color.Add(s.Sun.Radiance(unitDirection))
	}
	return color.Clamp(0, 1)
}

// Emit returns the background color seen along a ray that escapes the scene
func (s *Sky) Emit(ray core.Ray) core.Vec3 {
	return s.Color(ray.Direction)
}
