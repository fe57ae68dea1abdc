package geometry

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking down -Z
type CameraConfig struct {
	Origin         core.Vec3 // Pinhole position
	ViewportWidth  float64   // Viewport extent along +X
	ViewportHeight float64   // Viewport extent along +Y
	FocalLength    float64   // Distance from origin to the viewport plane
	Jitter         float64   // Max primary ray offset in pixels (0 = pixel corners, no randomness)
}

// DefaultCameraConfig returns a 2x2 viewport one unit in front of the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		ViewportWidth:  2.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
		Jitter:         0.5,
	}
}

// Camera generates primary rays for rendering
type Camera struct {
	origin     core.Vec3
	start      core.Vec3 // Top-left corner of the viewport
	horizontal core.Vec3
	vertical   core.Vec3
	jitter     float64
}

// NewCamera creates a pinhole camera
func NewCamera(config CameraConfig) *Camera {
	horizontal := core.NewVec3(config.ViewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	forward := core.NewVec3(0, 0, -config.FocalLength)

	start := config.Origin.
		Add(forward).
		Add(vertical.Multiply(0.5)).
		Subtract(horizontal.Multiply(0.5))

	return &Camera{
		origin:     config.Origin,
		start:      start,
		horizontal: horizontal,
		vertical:   vertical,
		jitter:     config.Jitter,
	}
}

// Origin returns the pinhole position
func (c *Camera) Origin() core.Vec3 {
	return c.origin
}

// GetRay generates the primary ray through pixel (col, row) of a width x height image.
// Rows grow downward while the vertical basis points up.
func (c *Camera) GetRay(col, row, width, height int, sampler core.Sampler) core.Ray {
	x, y := float64(col), float64(row)
	if c.jitter > 0 {
		offset := sampler.Get2D()
		x += c.jitter * (2*offset.X - 1)
		y += c.jitter * (2*offset.Y - 1)
	}

	u := x / float64(max(width-1, 1))
	v := y / float64(max(height-1, 1))

	direction := c.start.
		Add(c.horizontal.Multiply(u)).
		Subtract(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction.Normalize())
}
