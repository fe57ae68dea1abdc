package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/geometry"
	"github.com/df07/go-sky-pathtracer/pkg/lights"
	"github.com/df07/go-sky-pathtracer/pkg/material"
)

var (
	// ErrUnknownScene is returned when a scene name or file cannot be resolved
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidSphere is returned for spheres with non-positive radius
	ErrInvalidSphere = errors.New("invalid sphere")
	// ErrInvalidMaterial is returned for unknown material kinds or out-of-range parameters
	ErrInvalidMaterial = errors.New("invalid material")
	// ErrInvalidSampling is returned for non-positive image sizes, sample counts or depths
	ErrInvalidSampling = errors.New("invalid sampling config")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.World // Objects in the scene, read-only while rendering
	Sky            *lights.Sky     // Background for rays that escape
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int     // Image width
	Height          int     // Image height
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
	TMin            float64 // Closest accepted intersection, avoids self-hits
	Seed            int64   // Base seed for per-tile random streams
}

// DefaultSamplingConfig returns the reference render settings
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           256,
		Height:          256,
		SamplesPerPixel: 16,
		MaxDepth:        5,
		TMin:            core.DefaultTMin,
		Seed:            42,
	}
}

// Validate rejects configurations that cannot produce an image
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidSampling, c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidSampling, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidSampling, c.MaxDepth)
	case c.TMin < 0:
		return fmt.Errorf("%w: tMin %g", ErrInvalidSampling, c.TMin)
	}
	return nil
}

// NewEmptyScene creates a scene with the default camera, sky and sampling settings
func NewEmptyScene(name string) *Scene {
	cameraConfig := geometry.DefaultCameraConfig()
	return &Scene{
		Name:           name,
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		World:          geometry.NewWorld(),
		Sky:            lights.NewSky(),
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// AddSphere validates and appends a sphere to the world
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) error {
	if !(radius > 0) {
		return fmt.Errorf("%w: radius %g at %v", ErrInvalidSphere, radius, center)
	}
	if mat == nil {
		return fmt.Errorf("%w: sphere at %v has no material", ErrInvalidMaterial, center)
	}
	if m, ok := mat.(*material.Metal); ok && (m.Fuzz < 0 || m.Fuzz > 1) {
		return fmt.Errorf("%w: fuzz %g outside [0,1]", ErrInvalidMaterial, m.Fuzz)
	}
	s.World.Add(geometry.NewSphere(center, radius, mat))
	return nil
}

// SetCamera replaces the camera configuration
func (s *Scene) SetCamera(config geometry.CameraConfig) {
	s.CameraConfig = config
	s.Camera = geometry.NewCamera(config)
}

// Background returns the sky color for a ray that hit nothing
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	return s.Sky.Emit(ray)
}

// GetPrimitiveCount returns the number of shapes in the world
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Len()
}
