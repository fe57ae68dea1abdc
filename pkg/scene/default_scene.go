package scene

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/geometry"
	"github.com/df07/go-sky-pathtracer/pkg/lights"
	"github.com/df07/go-sky-pathtracer/pkg/material"
)

// NewDefaultScene creates the reference scene: a small diffuse sphere resting on a huge diffuse ground sphere
func NewDefaultScene() *Scene {
	s := NewEmptyScene("default")

	diffuse := material.NewDefaultLambertian()
	mustAdd(s.AddSphere(core.NewVec3(0, 0, -1), 0.5, diffuse))
	mustAdd(s.AddSphere(core.NewVec3(0, -100.5, -1), 100, diffuse))

	return s
}

// NewMetalScene creates a fuzzy metal sphere over a diffuse ground, seen through a 1x1 viewport
func NewMetalScene() *Scene {
	s := NewEmptyScene("metal")

	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.ViewportWidth = 1.0
	cameraConfig.ViewportHeight = 1.0
	s.SetCamera(cameraConfig)

	s.SamplingConfig.SamplesPerPixel = 20
	s.SamplingConfig.MaxDepth = 10

	mustAdd(s.AddSphere(core.NewVec3(0, 0, -1), 0.25, material.NewDefaultMetal(0.2)))
	mustAdd(s.AddSphere(core.NewVec3(0, -100.25, -1), 100, material.NewDefaultLambertian()))

	return s
}

// NewSunsetScene creates the default geometry flanked by two metal spheres under a sky with a sun
func NewSunsetScene() *Scene {
	s := NewEmptyScene("sunset")
	s.Sky = lights.NewSkyWithSun(lights.DefaultSun())
	s.SamplingConfig.SamplesPerPixel = 32
	s.SamplingConfig.MaxDepth = 8

	mustAdd(s.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))))
	mustAdd(s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDefaultMetal(0.0)))
	mustAdd(s.AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)))
	mustAdd(s.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))))

	return s
}

// mustAdd panics on errors that can only come from a broken built-in scene
func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
