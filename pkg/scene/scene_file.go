package scene

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/geometry"
	"github.com/df07/go-sky-pathtracer/pkg/lights"
	"github.com/df07/go-sky-pathtracer/pkg/material"
)

// SceneFile is the on-disk YAML description of a scene
type SceneFile struct {
	Name     string        `yaml:"name"`
	Camera   *CameraFile   `yaml:"camera"`
	Sky      *SkyFile      `yaml:"sky"`
	Sampling *SamplingFile `yaml:"sampling"`
	Objects  []ObjectFile  `yaml:"objects"`
}

// CameraFile overrides fields of the default camera
type CameraFile struct {
	Origin         *[3]float64 `yaml:"origin"`
	ViewportWidth  float64     `yaml:"viewport_width"`
	ViewportHeight float64     `yaml:"viewport_height"`
	FocalLength    float64     `yaml:"focal_length"`
	Jitter         *float64    `yaml:"jitter"`
}

// SkyFile overrides the background gradient
type SkyFile struct {
	Horizon *[3]float64 `yaml:"horizon"`
	Zenith  *[3]float64 `yaml:"zenith"`
	Sun     bool        `yaml:"sun"`
}

// SamplingFile overrides the default sampling settings
type SamplingFile struct {
	Width           int   `yaml:"width"`
	Height          int   `yaml:"height"`
	SamplesPerPixel int   `yaml:"samples_per_pixel"`
	MaxDepth        *int  `yaml:"max_depth"`
	Seed            int64 `yaml:"seed"`
}

// ObjectFile describes one shape in the world, in order
type ObjectFile struct {
	Shape    string       `yaml:"shape"`
	Center   [3]float64   `yaml:"center"`
	Radius   float64      `yaml:"radius"`
	Material MaterialFile `yaml:"material"`
}

// MaterialFile describes a surface material
type MaterialFile struct {
	Type   string      `yaml:"type"`
	Albedo *[3]float64 `yaml:"albedo"`
	Fuzz   float64     `yaml:"fuzz"`
}

// LoadSceneFile reads and builds a scene from a YAML file
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}
	s, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ParseSceneFile builds a scene from YAML data. Unknown fields are rejected.
func ParseSceneFile(data []byte) (*Scene, error) {
	var file SceneFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return file.Build()
}

// Build converts the file description into a validated scene
func (f *SceneFile) Build() (*Scene, error) {
	s := NewEmptyScene(f.Name)

	if f.Camera != nil {
		s.SetCamera(f.Camera.config())
	}
	if f.Sky != nil {
		s.Sky = f.Sky.sky()
	}
	if f.Sampling != nil {
		f.Sampling.apply(&s.SamplingConfig)
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return nil, err
	}

	for i, obj := range f.Objects {
		if err := obj.addTo(s); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	return s, nil
}

func (c *CameraFile) config() geometry.CameraConfig {
	config := geometry.DefaultCameraConfig()
	if c.Origin != nil {
		config.Origin = vecFrom(*c.Origin)
	}
	if c.ViewportWidth > 0 {
		config.ViewportWidth = c.ViewportWidth
	}
	if c.ViewportHeight > 0 {
		config.ViewportHeight = c.ViewportHeight
	}
	if c.FocalLength > 0 {
		config.FocalLength = c.FocalLength
	}
	if c.Jitter != nil {
		config.Jitter = max(0, *c.Jitter)
	}
	return config
}

func (s *SkyFile) sky() *lights.Sky {
	sky := lights.NewSky()
	if s.Sun {
		sky = lights.NewSkyWithSun(lights.DefaultSun())
	}
	if s.Horizon != nil {
		sky.Horizon = vecFrom(*s.Horizon)
	}
	if s.Zenith != nil {
		sky.Zenith = vecFrom(*s.Zenith)
	}
	return sky
}

func (s *SamplingFile) apply(config *SamplingConfig) {
	if s.Width != 0 {
		config.Width = s.Width
	}
	if s.Height != 0 {
		config.Height = s.Height
	}
	if s.SamplesPerPixel != 0 {
		config.SamplesPerPixel = s.SamplesPerPixel
	}
	if s.MaxDepth != nil {
		config.MaxDepth = *s.MaxDepth
	}
	if s.Seed != 0 {
		config.Seed = s.Seed
	}
}

func (o ObjectFile) addTo(s *Scene) error {
	if o.Shape != "sphere" {
		return fmt.Errorf("%w: unsupported shape %q", ErrInvalidSphere, o.Shape)
	}
	mat, err := o.Material.build()
	if err != nil {
		return err
	}
	return s.AddSphere(vecFrom(o.Center), o.Radius, mat)
}

func (m MaterialFile) build() (material.Material, error) {
	switch m.Type {
	case "diffuse", "lambertian":
		if m.Albedo == nil {
			return material.NewDefaultLambertian(), nil
		}
		return material.NewLambertian(vecFrom(*m.Albedo)), nil
	case "metal":
		if m.Albedo == nil {
			return material.NewDefaultMetal(m.Fuzz), nil
		}
		return material.NewMetal(vecFrom(*m.Albedo), m.Fuzz), nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMaterial, m.Type)
	}
}

func vecFrom(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
