package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/geometry"
	"github.com/df07/go-sky-pathtracer/pkg/material"
	"github.com/df07/go-sky-pathtracer/pkg/renderer"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = colorHex(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = colorHex(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	default:
		properties["type"] = fmt.Sprintf("%T", mat)
		return "unknown", properties
	}
}

// colorHex formats a color with the same 8-bit conversion as rendered frames
func colorHex(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", renderer.ToByte(c.X), renderer.ToByte(c.Y), renderer.ToByte(c.Z))
}

// handleInspect reports what the primary ray through pixel (x, y) hits
func (s *Server) handleInspect(c echo.Context) error {
	values := c.QueryParams()

	sceneID := values.Get("scene")
	if sceneID == "" {
		sceneID = "default"
	}

	width, err := parseIntParam(values, "width", 256, minImageSize, maxImageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	height, err := parseIntParam(values, "height", 256, minImageSize, maxImageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	// Pixel coordinates are integers; a missing value falls back to -1 and is rejected
	x, err := parseIntParam(values, "x", -1, 0, width-1)
	if err != nil || x < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "x must be a pixel column inside the image"})
	}
	y, err := parseIntParam(values, "y", -1, 0, height-1)
	if err != nil || y < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "y must be a pixel row inside the image"})
	}

	sc, err := s.createScene(sceneID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// Inspect the pixel center without jitter
	cameraConfig := sc.CameraConfig
	cameraConfig.Jitter = 0
	camera := geometry.NewCamera(cameraConfig)
	ray := camera.GetRay(x, y, width, height, nil)

	tMin := sc.SamplingConfig.TMin
	if tMin <= 0 {
		tMin = core.DefaultTMin
	}

	hit, ok := sc.World.ClosestHit(ray, tMin, math.Inf(1))
	if !ok {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, properties := extractMaterialInfo(hit.Material)
	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	})
}
