package geometry

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/material"
)

// World is an ordered, read-only-while-rendering collection of shapes
type World struct {
	Shapes []Shape
}

// NewWorld creates a world from shapes in order
func NewWorld(shapes ...Shape) *World {
	return &World{Shapes: shapes}
}

// Add appends a shape. Not safe during rendering.
func (w *World) Add(shape Shape) {
	w.Shapes = append(w.Shapes, shape)
}

// Len returns the number of shapes
func (w *World) Len() int {
	return len(w.Shapes)
}

// ClosestHit returns the intersection with the smallest t in (tMin, tMax) over all shapes.
// Every query starts from a fresh interval; shapes are reduced by minimum t, and the
// window shrinks as closer candidates are found so farther shapes are rejected early.
func (w *World) ClosestHit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	interval := core.NewInterval(tMin, tMax)

	var closest *material.HitRecord
	for _, shape := range w.Shapes {
		hit, isHit := shape.Hit(ray, interval)
		if !isHit {
			continue
		}
		if closest == nil || hit.T < closest.T {
			closest = hit
			interval = interval.Narrow(hit.T)
		}
	}

	return closest, closest != nil
}

