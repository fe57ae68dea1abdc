package geometry

import (
	"github.com/df07/go-sky-pathtracer/pkg/core"
	"github.com/df07/go-sky-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// *Sphere is the only implementation.
type Shape interface {
	// Hit returns the closest intersection strictly inside interval, or false.
	// It never mutates shared state; callers reduce candidates themselves.
	Hit(ray core.Ray, interval core.Interval) (*material.HitRecord, bool)
}
