package core

import "math"

// DefaultTMin keeps scattered rays from re-hitting the surface they leave
const DefaultTMin = 0.001

// Interval is the open parameter window (Min, Max) in which an intersection is accepted
type Interval struct {
	Min float64
	Max float64
}

// NewInterval creates an interval over (tMin, tMax)
func NewInterval(tMin, tMax float64) Interval {
	return Interval{Min: tMin, Max: tMax}
}

// DefaultInterval returns (DefaultTMin, +Inf), the window every closest-hit query starts from
func DefaultInterval() Interval {
	return Interval{Min: DefaultTMin, Max: math.Inf(1)}
}

// Contains reports whether t lies strictly inside the interval
func (i Interval) Contains(t float64) bool {
	return i.Min < t && t < i.Max
}

// Narrow returns the interval with Max lowered to t. Max never grows.
func (i Interval) Narrow(t float64) Interval {
	if t < i.Max {
		i.Max = t
	}
	return i
}

// IsEmpty reports whether no parameter can satisfy the interval
func (i Interval) IsEmpty() bool {
	return !(i.Min < i.Max)
}
