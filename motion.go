package motion

import (
	"errors"
	"math"
)

// Vec2 is a 2D vector used for pointer positions, element origins, extents,
// and follow offsets throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// finite reports whether both components are real numbers.
func (v Vec2) finite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Box is an axis-aligned constraint region as reported by the layout
// collaborator. The coordinate system has its origin at the top-left, with Y
// increasing downward.
type Box struct {
	Top, Left, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the box.
// Points on the edge are considered inside.
func (b Box) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Left+b.Width &&
		y >= b.Top && y <= b.Top+b.Height
}

// laidOut reports whether the box carries usable geometry: finite coordinates
// and a positive height.
func (b Box) laidOut() bool {
	return isFinite(b.Top) && isFinite(b.Left) && isFinite(b.Width) &&
		isFinite(b.Height) && b.Height > 0
}

// Phase identifies one of the ordered sub-phases of a scheduler frame.
type Phase uint8

const (
	PhaseRead   Phase = iota // sample external state: queued input, geometry
	PhaseUpdate              // integrate springs and tweens, publish values
	PhaseRender              // read final values and apply them
	numPhases
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRead:
		return "read"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	default:
		return "unknown"
	}
}

// Configuration errors. Constructors wrap these with the offending value;
// test for them with errors.Is.
var (
	ErrInvalidStiffness = errors.New("stiffness must be positive")
	ErrInvalidDamping   = errors.New("damping must not be negative")
	ErrInvalidMass      = errors.New("mass must be positive")
	ErrInvalidRestDelta = errors.New("rest delta must be positive")
	ErrInvalidDuration  = errors.New("duration must not be negative")
	ErrInvalidTarget    = errors.New("target must be finite")
	ErrInvalidPose      = errors.New("pose values must be finite")
	ErrDestroyed        = errors.New("value destroyed")
)

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b. t=0 returns exactly a and t=1
// returns exactly b.
func Lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}

// Progress returns where v sits between from and to as a fraction. A zero
// span returns 0 rather than NaN.
func Progress(from, to, v float64) float64 {
	span := to - from
	if span == 0 {
		return 0
	}
	return (v - from) / span
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
