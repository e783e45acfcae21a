package motion

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Easing curves shape tween progress. Any gween easing function
// (ease.Linear, ease.OutBounce, ease.InOutCubic, ...) can be used directly in
// a TweenConfig; the curves below add the CSS cubic-bezier family.

// Ease is the CSS "ease" curve, the default for tweens without an easing.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn starts slowly and accelerates. Suits subjects leaving the screen.
var EaseIn = CubicBezier(0.42, 0, 1, 1)

// EaseOut starts quickly and decelerates. Suits subjects entering the screen.
var EaseOut = CubicBezier(0, 0, 0.58, 1)

// EaseInOut starts and ends slowly.
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// Linear is ease.Linear, re-exported so callers need not import gween for the
// common case.
var Linear ease.TweenFunc = ease.Linear

// CubicBezier returns an easing function matching CSS cubic-bezier(). The
// parameters define the control points (x1,y1) and (x2,y2); the curve runs
// from (0,0) to (1,1).
func CubicBezier(x1, y1, x2, y2 float64) ease.TweenFunc {
	curve := cubicBezier(x1, y1, x2, y2)
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(curve(float64(t)/float64(d)))
	}
}

// EaseValue evaluates a gween easing function on a normalized progress value,
// returning the eased progress.
func EaseValue(fn ease.TweenFunc, progress float64) float64 {
	if fn == nil {
		return progress
	}
	return float64(fn(float32(progress), 0, 1, 1))
}

// bezierAxis is one coordinate of a cubic bezier from 0 to 1, stored as the
// polynomial a*u^3 + b*u^2 + c*u.
type bezierAxis struct {
	a, b, c float64
}

func newBezierAxis(p1, p2 float64) bezierAxis {
	c := 3 * p1
	b := 3*(p2-p1) - c
	return bezierAxis{a: 1 - c - b, b: b, c: c}
}

func (ax bezierAxis) at(u float64) float64 {
	return ((ax.a*u+ax.b)*u + ax.c) * u
}

func (ax bezierAxis) slope(u float64) float64 {
	return (3*ax.a*u+2*ax.b)*u + ax.c
}

const bezierEpsilon = 1e-7

// solve finds the curve parameter whose coordinate is x. Newton steps are
// tried first; if they stall or leave [0,1] the answer is bracketed by
// bisection.
func (ax bezierAxis) solve(x float64) float64 {
	u := x
	for range 8 {
		err := ax.at(u) - x
		if math.Abs(err) < bezierEpsilon {
			return u
		}
		d := ax.slope(u)
		if math.Abs(d) < bezierEpsilon {
			break
		}
		u -= err / d
		if u < 0 || u > 1 {
			break
		}
	}

	lo, hi := 0.0, 1.0
	for hi-lo > bezierEpsilon {
		u = (lo + hi) / 2
		if ax.at(u) < x {
			lo = u
		} else {
			hi = u
		}
	}
	return (lo + hi) / 2
}

func cubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	xs, ys := newBezierAxis(x1, x2), newBezierAxis(y1, y2)
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		return ys.at(xs.solve(t))
	}
}
