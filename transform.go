package motion

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidRange is returned by MapRange and NewInterpolator for input and
// output ranges that cannot describe a mapping.
var ErrInvalidRange = errors.New("invalid range")

type invalidator interface {
	invalidate(fn func()) Subscription
}

// Derived is a read-only motion value computed from one or more sources.
//
// Evaluation is lazy: a source change only marks the derived value dirty and
// the function runs again on the next Get. When several sources change during
// one input batch the function runs once, at read time. A Derived with its
// own OnChange listeners evaluates on each source change, since that is the
// only way to tell them the new value; they are only notified when the
// result actually differs.
type Derived[T comparable] struct {
	compute   func() T
	cached    T
	dirty     bool
	destroyed bool

	listeners listenerSet[T]
	dirtySubs listenerSet[struct{}]
	sources   []Subscription
}

func newDerived[T comparable](compute func() T, deps ...invalidator) *Derived[T] {
	d := &Derived[T]{compute: compute, dirty: true}
	d.sources = make([]Subscription, 0, len(deps))
	for _, dep := range deps {
		d.sources = append(d.sources, dep.invalidate(d.markDirty))
	}
	return d
}

// Derive creates a Derived value from an arbitrary pure function. deps lists
// every value fn reads; fn is re-evaluated lazily after any of them changes.
func Derive[T comparable](fn func() T, deps ...invalidator) *Derived[T] {
	if fn == nil {
		panic("motion: nil derive function")
	}
	return newDerived(fn, deps...)
}

// Transform derives a value from a single source.
func Transform[S, T comparable](src Readable[S], fn func(S) T) *Derived[T] {
	if fn == nil {
		panic("motion: nil transform function")
	}
	return newDerived(func() T { return fn(src.Get()) }, src)
}

// Combine derives a value from several numeric sources. fn receives the
// sources' current values in order; the slice is reused between calls and
// must not be retained.
func Combine[T comparable](sources []Readable[float64], fn func([]float64) T) *Derived[T] {
	if fn == nil {
		panic("motion: nil combine function")
	}
	srcs := append([]Readable[float64](nil), sources...)
	vals := make([]float64, len(srcs))
	deps := make([]invalidator, len(srcs))
	for i, s := range srcs {
		deps[i] = s
	}
	return newDerived(func() T {
		for i, s := range srcs {
			vals[i] = s.Get()
		}
		return fn(vals)
	}, deps...)
}

// Round derives the nearest integer of src, rounding half away from zero.
func Round(src Readable[float64]) *Derived[int] {
	return Transform(src, func(v float64) int {
		return int(math.Round(v))
	})
}

// MapRange derives a value by mapping src through the piecewise-linear
// function described by input and output. See NewInterpolator.
func MapRange(src Readable[float64], input, output []float64, clamp bool) (*Derived[float64], error) {
	fn, err := NewInterpolator(input, output, clamp)
	if err != nil {
		return nil, err
	}
	return Transform(src, fn), nil
}

// NewInterpolator returns a function mapping input[i] to output[i] with
// linear interpolation between neighbouring stops. input must have at least
// two strictly monotonic stops and the same length as output. Boundary stops
// map exactly. With clamp set, values outside the input range map to the
// nearest output end; otherwise the first or last segment is extrapolated.
func NewInterpolator(input, output []float64, clamp bool) (func(float64) float64, error) {
	if len(input) < 2 || len(input) != len(output) {
		return nil, fmt.Errorf("motion: %d input stops and %d output stops: %w",
			len(input), len(output), ErrInvalidRange)
	}
	in := append([]float64(nil), input...)
	out := append([]float64(nil), output...)
	for _, f := range in {
		if !isFinite(f) {
			return nil, fmt.Errorf("motion: non-finite input stop %v: %w", f, ErrInvalidRange)
		}
	}
	for _, f := range out {
		if !isFinite(f) {
			return nil, fmt.Errorf("motion: non-finite output stop %v: %w", f, ErrInvalidRange)
		}
	}

	// Normalize descending inputs so the search below can assume ascending.
	if in[0] > in[len(in)-1] {
		for i, j := 0, len(in)-1; i < j; i, j = i+1, j-1 {
			in[i], in[j] = in[j], in[i]
			out[i], out[j] = out[j], out[i]
		}
	}
	for i := 1; i < len(in); i++ {
		if in[i] <= in[i-1] {
			return nil, fmt.Errorf("motion: input stops %v are not strictly monotonic: %w", input, ErrInvalidRange)
		}
	}

	last := len(in) - 1
	return func(x float64) float64 {
		if clamp {
			if x <= in[0] {
				return out[0]
			}
			if x >= in[last] {
				return out[last]
			}
		}
		// Index of the segment [in[i], in[i+1]] containing x, clamped to the
		// first or last segment for extrapolation.
		i := sort.SearchFloat64s(in, x) - 1
		if i < 0 {
			i = 0
		}
		if i > last-1 {
			i = last - 1
		}
		if x == in[i+1] {
			return out[i+1]
		}
		return Lerp(out[i], out[i+1], Progress(in[i], in[i+1], x))
	}, nil
}

// Get returns the derived value, evaluating it first if a source changed
// since the last read. After Destroy it returns the last evaluated value.
func (d *Derived[T]) Get() T {
	if d.dirty && !d.destroyed {
		d.cached = d.compute()
		d.dirty = false
	}
	return d.cached
}

// OnChange registers fn to be called whenever the derived value changes.
func (d *Derived[T]) OnChange(fn func(T)) Subscription {
	if d.destroyed {
		return Subscription{}
	}
	d.Get()
	return d.listeners.add(fn)
}

func (d *Derived[T]) invalidate(fn func()) Subscription {
	if d.destroyed {
		return Subscription{}
	}
	return d.dirtySubs.add(func(struct{}) { fn() })
}

func (d *Derived[T]) markDirty() {
	if d.destroyed {
		return
	}
	wasDirty := d.dirty
	d.dirty = true
	if !wasDirty {
		d.dirtySubs.emit(struct{}{})
	}
	if d.listeners.len() > 0 {
		prev := d.cached
		if x := d.Get(); x != prev {
			d.listeners.emit(x)
		}
	}
}

// Destroy detaches the derived value from its sources and drops its
// listeners. Calling it more than once is harmless.
func (d *Derived[T]) Destroy() {
	if d.destroyed {
		return
	}
	d.Get()
	d.destroyed = true
	for _, s := range d.sources {
		s.Remove()
	}
	d.sources = nil
	d.listeners.clear()
	d.dirtySubs.clear()
}
