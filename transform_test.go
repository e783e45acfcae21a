package motion

import (
	"errors"
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	v := NewValue(49.6)
	r := Round(v)
	if r.Get() != 50 {
		t.Errorf("Round(49.6) = %d, want 50", r.Get())
	}
	v.Set(49.4)
	if r.Get() != 49 {
		t.Errorf("Round(49.4) = %d, want 49", r.Get())
	}
	v.Set(-2.5)
	if r.Get() != -3 {
		t.Errorf("Round(-2.5) = %d, want -3", r.Get())
	}
}

func TestDerivedIsLazy(t *testing.T) {
	a, b := NewValue(1.0), NewValue(2.0)
	computed := 0
	sum := Derive(func() float64 {
		computed++
		return a.Get() + b.Get()
	}, a, b)

	if computed != 0 {
		t.Fatalf("computed %d times before the first read", computed)
	}
	if sum.Get() != 3 {
		t.Errorf("sum = %v, want 3", sum.Get())
	}

	// Several source changes, one evaluation.
	a.Set(10)
	b.Set(20)
	a.Set(11)
	if computed != 1 {
		t.Errorf("computed %d times before the second read, want 1", computed)
	}
	if sum.Get() != 31 {
		t.Errorf("sum = %v, want 31", sum.Get())
	}
	sum.Get()
	if computed != 2 {
		t.Errorf("computed = %d, want 2", computed)
	}
}

func TestDerivedChain(t *testing.T) {
	v := NewValue(2.0)
	double := Transform(v, func(x float64) float64 { return x * 2 })
	plusOne := Transform[float64](double, func(x float64) float64 { return x + 1 })

	if plusOne.Get() != 5 {
		t.Errorf("plusOne = %v, want 5", plusOne.Get())
	}
	v.Set(3)
	if plusOne.Get() != 7 {
		t.Errorf("plusOne = %v, want 7", plusOne.Get())
	}
	// Reading the middle link does not hide changes from the end of the chain.
	v.Set(4)
	double.Get()
	v.Set(5)
	if plusOne.Get() != 11 {
		t.Errorf("plusOne = %v, want 11", plusOne.Get())
	}
}

func TestDerivedOnChangeOnlyOnDifference(t *testing.T) {
	v := NewValue(0.2)
	r := Round(v)
	var got []int
	r.OnChange(func(x int) { got = append(got, x) })

	v.Set(0.3)
	v.Set(0.4)
	v.Set(0.7)
	v.Set(0.9)
	v.Set(1.6)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestCombine(t *testing.T) {
	x, y := NewValue(3.0), NewValue(4.0)
	length := Combine([]Readable[float64]{x, y}, func(v []float64) float64 {
		return math.Hypot(v[0], v[1])
	})
	if length.Get() != 5 {
		t.Errorf("length = %v, want 5", length.Get())
	}
	y.Set(0)
	if length.Get() != 3 {
		t.Errorf("length = %v, want 3", length.Get())
	}
}

func TestMapRange(t *testing.T) {
	v := NewValue(0.0)
	m, err := MapRange(v, []float64{0, 100}, []float64{1, 0}, true)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{100, 0},
		{50, 0.5},
		{-20, 1},
		{150, 0},
	}
	for _, tt := range tests {
		v.Set(tt.in)
		if got := m.Get(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInterpolatorMultiStop(t *testing.T) {
	fn, err := NewInterpolator([]float64{0, 10, 20}, []float64{0, 100, 0}, true)
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct{ in, want float64 }{
		{0, 0}, {5, 50}, {10, 100}, {15, 50}, {20, 0}, {25, 0},
	} {
		if got := fn(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("f(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInterpolatorDescendingInput(t *testing.T) {
	fn, err := NewInterpolator([]float64{1, 0}, []float64{0, 100}, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := fn(1); got != 0 {
		t.Errorf("f(1) = %v, want 0", got)
	}
	if got := fn(0); got != 100 {
		t.Errorf("f(0) = %v, want 100", got)
	}
	if got := fn(0.25); math.Abs(got-75) > 1e-12 {
		t.Errorf("f(0.25) = %v, want 75", got)
	}
}

func TestInterpolatorExtrapolates(t *testing.T) {
	fn, err := NewInterpolator([]float64{0, 1}, []float64{0, 10}, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := fn(2); math.Abs(got-20) > 1e-12 {
		t.Errorf("f(2) = %v, want 20", got)
	}
	if got := fn(-1); math.Abs(got+10) > 1e-12 {
		t.Errorf("f(-1) = %v, want -10", got)
	}
}

func TestInterpolatorErrors(t *testing.T) {
	tests := []struct {
		name    string
		in, out []float64
	}{
		{"one stop", []float64{0}, []float64{0}},
		{"length mismatch", []float64{0, 1}, []float64{0, 1, 2}},
		{"repeated stop", []float64{0, 0}, []float64{0, 1}},
		{"not monotonic", []float64{0, 2, 1}, []float64{0, 1, 2}},
		{"nan input", []float64{0, math.NaN()}, []float64{0, 1}},
		{"inf output", []float64{0, 1}, []float64{0, math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterpolator(tt.in, tt.out, true)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestDerivedDestroy(t *testing.T) {
	v := NewValue(1.0)
	d := Transform(v, func(x float64) float64 { return x * 10 })
	calls := 0
	d.OnChange(func(float64) { calls++ })

	d.Destroy()
	d.Destroy()
	v.Set(2)
	if calls != 0 {
		t.Errorf("destroyed derived notified %d times", calls)
	}
	if d.Get() != 10 {
		t.Errorf("Get() = %v, want the last value 10", d.Get())
	}
	if v.dirty.len() != 0 {
		t.Errorf("derived still attached to its source")
	}
}
