package motion

import (
	"math"
	"testing"
)

func TestInputQueueDrag(t *testing.T) {
	q := NewInputQueue()
	q.Drag(0, 0, 0, 90, 5)
	if q.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", q.Len())
	}

	tr := NewPointerTracker(nil)
	var ys []float64
	tr.OnDrag(func(e DragEvent) { ys = append(ys, e.Drag.Point.Y) })
	ends := 0
	tr.OnDragEnd(func(DragEvent) { ends++ })

	n := 0
	for q.Drain(tr) {
		n++
	}
	if n != 5 {
		t.Errorf("drained %d events, want 5", n)
	}
	want := []float64{30, 60, 90}
	if len(ys) != len(want) {
		t.Fatalf("drag points = %v, want %v", ys, want)
	}
	for i := range want {
		if math.Abs(ys[i]-want[i]) > 1e-9 {
			t.Errorf("drag point %d = %v, want %v", i, ys[i], want[i])
		}
	}
	if ends != 1 {
		t.Errorf("drag ends = %d, want 1", ends)
	}
}

func TestInputQueueDragMinimumFrames(t *testing.T) {
	q := NewInputQueue()
	q.Drag(0, 0, 10, 10, 0)
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	q.Clear()
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Clear", q.Len())
	}
	if q.Drain(NewPointerTracker(nil)) {
		t.Error("Drain on an empty queue reported an event")
	}
}

func TestInputQueueOneEventPerFrame(t *testing.T) {
	s := newRunningScheduler()
	q := NewInputQueue()
	tr := NewPointerTracker(nil)
	var seen []string
	tr.OnPress(func(PointerEvent) { seen = append(seen, "press") })
	tr.OnMove(func(PointerEvent) { seen = append(seen, "move") })
	tr.OnRelease(func(PointerEvent) { seen = append(seen, "release") })
	q.Bind(s, tr)

	q.Hover(5, 5)
	q.Press(5, 5)
	q.Release(5, 5)

	for i, want := range []int{1, 2, 3} {
		s.Step(frameDt)
		if len(seen) != want {
			t.Fatalf("frame %d: seen = %v", i+1, seen)
		}
	}
	if seen[0] != "move" || seen[1] != "press" || seen[2] != "release" {
		t.Errorf("seen = %v", seen)
	}
}

func TestInputQueueFeedsSpringsSameFrame(t *testing.T) {
	s := newRunningScheduler()
	q := NewInputQueue()
	x, y := NewValue(0.0), NewValue(0.0)
	sx, _ := NewSpring(s, x, DefaultSpring)
	sy, _ := NewSpring(s, y, DefaultSpring)
	tr := NewPointerTracker(nil)
	BindFollower(tr, NewFollower(sx, sy))
	q.Bind(s, tr)

	q.Hover(40, 0)
	s.Step(frameDt)
	// Read runs before Update, so the spring already moved this frame.
	if x.Get() <= 0 {
		t.Errorf("x = %v, want movement in the same frame", x.Get())
	}
}
