package motion

import "math"

const defaultDragDeadZone = 4.0 // pixels

// Geometry is the layout of the element a gesture is relative to, as read by
// the view layer.
type Geometry struct {
	Origin Vec2
	Extent Vec2
	Bounds Box
}

// Layout supplies element geometry to a PointerTracker. It returns false
// while the element has not been laid out yet.
type Layout interface {
	Geometry() (Geometry, bool)
}

// LayoutFunc adapts a function to the Layout interface.
type LayoutFunc func() (Geometry, bool)

// Geometry calls f.
func (f LayoutFunc) Geometry() (Geometry, bool) { return f() }

// PointerEvent carries one pointer sample.
type PointerEvent struct {
	Sample  GestureSample
	Pressed bool
}

// DragEvent carries one drag sample. Start is where the press began.
type DragEvent struct {
	Sample GestureSample
	Drag   DragSample
	Start  Vec2
}

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
	seen     bool

	// Geometry of the most recent laid-out sample.
	geom    Geometry
	hasGeom bool
}

// PointerTracker turns raw pointer samples (position plus button state) into
// move and drag events. A press only becomes a drag once the pointer has
// moved further than the dead zone.
//
// Every event carries the element geometry read from the tracker's Layout at
// the time of the sample. While the layout reports no geometry, move and drag
// samples are dropped; press state is still tracked so a drag in progress
// resumes cleanly. A drag released while the geometry is missing still ends,
// using the last geometry the tracker saw.
type PointerTracker struct {
	layout   Layout
	deadZone float64
	state    pointerState

	press     listenerSet[PointerEvent]
	release   listenerSet[PointerEvent]
	move      listenerSet[PointerEvent]
	dragStart listenerSet[DragEvent]
	drag      listenerSet[DragEvent]
	dragEnd   listenerSet[DragEvent]
}

// NewPointerTracker creates a tracker reading geometry from layout, which may
// be nil for gestures that need none.
func NewPointerTracker(layout Layout) *PointerTracker {
	return &PointerTracker{layout: layout, deadZone: defaultDragDeadZone}
}

// SetLayout replaces the geometry source.
func (t *PointerTracker) SetLayout(layout Layout) {
	t.layout = layout
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (t *PointerTracker) SetDragDeadZone(pixels float64) {
	t.deadZone = pixels
}

// OnPress registers a callback for pointer presses.
func (t *PointerTracker) OnPress(fn func(PointerEvent)) Subscription {
	return t.press.add(fn)
}

// OnRelease registers a callback for pointer releases.
func (t *PointerTracker) OnRelease(fn func(PointerEvent)) Subscription {
	return t.release.add(fn)
}

// OnMove registers a callback for pointer movement, pressed or not.
func (t *PointerTracker) OnMove(fn func(PointerEvent)) Subscription {
	return t.move.add(fn)
}

// OnDragStart registers a callback fired when movement exceeds the dead zone.
func (t *PointerTracker) OnDragStart(fn func(DragEvent)) Subscription {
	return t.dragStart.add(fn)
}

// OnDrag registers a callback fired for each move while dragging.
func (t *PointerTracker) OnDrag(fn func(DragEvent)) Subscription {
	return t.drag.add(fn)
}

// OnDragEnd registers a callback fired when the pointer is released after
// dragging.
func (t *PointerTracker) OnDragEnd(fn func(DragEvent)) Subscription {
	return t.dragEnd.add(fn)
}

// Dragging reports whether a drag is in progress.
func (t *PointerTracker) Dragging() bool {
	return t.state.dragging
}

func (t *PointerTracker) sample(x, y float64) (GestureSample, bool) {
	s := GestureSample{Pointer: Vec2{x, y}}
	if t.layout == nil {
		return s, true
	}
	g, ok := t.layout.Geometry()
	if !ok {
		return s, false
	}
	t.state.geom, t.state.hasGeom = g, true
	return withGeometry(s, g), true
}

func withGeometry(s GestureSample, g Geometry) GestureSample {
	s.Origin, s.Extent, s.Bounds = g.Origin, g.Extent, g.Bounds
	return s
}

// Process runs the pointer state machine for one raw sample.
func (t *PointerTracker) Process(x, y float64, pressed bool) {
	if !isFinite(x) || !isFinite(y) {
		return
	}
	ps := &t.state
	sample, laid := t.sample(x, y)
	moved := !ps.seen || x != ps.lastX || y != ps.lastY
	ps.seen = true

	switch {
	case pressed && !ps.down:
		// Just pressed.
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		t.press.emit(PointerEvent{Sample: sample, Pressed: true})

	case !pressed && ps.down:
		// Just released.
		if ps.dragging {
			if !laid && ps.hasGeom {
				sample = withGeometry(sample, ps.geom)
			}
			t.dragEnd.emit(t.dragEvent(sample, x-ps.lastX, y-ps.lastY))
		}
		t.release.emit(PointerEvent{Sample: sample})
		ps.down = false
		ps.dragging = false
		ps.lastX, ps.lastY = x, y

	case pressed && ps.down:
		// Held down, possibly moved.
		if !moved {
			return
		}
		dx, dy := x-ps.lastX, y-ps.lastY
		ps.lastX, ps.lastY = x, y
		if !laid {
			return
		}
		t.move.emit(PointerEvent{Sample: sample, Pressed: true})
		if !ps.dragging {
			sx, sy := x-ps.startX, y-ps.startY
			if math.Sqrt(sx*sx+sy*sy) > t.deadZone {
				ps.dragging = true
				t.dragStart.emit(t.dragEvent(sample, sx, sy))
			}
		}
		if ps.dragging {
			t.drag.emit(t.dragEvent(sample, dx, dy))
		}

	default:
		// Hover move.
		if !moved {
			return
		}
		ps.lastX, ps.lastY = x, y
		if laid {
			t.move.emit(PointerEvent{Sample: sample})
		}
	}
}

func (t *PointerTracker) dragEvent(sample GestureSample, dx, dy float64) DragEvent {
	return DragEvent{
		Sample: sample,
		Drag:   DragSample{Delta: Vec2{dx, dy}, Point: sample.Pointer},
		Start:  Vec2{t.state.startX, t.state.startY},
	}
}

// --- Bindings ---

// BindFollower feeds every pointer move on t into f.
func BindFollower(t *PointerTracker, f *Follower) Subscription {
	return t.OnMove(func(e PointerEvent) {
		f.OnMove(e.Sample)
	})
}

// BindDrag feeds drags on t into m, using the sample's Bounds as the
// constraint box, and releases the handle when the drag ends.
func BindDrag(t *PointerTracker, m *DragMapper) Subscription {
	subs := []Subscription{
		t.OnDragStart(func(e DragEvent) { m.OnDrag(e.Drag, e.Sample.Bounds) }),
		t.OnDrag(func(e DragEvent) { m.OnDrag(e.Drag, e.Sample.Bounds) }),
		t.OnDragEnd(func(DragEvent) { m.OnDragEnd() }),
	}
	return Subscription{remove: func() {
		for _, s := range subs {
			s.Remove()
		}
	}}
}
