package motion

import (
	"errors"
	"fmt"
)

// ErrInvalidElasticity is returned for drag elasticity outside [0, 1].
var ErrInvalidElasticity = errors.New("elasticity must be within [0, 1]")

// GestureSample is one pointer sample together with the geometry of the
// element it is relative to. The view layer reads the geometry and passes it
// in; the engine never queries layout itself. Samples are not retained.
type GestureSample struct {
	// Pointer is the pointer position (clientX, clientY).
	Pointer Vec2
	// Origin is the element's offset position.
	Origin Vec2
	// Extent is the element's width and height.
	Extent Vec2
	// Bounds is the constraint region, if the gesture has one.
	Bounds Box
}

// DragSample is one drag-move event: the movement since the previous event
// and the current pointer position.
type DragSample struct {
	Delta Vec2
	Point Vec2
}

// FollowOffset returns how far the element must move for its centre to sit
// under the pointer: pointer - origin - extent/2. It reports false for
// samples with missing (non-finite) geometry.
func FollowOffset(sample GestureSample) (Vec2, bool) {
	if !sample.Pointer.finite() || !sample.Origin.finite() || !sample.Extent.finite() {
		return Vec2{}, false
	}
	return sample.Pointer.Sub(sample.Origin).Sub(sample.Extent.Scale(0.5)), true
}

// Follower makes an element chase the pointer. Each move event writes the
// follow offset as the target of two springs, so the element trails behind
// with the springs' inertia. Targets are set per input event, not per frame.
type Follower struct {
	x, y *Spring
}

// NewFollower creates a Follower driving the given horizontal and vertical
// springs.
func NewFollower(x, y *Spring) *Follower {
	if x == nil || y == nil {
		panic("motion: NewFollower needs two springs")
	}
	return &Follower{x: x, y: y}
}

// OnMove maps a pointer sample to spring targets. It returns the offset
// written and false if the sample was dropped for missing geometry.
func (f *Follower) OnMove(sample GestureSample) (Vec2, bool) {
	off, ok := FollowOffset(sample)
	if !ok {
		return Vec2{}, false
	}
	f.x.SetTarget(off.X)
	f.y.SetTarget(off.Y)
	return off, true
}

// X returns the horizontal spring.
func (f *Follower) X() *Spring { return f.x }

// Y returns the vertical spring.
func (f *Follower) Y() *Spring { return f.y }

// DragConfig configures a DragMapper.
type DragConfig struct {
	// Elasticity in [0, 1] lets the handle travel past the box edges by at
	// most Elasticity times the box height, with resistance growing the
	// further it goes. Zero pins the handle to the box.
	Elasticity float64
}

// DragResult is the outcome of mapping one drag sample.
type DragResult struct {
	// Progress is the pointer's raw offset from the top of the box.
	Progress float64
	// Offset is where the handle should be drawn: Progress inside the box,
	// rubber-banded outside it.
	Offset float64
	// Output is Progress remapped from [0, height] to [1, 0] and clamped.
	Output float64
}

// MapDrag maps a vertical offset within a box of the given height. The top of
// the box maps to 1 and the bottom to 0, exactly, and values outside the box
// clamp to those ends. Callers must pass a positive height.
func MapDrag(progress, height, elasticity float64) DragResult {
	inside := Clamp(progress, 0, height)
	r := DragResult{
		Progress: progress,
		Offset:   inside,
		Output:   1 - inside/height,
	}
	if inside == height {
		r.Output = 0
	}
	limit := elasticity * height
	switch {
	case progress < 0:
		r.Offset = -rubberBand(-progress, limit)
	case progress > height:
		r.Offset = height + rubberBand(progress-height, limit)
	}
	return r
}

// rubberBand maps an excess distance past an edge to a displayed overshoot.
// It starts out 1:1 and flattens toward limit, which it never reaches.
func rubberBand(excess, limit float64) float64 {
	if limit <= 0 || excess <= 0 {
		return 0
	}
	return limit * excess / (excess + limit)
}

// DragMapper turns vertical drag samples inside a constraint box into a
// spring target, as used by a slider. The mapped value is always written as
// a target and never applied directly, so the visual settles with inertia.
type DragMapper struct {
	target *Spring
	handle *Spring
	cfg    DragConfig

	height float64
	last   DragResult
	active bool
}

// NewDragMapper creates a mapper writing its output to target.
func NewDragMapper(target *Spring, cfg DragConfig) (*DragMapper, error) {
	if target == nil {
		panic("motion: NewDragMapper needs a target spring")
	}
	if !(cfg.Elasticity >= 0 && cfg.Elasticity <= 1) {
		return nil, fmt.Errorf("motion: drag elasticity %v: %w", cfg.Elasticity, ErrInvalidElasticity)
	}
	return &DragMapper{target: target, cfg: cfg}, nil
}

// SetHandle sets an optional spring that receives the handle offset.
func (m *DragMapper) SetHandle(h *Spring) {
	m.handle = h
}

// OnDrag maps a drag sample against the constraint box. A box that has not
// been laid out (zero, negative or non-finite height) or a non-finite pointer
// drops the sample: nothing is written and ok is false.
func (m *DragMapper) OnDrag(sample DragSample, box Box) (DragResult, bool) {
	if !box.laidOut() || !sample.Point.finite() {
		return DragResult{}, false
	}
	r := MapDrag(sample.Point.Y-box.Top, box.Height, m.cfg.Elasticity)
	m.height = box.Height
	m.last = r
	m.active = true
	m.target.SetTarget(r.Output)
	if m.handle != nil {
		m.handle.SetTarget(r.Offset)
	}
	return r, true
}

// OnDragEnd releases the handle: an overshooting handle springs back to the
// nearest box edge. It returns the handle's resting offset.
func (m *DragMapper) OnDragEnd() float64 {
	if !m.active {
		return m.last.Offset
	}
	m.active = false
	rest := Clamp(m.last.Offset, 0, m.height)
	m.last.Offset = rest
	if m.handle != nil {
		m.handle.SetTarget(rest)
	}
	return rest
}

// Last returns the most recent mapping.
func (m *DragMapper) Last() DragResult {
	return m.last
}

// Dragging reports whether a drag is in progress.
func (m *DragMapper) Dragging() bool {
	return m.active
}
