package motion

// rawPointerEvent is one queued pointer sample.
type rawPointerEvent struct {
	x, y    float64
	pressed bool
}

// InputQueue buffers raw pointer samples produced outside the frame loop (an
// OS event callback, a script, a test) until the next Read phase. Events are
// consumed one per frame, so a press, each move and the release land on
// separate frames the way real input does.
//
// The queue is not safe for concurrent use; feed it from the goroutine that
// drives the scheduler.
type InputQueue struct {
	events []rawPointerEvent
}

// NewInputQueue returns an empty queue.
func NewInputQueue() *InputQueue {
	return &InputQueue{}
}

// Press queues a pointer press at (x, y).
func (q *InputQueue) Press(x, y float64) {
	q.events = append(q.events, rawPointerEvent{x: x, y: y, pressed: true})
}

// Move queues a pointer move to (x, y) with the button held down. Use it
// between Press and Release to build a drag.
func (q *InputQueue) Move(x, y float64) {
	q.events = append(q.events, rawPointerEvent{x: x, y: y, pressed: true})
}

// Hover queues a pointer move to (x, y) with no button held.
func (q *InputQueue) Hover(x, y float64) {
	q.events = append(q.events, rawPointerEvent{x: x, y: y})
}

// Release queues a pointer release at (x, y).
func (q *InputQueue) Release(x, y float64) {
	q.events = append(q.events, rawPointerEvent{x: x, y: y})
}

// Drag queues a full drag: a press at (fromX, fromY), frames-2 evenly spaced
// moves ending on (toX, toY), and a release there. The sequence consumes `frames` frames;
// fewer than 2 is raised to 2.
func (q *InputQueue) Drag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	q.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		q.Move(Lerp(fromX, toX, t), Lerp(fromY, toY, t))
	}
	q.Release(toX, toY)
}

// Len returns the number of events still queued.
func (q *InputQueue) Len() int {
	return len(q.events)
}

// Clear drops every queued event.
func (q *InputQueue) Clear() {
	q.events = q.events[:0]
}

// Drain pops one event and feeds it to t. It reports whether an event was
// consumed, so a host can fall back to live input when the queue is empty.
func (q *InputQueue) Drain(t *PointerTracker) bool {
	if len(q.events) == 0 {
		return false
	}
	evt := q.events[0]
	copy(q.events, q.events[1:])
	q.events = q.events[:len(q.events)-1]
	t.Process(evt.x, evt.y, evt.pressed)
	return true
}

// Bind drains q into t at the start of every frame's Read phase, before any
// spring integrates.
func (q *InputQueue) Bind(s *Scheduler, t *PointerTracker) Subscription {
	return s.Schedule(PhaseRead, func(Frame) {
		q.Drain(t)
	})
}
