package motion

// Readable is anything that can be read as a motion value: a Value or a
// Derived value.
type Readable[T comparable] interface {
	// Get returns the current value.
	Get() T
	// OnChange registers fn to be called with every new value.
	OnChange(fn func(T)) Subscription

	// invalidate registers fn to be called whenever the value may have
	// changed, without computing it. Derived values use this to stay lazy.
	invalidate(fn func()) Subscription
}

// driver is something that writes into a Value every frame: a Spring or a
// Tween. A value has at most one active driver.
type driver interface {
	halt()
}

// Value is a single observable cell. Set notifies listeners synchronously;
// rendering picks the new value up in the next Render phase.
//
// Values are created when a subject mounts and must be destroyed when it
// unmounts. Destroy stops any spring or tween driving the value and drops all
// listeners, so nothing outlives the subject.
type Value[T comparable] struct {
	current   T
	listeners listenerSet[T]
	dirty     listenerSet[struct{}]
	active    driver
	destroyed bool
}

// NewValue creates a Value holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the last value passed to Set.
func (v *Value[T]) Get() T {
	return v.current
}

// Set stores x and notifies listeners. Setting the current value again is a
// no-op, as is setting a destroyed value.
func (v *Value[T]) Set(x T) {
	if v.destroyed || x == v.current {
		return
	}
	v.current = x
	v.dirty.emit(struct{}{})
	v.listeners.emit(x)
}

// OnChange registers fn to be called with each new value.
func (v *Value[T]) OnChange(fn func(T)) Subscription {
	if v.destroyed {
		return Subscription{}
	}
	return v.listeners.add(fn)
}

func (v *Value[T]) invalidate(fn func()) Subscription {
	if v.destroyed {
		return Subscription{}
	}
	return v.dirty.add(func(struct{}) { fn() })
}

// IsAnimating reports whether a spring or tween is currently driving the
// value.
func (v *Value[T]) IsAnimating() bool {
	return v.active != nil
}

// Stop halts whatever spring or tween is driving the value, leaving it at its
// current value.
func (v *Value[T]) Stop() {
	if v.active != nil {
		d := v.active
		v.active = nil
		d.halt()
	}
}

// Destroy stops the value's driver and removes every listener. Calling it
// more than once is harmless.
func (v *Value[T]) Destroy() {
	if v.destroyed {
		return
	}
	v.Stop()
	v.destroyed = true
	v.listeners.clear()
	v.dirty.clear()
}

// Destroyed reports whether Destroy has been called.
func (v *Value[T]) Destroyed() bool {
	return v.destroyed
}

// claim makes d the value's only driver, halting the previous one.
func (v *Value[T]) claim(d driver) {
	if v.active == d {
		return
	}
	v.Stop()
	v.active = d
}

// release forgets d if it is still the active driver.
func (v *Value[T]) release(d driver) {
	if v.active == d {
		v.active = nil
	}
}

// --- Listener bookkeeping ---

type listenerEntry[T any] struct {
	fn      func(T)
	removed bool
}

// listenerSet is an ordered callback list that tolerates callbacks adding or
// removing listeners while it is being emitted. Removal copies the slice so an
// emit in progress keeps iterating the old one; the removed flag keeps a
// dropped listener from firing later in that emit.
type listenerSet[T any] struct {
	entries []*listenerEntry[T]
}

func (s *listenerSet[T]) add(fn func(T)) Subscription {
	if fn == nil {
		panic("motion: nil listener")
	}
	e := &listenerEntry[T]{fn: fn}
	s.entries = append(s.entries, e)
	return Subscription{remove: func() { s.del(e) }}
}

func (s *listenerSet[T]) del(e *listenerEntry[T]) {
	if e.removed {
		return
	}
	e.removed = true
	out := make([]*listenerEntry[T], 0, len(s.entries))
	for _, x := range s.entries {
		if x != e {
			out = append(out, x)
		}
	}
	s.entries = out
}

func (s *listenerSet[T]) emit(x T) {
	for _, e := range s.entries {
		if !e.removed {
			e.fn(x)
		}
	}
}

func (s *listenerSet[T]) clear() {
	for _, e := range s.entries {
		e.removed = true
	}
	s.entries = nil
}

func (s *listenerSet[T]) len() int {
	return len(s.entries)
}
