package motion

import (
	"fmt"
	"log/slog"
)

// PresenceState is a subject's place in the mount/unmount lifecycle.
type PresenceState uint8

const (
	PresenceEntering PresenceState = iota // mounted, animating toward the animate pose
	PresencePresent                       // at rest on the animate pose
	PresenceExiting                       // still rendered, animating toward the exit pose
	PresenceRemoved                       // gone from the render set, values destroyed
)

// String returns the state name.
func (s PresenceState) String() string {
	switch s {
	case PresenceEntering:
		return "entering"
	case PresencePresent:
		return "present"
	case PresenceExiting:
		return "exiting"
	case PresenceRemoved:
		return "removed"
	default:
		return fmt.Sprintf("PresenceState(%d)", uint8(s))
	}
}

// DefaultPresenceTransition is a short ease-out used when a PresenceConfig
// leaves its transitions to the caller's defaults.
var DefaultPresenceTransition = TweenConfig{Duration: 0.3, Easing: EaseOut}

// PresenceConfig describes how subjects enter and leave.
type PresenceConfig struct {
	// Initial is the pose a subject mounts with.
	Initial Pose
	// Animate is the pose a subject settles on while present.
	Animate Pose
	// Exit is the pose a subject animates to before it is removed.
	Exit Pose
	// Enter times the Initial -> Animate transition.
	Enter TweenConfig
	// Leave times the transition to Exit.
	Leave TweenConfig
}

func (c PresenceConfig) validate() error {
	for _, p := range [...]Pose{c.Initial, c.Animate, c.Exit} {
		if !p.valid() {
			return fmt.Errorf("motion: presence pose %+v: %w", p, ErrInvalidPose)
		}
	}
	if err := c.Enter.validate(); err != nil {
		return err
	}
	return c.Leave.validate()
}

// PresenceEvent records one state transition. From is PresenceRemoved for a
// fresh mount.
type PresenceEvent struct {
	ID   string
	From PresenceState
	To   PresenceState
}

// PresenceStore receives every presence transition, for example to mirror
// subjects into an entity store.
type PresenceStore interface {
	EmitPresence(e PresenceEvent)
}

// PresenceOption configures a Presence.
type PresenceOption func(*Presence)

// WithPresenceStore forwards every transition to store.
func WithPresenceStore(store PresenceStore) PresenceOption {
	return func(p *Presence) {
		p.store = store
	}
}

// Subject is one mounted element under presence control. Its values are
// owned by the Presence and destroyed when the subject is removed.
type Subject struct {
	ID      string
	X       *Value[float64]
	Y       *Value[float64]
	Scale   *Value[float64]
	Rotate  *Value[float64]
	Opacity *Value[float64]

	state PresenceState
	group *TweenGroup
}

func newSubject(id string, pose Pose) *Subject {
	return &Subject{
		ID:      id,
		X:       NewValue(pose.X),
		Y:       NewValue(pose.Y),
		Scale:   NewValue(pose.Scale),
		Rotate:  NewValue(pose.Rotate),
		Opacity: NewValue(pose.Opacity),
	}
}

// State returns the subject's lifecycle state.
func (s *Subject) State() PresenceState {
	return s.state
}

// Pose returns the subject's current values.
func (s *Subject) Pose() Pose {
	return Pose{
		X:       s.X.Get(),
		Y:       s.Y.Get(),
		Scale:   s.Scale.Get(),
		Rotate:  s.Rotate.Get(),
		Opacity: s.Opacity.Get(),
	}
}

func (s *Subject) targets(p Pose) []TweenTarget {
	return []TweenTarget{
		{Value: s.X, To: p.X},
		{Value: s.Y, To: p.Y},
		{Value: s.Scale, To: p.Scale},
		{Value: s.Rotate, To: p.Rotate},
		{Value: s.Opacity, To: p.Opacity},
	}
}

func (s *Subject) destroy() {
	if s.group != nil {
		s.group.Stop()
		s.group = nil
	}
	s.X.Destroy()
	s.Y.Destroy()
	s.Scale.Destroy()
	s.Rotate.Destroy()
	s.Opacity.Destroy()
}

// Presence keeps exiting subjects rendered until their exit animation
// finishes. Showing a subject mounts it at the Initial pose and animates to
// Animate; hiding it animates to Exit and only then removes it. Showing a
// subject again while it exits reverses it from wherever it is.
type Presence struct {
	sched  *Scheduler
	cfg    PresenceConfig
	logger *slog.Logger
	store  PresenceStore

	subjects  map[string]*Subject
	order     []*Subject
	listeners listenerSet[PresenceEvent]
	destroyed bool
}

// NewPresence creates a presence controller animating subjects on s.
func NewPresence(s *Scheduler, cfg PresenceConfig, opts ...PresenceOption) (*Presence, error) {
	if s == nil {
		panic("motion: NewPresence needs a scheduler")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := &Presence{
		sched:    s,
		cfg:      cfg,
		logger:   s.Logger().With("component", "presence"),
		subjects: make(map[string]*Subject),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// SetVisible requests that the subject with the given id be shown or hidden.
// Requests matching the subject's current direction are ignored.
func (p *Presence) SetVisible(id string, visible bool) {
	if p.destroyed {
		return
	}
	sub := p.subjects[id]
	if visible {
		switch {
		case sub == nil:
			p.mount(id)
		case sub.state == PresenceExiting:
			p.enter(sub)
		}
		return
	}
	if sub != nil && sub.state != PresenceExiting {
		p.exit(sub)
	}
}

// Toggle flips the requested visibility of id.
func (p *Presence) Toggle(id string) {
	p.SetVisible(id, !p.Visible(id))
}

// Visible reports whether id is mounted and not on its way out.
func (p *Presence) Visible(id string) bool {
	sub := p.subjects[id]
	return sub != nil && sub.state != PresenceExiting
}

func (p *Presence) mount(id string) {
	sub := newSubject(id, p.cfg.Initial)
	sub.state = PresenceRemoved
	p.subjects[id] = sub
	p.order = append(p.order, sub)
	p.enter(sub)
}

func (p *Presence) enter(sub *Subject) {
	p.transition(sub, PresenceEntering)
	p.play(sub, p.cfg.Animate, p.cfg.Enter, func() {
		p.transition(sub, PresencePresent)
	})
}

func (p *Presence) exit(sub *Subject) {
	p.transition(sub, PresenceExiting)
	p.play(sub, p.cfg.Exit, p.cfg.Leave, func() {
		p.remove(sub)
	})
}

// play replaces the subject's running animation with one toward pose.
func (p *Presence) play(sub *Subject, pose Pose, cfg TweenConfig, done func()) {
	if sub.group != nil {
		sub.group.Stop()
	}
	g, err := AnimateAll(p.sched, sub.targets(pose), cfg)
	if err != nil {
		// Poses and timings were validated up front and the values are live,
		// so this only fires on a broken invariant.
		p.logger.Error("presence animation rejected", "id", sub.ID, "err", err)
		sub.group = nil
		return
	}
	sub.group = g
	g.OnComplete(func() {
		if sub.group != g {
			return
		}
		sub.group = nil
		done()
	})
}

func (p *Presence) remove(sub *Subject) {
	delete(p.subjects, sub.ID)
	for i, s := range p.order {
		if s == sub {
			copy(p.order[i:], p.order[i+1:])
			p.order[len(p.order)-1] = nil
			p.order = p.order[:len(p.order)-1]
			break
		}
	}
	sub.destroy()
	p.transition(sub, PresenceRemoved)
}

func (p *Presence) transition(sub *Subject, to PresenceState) {
	from := sub.state
	sub.state = to
	e := PresenceEvent{ID: sub.ID, From: from, To: to}
	p.logger.Debug("presence transition", "id", sub.ID, "from", from, "to", to)
	if p.store != nil {
		p.store.EmitPresence(e)
	}
	p.listeners.emit(e)
}

// Subject returns the mounted subject with the given id, or nil.
func (p *Presence) Subject(id string) *Subject {
	return p.subjects[id]
}

// Subjects returns the render set in mount order. Exiting subjects are
// included until their exit completes. The slice is a copy.
func (p *Presence) Subjects() []*Subject {
	out := make([]*Subject, len(p.order))
	copy(out, p.order)
	return out
}

// State returns the lifecycle state of id. Subjects that are not mounted
// report PresenceRemoved.
func (p *Presence) State(id string) PresenceState {
	if sub := p.subjects[id]; sub != nil {
		return sub.state
	}
	return PresenceRemoved
}

// OnStateChange registers fn to be called on every transition.
func (p *Presence) OnStateChange(fn func(PresenceEvent)) Subscription {
	if p.destroyed {
		return Subscription{}
	}
	return p.listeners.add(fn)
}

// Destroy tears down every subject without playing exit animations, reports
// each one as removed, then drops all listeners. Calling it more than once is
// harmless.
func (p *Presence) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	for _, sub := range p.order {
		sub.destroy()
		p.transition(sub, PresenceRemoved)
	}
	p.order = nil
	clear(p.subjects)
	p.listeners.clear()
}
