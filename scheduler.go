package motion

import (
	"io"
	"log/slog"
	"time"
)

// Frame describes the frame currently being run.
type Frame struct {
	// Number counts frames since the scheduler was created, starting at 1.
	Number uint64
	// Delta is the time covered by this frame in seconds.
	Delta float64
	// Elapsed is the total time covered by all frames so far in seconds.
	Elapsed float64
}

// FrameFunc is a per-frame callback.
type FrameFunc func(f Frame)

// Subscription allows removing a registered callback. Remove is idempotent
// and the zero Subscription is valid.
type Subscription struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires.
func (s Subscription) Remove() {
	if s.remove != nil {
		s.remove()
	}
}

type frameHandler struct {
	id      uint32
	fn      FrameFunc
	once    bool
	removed bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source used by Advance. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets a structured logger for the scheduler and everything built
// on it. Defaults to a logger that discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithDebug enables per-frame timing logs at debug level.
func WithDebug(enabled bool) Option {
	return func(s *Scheduler) {
		s.debug = enabled
	}
}

// WithMaxDelta caps the delta Advance derives from the clock, so a stalled
// host does not produce one enormous step. Zero disables the cap.
func WithMaxDelta(d time.Duration) Option {
	return func(s *Scheduler) {
		s.maxDelta = d.Seconds()
	}
}

// Scheduler runs callbacks once per display refresh in three ordered phases:
// Read, Update and Render. Input sampling happens in Read, springs and tweens
// integrate in Update, and renderers read final values in Render, so no
// Render callback ever sees a half-applied Update.
//
// The scheduler is single-threaded. Host loops call Step with their own frame
// delta (ebiten's fixed TPS, for example) or Advance to derive the delta from
// the configured Clock.
type Scheduler struct {
	clock    Clock
	logger   *slog.Logger
	debug    bool
	maxDelta float64

	running  bool
	inFrame  bool
	lastTick time.Time
	frame    Frame

	phases [numPhases][]*frameHandler
	runBuf []*frameHandler
	nextID uint32
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Logger returns the scheduler's logger.
func (s *Scheduler) Logger() *slog.Logger {
	return s.logger
}

// Start begins accepting frames. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.lastTick = s.clock.Now()
	s.logger.Debug("scheduler started")
}

// Stop halts frame processing. Subscriptions are kept; their owners remove
// them on teardown.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.logger.Debug("scheduler stopped", "frames", s.frame.Number)
}

// Running reports whether the scheduler accepts frames.
func (s *Scheduler) Running() bool {
	return s.running
}

// Schedule registers fn to run in the given phase on every frame until the
// returned Subscription is removed. Callbacks registered while a frame is
// running first fire on the next frame.
func (s *Scheduler) Schedule(phase Phase, fn FrameFunc) Subscription {
	return s.add(phase, fn, false)
}

// Once registers fn to run in the given phase on the next frame only.
func (s *Scheduler) Once(phase Phase, fn FrameFunc) Subscription {
	return s.add(phase, fn, true)
}

func (s *Scheduler) add(phase Phase, fn FrameFunc, once bool) Subscription {
	if phase >= numPhases {
		panic("motion: unknown scheduler phase")
	}
	if fn == nil {
		panic("motion: nil frame callback")
	}
	s.nextID++
	h := &frameHandler{id: s.nextID, fn: fn, once: once}
	s.phases[phase] = append(s.phases[phase], h)
	return Subscription{remove: func() { s.remove(phase, h) }}
}

// remove drops h from its phase. The removed flag stops it from firing later
// in a frame whose snapshot still holds it.
func (s *Scheduler) remove(phase Phase, h *frameHandler) {
	if h.removed {
		return
	}
	h.removed = true
	hs := s.phases[phase]
	for i := range hs {
		if hs[i] == h {
			copy(hs[i:], hs[i+1:])
			hs[len(hs)-1] = nil
			s.phases[phase] = hs[:len(hs)-1]
			return
		}
	}
}

// Advance runs one frame using the time elapsed on the clock since the
// previous Advance (or Start).
func (s *Scheduler) Advance() {
	if !s.running {
		return
	}
	now := s.clock.Now()
	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	if s.maxDelta > 0 && dt > s.maxDelta {
		dt = s.maxDelta
	}
	s.Step(dt)
}

// Step runs one frame covering dt seconds: every Read callback, then every
// Update callback, then every Render callback. Negative deltas are treated as
// zero. Step is a no-op while the scheduler is stopped, and re-entrant calls
// from inside a callback are ignored.
func (s *Scheduler) Step(dt float64) {
	if !s.running {
		return
	}
	if s.inFrame {
		s.logger.Warn("scheduler step called from inside a frame", "frame", s.frame.Number)
		return
	}
	if dt < 0 || !isFinite(dt) {
		dt = 0
	}

	s.inFrame = true
	defer func() { s.inFrame = false }()

	s.frame.Number++
	s.frame.Delta = dt
	s.frame.Elapsed += dt

	var timings frameTimings
	for p := PhaseRead; p < numPhases; p++ {
		var t0 time.Time
		if s.debug {
			t0 = time.Now()
		}
		timings.callbacks[p] = s.runPhase(p)
		if s.debug {
			timings.durations[p] = time.Since(t0)
		}
	}
	if s.debug {
		s.debugLog(timings)
	}
}

func (s *Scheduler) runPhase(p Phase) int {
	hs := s.phases[p]
	if len(hs) == 0 {
		return 0
	}
	s.runBuf = append(s.runBuf[:0], hs...)
	ran := 0
	for i, h := range s.runBuf {
		s.runBuf[i] = nil
		if h.removed {
			continue
		}
		if h.once {
			s.remove(p, h)
		}
		h.fn(s.frame)
		ran++
	}
	s.runBuf = s.runBuf[:0]
	return ran
}

// Stats is a snapshot of scheduler activity.
type Stats struct {
	Running   bool
	Frames    uint64
	LastDelta float64
	Elapsed   float64
	// Subscriptions counts registered callbacks per phase.
	Subscriptions [numPhases]int
}

// Stats returns a snapshot of scheduler activity.
func (s *Scheduler) Stats() Stats {
	st := Stats{
		Running:   s.running,
		Frames:    s.frame.Number,
		LastDelta: s.frame.Delta,
		Elapsed:   s.frame.Elapsed,
	}
	for p := range s.phases {
		st.Subscriptions[p] = len(s.phases[p])
	}
	return st
}
