package motion

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenStatus is the lifecycle state of a Tween.
type TweenStatus uint8

const (
	TweenRunning   TweenStatus = iota // advancing every frame
	TweenStopped                      // halted before reaching its end value
	TweenCompleted                    // reached its end value
)

// String returns the status name.
func (s TweenStatus) String() string {
	switch s {
	case TweenRunning:
		return "running"
	case TweenStopped:
		return "stopped"
	case TweenCompleted:
		return "completed"
	default:
		return fmt.Sprintf("TweenStatus(%d)", uint8(s))
	}
}

// TweenConfig configures a time-based tween.
type TweenConfig struct {
	// Duration is the tween length in seconds. Zero jumps to the end value on
	// the first frame.
	Duration float32
	// Delay holds the value at its start for this many seconds first.
	Delay float32
	// Easing shapes progress. Any gween easing function works; nil uses Ease.
	Easing ease.TweenFunc
}

func (c TweenConfig) validate() error {
	if c.Duration < 0 || !isFinite(float64(c.Duration)) {
		return fmt.Errorf("motion: tween duration %v: %w", c.Duration, ErrInvalidDuration)
	}
	if c.Delay < 0 || !isFinite(float64(c.Delay)) {
		return fmt.Errorf("motion: tween delay %v: %w", c.Delay, ErrInvalidDuration)
	}
	return nil
}

// Tween moves a Value from its current number to a target over a fixed
// duration. It runs in the scheduler's Update phase and removes its
// subscription as soon as it completes or is stopped.
type Tween struct {
	value    *Value[float64]
	from, to float64
	delay    float64
	duration float64

	// curve runs 0 -> 1 over the duration; its output is the eased progress.
	curve   *gween.Tween
	elapsed float64
	eased   float64
	status  TweenStatus

	sub        Subscription
	onComplete []func()
}

// Animate starts a tween of v from its current value to `to`. Any spring or
// tween already driving v is stopped first, so a value never has two drivers.
func Animate(s *Scheduler, v *Value[float64], to float64, cfg TweenConfig) (*Tween, error) {
	if s == nil || v == nil {
		panic("motion: Animate needs a scheduler and a value")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !isFinite(to) {
		return nil, fmt.Errorf("motion: tween target %v: %w", to, ErrInvalidTarget)
	}
	if v.Destroyed() {
		return nil, fmt.Errorf("motion: animate: %w", ErrDestroyed)
	}

	easing := cfg.Easing
	if easing == nil {
		easing = Ease
	}
	tw := &Tween{
		value:    v,
		from:     v.Get(),
		to:       to,
		delay:    float64(cfg.Delay),
		duration: float64(cfg.Duration),
		status:   TweenRunning,
	}
	if cfg.Duration > 0 {
		tw.curve = gween.New(0, 1, cfg.Duration, easing)
	}
	v.claim(tw)
	tw.sub = s.Schedule(PhaseUpdate, tw.tick)
	return tw, nil
}

// AnimateFromTo jumps v to from and then tweens it to `to`.
func AnimateFromTo(s *Scheduler, v *Value[float64], from, to float64, cfg TweenConfig) (*Tween, error) {
	if !isFinite(from) {
		return nil, fmt.Errorf("motion: tween origin %v: %w", from, ErrInvalidTarget)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	v.Stop()
	v.Set(from)
	return Animate(s, v, to, cfg)
}

func (tw *Tween) tick(f Frame) {
	if tw.status != TweenRunning {
		return
	}
	tw.elapsed += f.Delta
	t := tw.elapsed - tw.delay
	if t < 0 {
		return
	}

	finished := true
	tw.eased = 1
	if tw.curve != nil {
		var eased float32
		eased, finished = tw.curve.Set(float32(t))
		tw.eased = float64(eased)
	}
	if finished {
		tw.eased = 1
	}

	tw.value.Set(Lerp(tw.from, tw.to, tw.eased))
	// A listener may have stopped or replaced this tween.
	if tw.status != TweenRunning {
		return
	}
	if finished {
		tw.finish(TweenCompleted)
		for _, fn := range tw.onComplete {
			fn()
		}
		tw.onComplete = nil
	}
}

func (tw *Tween) finish(status TweenStatus) {
	tw.status = status
	tw.sub.Remove()
	tw.value.release(tw)
}

// halt is called by the value when another driver takes over or the value is
// destroyed.
func (tw *Tween) halt() {
	if tw.status != TweenRunning {
		return
	}
	tw.status = TweenStopped
	tw.sub.Remove()
	tw.onComplete = nil
}

// Stop halts the tween at its current interpolated value. It does not snap to
// the end value. Stopping a finished tween is a no-op.
func (tw *Tween) Stop() {
	if tw.status != TweenRunning {
		return
	}
	tw.finish(TweenStopped)
	tw.onComplete = nil
}

// Status returns the tween's lifecycle state.
func (tw *Tween) Status() TweenStatus {
	return tw.status
}

// Done reports whether the tween has completed or been stopped.
func (tw *Tween) Done() bool {
	return tw.status != TweenRunning
}

// Progress returns the eased progress in [0, 1] (outside it for overshooting
// easings such as ease.OutBack).
func (tw *Tween) Progress() float64 {
	return tw.eased
}

// Elapsed returns the seconds the tween has run, including its delay.
func (tw *Tween) Elapsed() float64 {
	return tw.elapsed
}

// OnComplete registers fn to run when the tween reaches its end value. It
// never runs for a stopped tween. Registering on a completed tween runs fn
// immediately.
func (tw *Tween) OnComplete(fn func()) {
	switch tw.status {
	case TweenCompleted:
		fn()
	case TweenRunning:
		tw.onComplete = append(tw.onComplete, fn)
	}
}

// --- Groups ---

// TweenTarget pairs a value with the number it should tween to.
type TweenTarget struct {
	Value *Value[float64]
	To    float64
}

// TweenGroup runs several tweens with a shared configuration and reports
// completion once all of them have finished.
type TweenGroup struct {
	tweens     []*Tween
	remaining  int
	onComplete []func()
}

// AnimateAll starts one tween per target with the same configuration. If any
// target is rejected, the tweens already started are stopped and the error is
// returned.
func AnimateAll(s *Scheduler, targets []TweenTarget, cfg TweenConfig) (*TweenGroup, error) {
	g := &TweenGroup{tweens: make([]*Tween, 0, len(targets))}
	for _, t := range targets {
		tw, err := Animate(s, t.Value, t.To, cfg)
		if err != nil {
			g.Stop()
			return nil, err
		}
		g.tweens = append(g.tweens, tw)
	}
	g.remaining = len(g.tweens)
	for _, tw := range g.tweens {
		tw.OnComplete(g.tweenDone)
	}
	return g, nil
}

func (g *TweenGroup) tweenDone() {
	g.remaining--
	if g.remaining == 0 {
		fns := g.onComplete
		g.onComplete = nil
		for _, fn := range fns {
			fn()
		}
	}
}

// Done reports whether every tween in the group has completed.
func (g *TweenGroup) Done() bool {
	return g.remaining == 0
}

// Stopped reports whether any tween in the group was stopped before
// completing. A stopped group never completes.
func (g *TweenGroup) Stopped() bool {
	for _, tw := range g.tweens {
		if tw.Status() == TweenStopped {
			return true
		}
	}
	return false
}

// Stop halts every tween in the group at its current value.
func (g *TweenGroup) Stop() {
	for _, tw := range g.tweens {
		tw.Stop()
	}
	g.onComplete = nil
}

// OnComplete registers fn to run once every tween in the group completes.
// Registering on a finished group runs fn immediately.
func (g *TweenGroup) OnComplete(fn func()) {
	if g.remaining == 0 {
		fn()
		return
	}
	g.onComplete = append(g.onComplete, fn)
}
