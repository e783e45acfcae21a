package motion

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	defaultMass      = 1.0
	defaultRestDelta = 0.01
)

// SpringConfig holds the physical parameters of a spring.
//
// The same integrator serves "snap into place" (high stiffness, high damping)
// and "floaty follow" (low stiffness, low damping) profiles; the damping ratio
// c/(2*sqrt(k*m)) decides whether the motion is under-, critically or
// over-damped.
type SpringConfig struct {
	// Stiffness is the spring constant k. Must be positive.
	Stiffness float64
	// Damping is the friction coefficient c. Must not be negative. A spring
	// with zero damping oscillates forever and never settles.
	Damping float64
	// Mass of the animated value. Zero means 1.
	Mass float64
	// RestDelta is the distance and speed below which the spring counts as
	// settled. Zero means 0.01.
	RestDelta float64
}

// Spring presets.
var (
	// DefaultSpring is a general-purpose, slightly bouncy spring.
	DefaultSpring = SpringConfig{Stiffness: 100, Damping: 10}
	// SnapSpring settles quickly with no visible overshoot.
	SnapSpring = SpringConfig{Stiffness: 700, Damping: 60}
	// FollowSpring lags and sways behind its target; used for
	// pointer-following.
	FollowSpring = SpringConfig{Stiffness: 50, Damping: 3, RestDelta: 0.001}
)

// withDefaults fills zero optional fields.
func (c SpringConfig) withDefaults() SpringConfig {
	if c.Mass == 0 {
		c.Mass = defaultMass
	}
	if c.RestDelta == 0 {
		c.RestDelta = defaultRestDelta
	}
	return c
}

// Validate reports the first out-of-range parameter.
func (c SpringConfig) Validate() error {
	if !(c.Stiffness > 0) || math.IsInf(c.Stiffness, 0) {
		return fmt.Errorf("motion: spring stiffness %v: %w", c.Stiffness, ErrInvalidStiffness)
	}
	if !(c.Damping >= 0) || math.IsInf(c.Damping, 0) {
		return fmt.Errorf("motion: spring damping %v: %w", c.Damping, ErrInvalidDamping)
	}
	if !(c.Mass >= 0) || math.IsInf(c.Mass, 0) {
		return fmt.Errorf("motion: spring mass %v: %w", c.Mass, ErrInvalidMass)
	}
	if !(c.RestDelta >= 0) || math.IsInf(c.RestDelta, 0) {
		return fmt.Errorf("motion: spring rest delta %v: %w", c.RestDelta, ErrInvalidRestDelta)
	}
	return nil
}

// Spring animates a Value toward a target with a damped harmonic
// oscillator. Each step uses harmonica's closed-form solution, which stays
// stable for any frame delta.
//
// A spring is only subscribed to the scheduler while it is moving. Once the
// value and its velocity fall below RestDelta the value snaps to the target,
// the subscription is removed, and the spring does no further work until the
// next SetTarget.
type Spring struct {
	sched *Scheduler
	value *Value[float64]
	cfg   SpringConfig

	omega float64 // angular frequency sqrt(k/m)
	zeta  float64 // damping ratio c/(2*sqrt(k*m))

	velocity float64
	target   float64
	settled  bool

	// coeff caches harmonica's coefficients for coeffDt.
	coeff   harmonica.Spring
	coeffDt float64

	sub       Subscription
	running   bool
	destroyed bool
	onSettle  listenerSet[float64]
}

// NewSpring attaches a spring to v. The spring starts settled with its target
// at v's current value.
func NewSpring(s *Scheduler, v *Value[float64], cfg SpringConfig) (*Spring, error) {
	if s == nil || v == nil {
		panic("motion: NewSpring needs a scheduler and a value")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if v.Destroyed() {
		return nil, fmt.Errorf("motion: new spring: %w", ErrDestroyed)
	}
	cfg = cfg.withDefaults()
	sqrtKM := math.Sqrt(cfg.Stiffness * cfg.Mass)
	return &Spring{
		sched:   s,
		value:   v,
		cfg:     cfg,
		omega:   math.Sqrt(cfg.Stiffness / cfg.Mass),
		zeta:    cfg.Damping / (2 * sqrtKM),
		target:  v.Get(),
		settled: true,
	}, nil
}

// Value returns the value the spring drives.
func (sp *Spring) Value() *Value[float64] {
	return sp.value
}

// Config returns the spring's parameters with defaults applied.
func (sp *Spring) Config() SpringConfig {
	return sp.cfg
}

// SetTarget moves the spring's rest point. Velocity is kept, so redirecting a
// moving spring stays smooth. Non-finite targets are ignored.
func (sp *Spring) SetTarget(target float64) {
	if sp.destroyed || sp.value.Destroyed() || !isFinite(target) {
		return
	}
	sp.target = target
	if sp.settled && target == sp.value.Get() && sp.velocity == 0 {
		return
	}
	sp.settled = false
	sp.value.claim(sp)
	sp.resume()
}

// SetVelocity replaces the spring's velocity, for example with a fling
// velocity at the end of a drag, and wakes the spring.
func (sp *Spring) SetVelocity(v float64) {
	if sp.destroyed || sp.value.Destroyed() || !isFinite(v) {
		return
	}
	sp.velocity = v
	if v != 0 {
		sp.settled = false
		sp.value.claim(sp)
		sp.resume()
	}
}

// Jump sets the value and target to x with zero velocity, leaving the spring
// settled. Any other driver of the value is stopped first.
func (sp *Spring) Jump(x float64) {
	if sp.destroyed || !isFinite(x) {
		return
	}
	sp.target = x
	sp.velocity = 0
	sp.value.claim(sp)
	sp.settle()
	sp.value.Set(x)
}

func (sp *Spring) resume() {
	if sp.running {
		return
	}
	sp.running = true
	sp.sub = sp.sched.Schedule(PhaseUpdate, sp.tick)
}

func (sp *Spring) settle() {
	sp.settled = true
	if sp.running {
		sp.running = false
		sp.sub.Remove()
	}
	sp.value.release(sp)
}

func (sp *Spring) tick(f Frame) {
	sp.Tick(f.Delta)
}

// Tick advances the spring by dt seconds and reports whether it has settled.
// A non-positive dt is a no-op, as is ticking a settled spring.
func (sp *Spring) Tick(dt float64) bool {
	if sp.destroyed || sp.settled || !(dt > 0) || math.IsInf(dt, 0) {
		return sp.settled
	}
	if sp.value.Destroyed() {
		sp.Destroy()
		return true
	}
	if dt != sp.coeffDt {
		sp.coeff = harmonica.NewSpring(dt, sp.omega, sp.zeta)
		sp.coeffDt = dt
	}

	pos, vel := sp.coeff.Update(sp.value.Get(), sp.velocity, sp.target)
	sp.velocity = vel
	rest := sp.cfg.RestDelta
	if math.Abs(sp.target-pos) < rest && math.Abs(vel) < rest {
		pos = sp.target
		sp.velocity = 0
		sp.settle()
		sp.value.Set(pos)
		sp.onSettle.emit(pos)
		return true
	}
	sp.value.Set(pos)
	return false
}

// halt is called by the value when a tween takes over or the value is
// destroyed. The spring stops where it is; SetTarget wakes it again.
func (sp *Spring) halt() {
	sp.velocity = 0
	sp.settled = true
	if sp.running {
		sp.running = false
		sp.sub.Remove()
	}
}

// Stop halts the spring at its current value and drops its velocity.
func (sp *Spring) Stop() {
	if sp.settled {
		return
	}
	sp.halt()
	sp.target = sp.value.Get()
	sp.value.release(sp)
}

// Destroy stops the spring permanently. Calling it more than once is
// harmless.
func (sp *Spring) Destroy() {
	if sp.destroyed {
		return
	}
	sp.Stop()
	sp.destroyed = true
	sp.onSettle.clear()
}

// OnSettle registers fn to be called with the rest value each time the
// spring settles.
func (sp *Spring) OnSettle(fn func(float64)) Subscription {
	if sp.destroyed {
		return Subscription{}
	}
	return sp.onSettle.add(fn)
}

// Velocity returns the current velocity in units per second.
func (sp *Spring) Velocity() float64 {
	return sp.velocity
}

// Target returns the current rest point.
func (sp *Spring) Target() float64 {
	return sp.target
}

// Settled reports whether the spring is at rest.
func (sp *Spring) Settled() bool {
	return sp.settled
}
