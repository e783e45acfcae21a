// Package motion is a continuous animated-value engine for frame-driven user
// interfaces and games.
//
// Mutable [Value] cells are driven by a [Spring], an eased [Tween], or a live
// input stream, and read once per display frame by whatever draws them.
// Everything runs on one goroutine, paced by a [Scheduler].
//
// # Quick start
//
// Create a scheduler, a value, and a driver, then step the scheduler from
// your host loop:
//
//	sched := motion.NewScheduler()
//	sched.Start()
//
//	x := motion.NewValue(0.0)
//	sp, err := motion.NewSpring(sched, x, motion.DefaultSpring)
//	if err != nil {
//		return err
//	}
//	sp.SetTarget(200)
//
//	// In ebiten's Update:
//	sched.Step(1 / float64(ebiten.TPS()))
//
// # Frames and phases
//
// Each frame runs three ordered phases. [PhaseRead] samples external state
// such as queued pointer input, [PhaseUpdate] integrates springs and tweens,
// and [PhaseRender] reads the final numbers. Register callbacks with
// [Scheduler.Schedule] or [Scheduler.Once]; every registration returns a
// [Subscription] whose Remove is safe to call any number of times.
//
// # Values and derivations
//
// A [Value] notifies its listeners synchronously on every change. Derived
// values built with [Transform], [Combine], [MapRange] or [Round] are lazy:
// they recompute on read after a source changed, and only push to their own
// listeners when the result differs.
//
//	progress := motion.NewValue(0.0)
//	y, _ := motion.MapRange(progress, []float64{0, 1}, []float64{0, 300}, true)
//	label := motion.Round(y)
//
// # Drivers
//
// A value has at most one driver. Starting a tween on a value stops its
// spring and vice versa. Springs use a closed-form damped oscillator (via
// [harmonica]) and unsubscribe from the scheduler once settled. Tweens accept
// any [gween] easing function, plus [CubicBezier] curves.
//
// # Gestures
//
// A [PointerTracker] turns raw pointer samples into move and drag events. A
// [Follower] writes the pointer offset into two springs; a [DragMapper] maps a
// vertical drag inside a box to a [0, 1] spring target with rubber-band
// overshoot. An [InputQueue] buffers input from outside the frame loop and
// feeds it in during the Read phase.
//
// # Presence
//
// A [Presence] keeps unmounted subjects rendered until their exit animation
// has finished, moving each through [PresenceEntering], [PresencePresent],
// [PresenceExiting] and [PresenceRemoved].
//
// [harmonica]: https://github.com/charmbracelet/harmonica
// [gween]: https://github.com/tanema/gween
package motion
