package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/config"
)

const (
	screenW = 640
	screenH = 480
	boxSize = 100
)

// env is what a screen is built from.
type env struct {
	sched   *motion.Scheduler
	tracker *motion.PointerTracker
	presets *config.Presets
	logger  *slog.Logger

	// spring overrides the screen's spring preset when set.
	spring *motion.SpringConfig
}

func (e *env) springConfig(preset string) (motion.SpringConfig, error) {
	if e.spring != nil {
		return *e.spring, nil
	}
	return e.presets.Spring(preset)
}

// screen is one demo. Screens hold no engine logic: they wire values and
// drivers together, expose geometry to the pointer tracker, and draw.
type screen interface {
	// geometry reports the layout gestures on this screen are relative to.
	geometry() (motion.Geometry, bool)
	// presence returns the screen's presence controller, or nil.
	presence() *motion.Presence
	// values returns the screen's current numbers by name.
	values() map[string]float64
	draw(dst *ebiten.Image)
	destroy()
}

type screenDef struct {
	name        string
	description string
	build       func(e *env) (screen, error)
}

var screenDefs = map[string]screenDef{
	"enter": {
		name:        "enter",
		description: "A box scales to 2x and spins a full turn as it mounts. Click to toggle it.",
		build:       newEnterScreen,
	},
	"exit": {
		name:        "exit",
		description: "Click to toggle a box; it fades and shrinks out before it unmounts.",
		build:       newExitScreen,
	},
	"follow": {
		name:        "follow",
		description: "A box trails the pointer on a pair of springs.",
		build:       newFollowScreen,
	},
	"counter": {
		name:        "counter",
		description: "A number counts from 0 to 100. Click to restart.",
		build:       newCounterScreen,
	},
	"slider": {
		name:        "slider",
		description: "Drag inside the track; the fill springs to the pointer.",
		build:       newSliderScreen,
	},
}

func screenNames() []string {
	names := make([]string, 0, len(screenDefs))
	for n := range screenDefs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func buildScreen(name string, e *env) (screen, error) {
	def, ok := screenDefs[name]
	if !ok {
		return nil, fmt.Errorf("unknown screen %q (have %v)", name, screenNames())
	}
	s, err := def.build(e)
	if err != nil {
		return nil, fmt.Errorf("screen %s: %w", name, err)
	}
	e.tracker.SetLayout(motion.LayoutFunc(s.geometry))
	return s, nil
}

// --- Presence screens (enter, exit) ---

const presenceID = "box"

type presenceScreen struct {
	p    *motion.Presence
	subs []motion.Subscription
}

func newEnterScreen(e *env) (screen, error) {
	enter, err := e.presets.Tween("enter")
	if err != nil {
		return nil, err
	}
	cfg := motion.PresenceConfig{
		Initial: motion.IdentityPose,
		Animate: motion.Pose{Scale: 2, Rotate: 360, Opacity: 1},
		Exit:    motion.IdentityPose,
		Enter:   enter,
		Leave:   motion.TweenConfig{},
	}
	return newPresenceScreen(e, cfg)
}

func newExitScreen(e *env) (screen, error) {
	cfg, err := e.presets.PresenceConfig("fade")
	if err != nil {
		return nil, err
	}
	return newPresenceScreen(e, cfg)
}

func newPresenceScreen(e *env, cfg motion.PresenceConfig) (*presenceScreen, error) {
	p, err := motion.NewPresence(e.sched, cfg)
	if err != nil {
		return nil, err
	}
	s := &presenceScreen{p: p}
	s.subs = append(s.subs,
		p.OnStateChange(func(ev motion.PresenceEvent) {
			e.logger.Info("presence", "id", ev.ID, "from", ev.From, "to", ev.To)
		}),
		e.tracker.OnPress(func(ev motion.PointerEvent) {
			if s.hit(ev.Sample.Pointer) {
				p.Toggle(presenceID)
			}
		}),
	)
	p.SetVisible(presenceID, true)
	return s, nil
}

// boxMatrix places a box of the given pose at the centre of the screen.
func boxMatrix(pose motion.Pose) motion.Matrix {
	left, top := float64(screenW-boxSize)/2, float64(screenH-boxSize)/2
	return motion.Compose(motion.Translation(left, top), motion.Affine(pose, boxSize/2, boxSize/2))
}

// hit reports whether a press at pt should toggle the box: a press on the
// rendered box hides it, and any press brings an unmounted box back.
func (s *presenceScreen) hit(pt motion.Vec2) bool {
	sub := s.p.Subject(presenceID)
	if sub == nil {
		return true
	}
	x, y, ok := motion.ToLocal(boxMatrix(sub.Pose()), pt.X, pt.Y)
	return ok && x >= 0 && x <= boxSize && y >= 0 && y <= boxSize
}

func (s *presenceScreen) geometry() (motion.Geometry, bool) {
	return motion.Geometry{}, true
}

func (s *presenceScreen) presence() *motion.Presence { return s.p }

func (s *presenceScreen) values() map[string]float64 {
	out := make(map[string]float64)
	for _, sub := range s.p.Subjects() {
		pose := sub.Pose()
		out[sub.ID+".x"] = pose.X
		out[sub.ID+".y"] = pose.Y
		out[sub.ID+".scale"] = pose.Scale
		out[sub.ID+".rotate"] = pose.Rotate
		out[sub.ID+".opacity"] = pose.Opacity
		out[sub.ID+".state"] = float64(sub.State())
	}
	return out
}

func (s *presenceScreen) destroy() {
	for _, sub := range s.subs {
		sub.Remove()
	}
	s.p.Destroy()
}

// --- Pointer follow ---

type followScreen struct {
	origin   motion.Vec2
	x, y     *motion.Value[float64]
	follower *motion.Follower
	sub      motion.Subscription
}

func newFollowScreen(e *env) (screen, error) {
	cfg, err := e.springConfig("follow")
	if err != nil {
		return nil, err
	}
	x, y := motion.NewValue(0.0), motion.NewValue(0.0)
	sx, err := motion.NewSpring(e.sched, x, cfg)
	if err != nil {
		return nil, err
	}
	sy, err := motion.NewSpring(e.sched, y, cfg)
	if err != nil {
		return nil, err
	}
	s := &followScreen{
		origin:   motion.Vec2{X: (screenW - boxSize) / 2, Y: (screenH - boxSize) / 2},
		x:        x,
		y:        y,
		follower: motion.NewFollower(sx, sy),
	}
	s.sub = motion.BindFollower(e.tracker, s.follower)
	return s, nil
}

func (s *followScreen) geometry() (motion.Geometry, bool) {
	return motion.Geometry{
		Origin: s.origin,
		Extent: motion.Vec2{X: boxSize, Y: boxSize},
	}, true
}

func (s *followScreen) presence() *motion.Presence { return nil }

func (s *followScreen) values() map[string]float64 {
	return map[string]float64{
		"x":        s.x.Get(),
		"y":        s.y.Get(),
		"target.x": s.follower.X().Target(),
		"target.y": s.follower.Y().Target(),
	}
}

func (s *followScreen) destroy() {
	s.sub.Remove()
	s.follower.X().Destroy()
	s.follower.Y().Destroy()
	s.x.Destroy()
	s.y.Destroy()
}

// --- Counter ---

type counterScreen struct {
	sched   *motion.Scheduler
	cfg     motion.TweenConfig
	count   *motion.Value[float64]
	rounded *motion.Derived[int]
	tween   *motion.Tween
	sub     motion.Subscription
}

func newCounterScreen(e *env) (screen, error) {
	cfg, err := e.presets.Tween("counter")
	if err != nil {
		return nil, err
	}
	count := motion.NewValue(0.0)
	s := &counterScreen{
		sched:   e.sched,
		cfg:     cfg,
		count:   count,
		rounded: motion.Round(count),
	}
	if err := s.restart(); err != nil {
		return nil, err
	}
	s.sub = e.tracker.OnPress(func(motion.PointerEvent) {
		if err := s.restart(); err != nil {
			e.logger.Error("restart counter", "err", err)
		}
	})
	return s, nil
}

func (s *counterScreen) restart() error {
	tw, err := motion.AnimateFromTo(s.sched, s.count, 0, 100, s.cfg)
	if err != nil {
		return err
	}
	s.tween = tw
	return nil
}

func (s *counterScreen) geometry() (motion.Geometry, bool) {
	return motion.Geometry{}, true
}

func (s *counterScreen) presence() *motion.Presence { return nil }

func (s *counterScreen) values() map[string]float64 {
	return map[string]float64{
		"count":    s.count.Get(),
		"rounded":  float64(s.rounded.Get()),
		"progress": s.tween.Progress(),
	}
}

func (s *counterScreen) destroy() {
	s.sub.Remove()
	s.rounded.Destroy()
	s.count.Destroy()
}

// --- Slider ---

var sliderTrack = motion.Box{Top: 90, Left: (screenW - 40) / 2, Width: 40, Height: 300}

type sliderScreen struct {
	progress *motion.Value[float64]
	handle   *motion.Value[float64]
	fill     *motion.Derived[float64]
	scaled   *motion.Derived[float64]
	percent  *motion.Derived[int]
	mapper   *motion.DragMapper
	springs  []*motion.Spring
	sub      motion.Subscription
}

func newSliderScreen(e *env) (screen, error) {
	cfg, err := e.springConfig("snap")
	if err != nil {
		return nil, err
	}
	progress := motion.NewValue(1.0)
	handle := motion.NewValue(0.0)
	out, err := motion.NewSpring(e.sched, progress, cfg)
	if err != nil {
		return nil, err
	}
	hs, err := motion.NewSpring(e.sched, handle, cfg)
	if err != nil {
		return nil, err
	}
	mapper, err := motion.NewDragMapper(out, motion.DragConfig{Elasticity: 0.15})
	if err != nil {
		return nil, err
	}
	mapper.SetHandle(hs)
	fill, err := motion.MapRange(progress, []float64{0, 1}, []float64{0, sliderTrack.Height}, true)
	if err != nil {
		return nil, err
	}
	scaled := motion.Transform(progress, func(v float64) float64 { return v * 100 })

	s := &sliderScreen{
		progress: progress,
		handle:   handle,
		fill:     fill,
		scaled:   scaled,
		percent:  motion.Round(scaled),
		mapper:   mapper,
		springs:  []*motion.Spring{out, hs},
	}
	s.sub = motion.BindDrag(e.tracker, mapper)
	return s, nil
}

func (s *sliderScreen) geometry() (motion.Geometry, bool) {
	return motion.Geometry{Bounds: sliderTrack}, true
}

func (s *sliderScreen) presence() *motion.Presence { return nil }

func (s *sliderScreen) values() map[string]float64 {
	return map[string]float64{
		"progress": s.progress.Get(),
		"handle":   s.handle.Get(),
		"fill":     s.fill.Get(),
		"percent":  float64(s.percent.Get()),
	}
}

func (s *sliderScreen) destroy() {
	s.sub.Remove()
	for _, sp := range s.springs {
		sp.Destroy()
	}
	s.fill.Destroy()
	s.percent.Destroy()
	s.scaled.Destroy()
	s.progress.Destroy()
	s.handle.Destroy()
}
