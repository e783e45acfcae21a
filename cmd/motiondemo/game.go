package main

import (
	"maps"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/motion"
)

// snapshot is a copy of the running screen's numbers, taken in the Render
// phase, for readers on other goroutines (the debug server). It is the only
// state shared across goroutines.
type snapshot struct {
	mu     sync.Mutex
	screen string
	stats  motion.Stats
	values map[string]float64
}

func (s *snapshot) store(screen string, st motion.Stats, values map[string]float64) {
	s.mu.Lock()
	s.screen = screen
	s.stats = st
	s.values = values
	s.mu.Unlock()
}

// Stats returns the scheduler stats of the last rendered frame.
func (s *snapshot) Stats() motion.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Values returns the screen name and a copy of its values.
func (s *snapshot) Values() (string, map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen, maps.Clone(s.values)
}

// host drives one screen from ebiten's game loop. All engine work happens in
// Update, on ebiten's update goroutine.
type host struct {
	name    string
	sched   *motion.Scheduler
	tracker *motion.PointerTracker
	queue   *motion.InputQueue
	runner  *motion.Runner
	screen  screen
	snap    *snapshot

	exitWhenDone bool
	subs         []motion.Subscription
}

// newHost wires the frame phases: the script (if any) queues input, queued
// or live input is fed to the tracker, springs and tweens integrate, and the
// Render phase publishes a snapshot.
func newHost(name string, e *env, queue *motion.InputQueue, runner *motion.Runner, snap *snapshot) (*host, error) {
	scr, err := buildScreen(name, e)
	if err != nil {
		return nil, err
	}
	h := &host{
		name:    name,
		sched:   e.sched,
		tracker: e.tracker,
		queue:   queue,
		runner:  runner,
		screen:  scr,
		snap:    snap,
	}
	if runner != nil {
		h.subs = append(h.subs, runner.Attach(e.sched, queue, scr.presence()))
	}
	h.subs = append(h.subs,
		e.sched.Schedule(motion.PhaseRead, h.readInput),
		e.sched.Schedule(motion.PhaseRender, h.publish),
	)
	return h, nil
}

// readInput feeds one scripted event, or the live pointer when no script
// input is pending.
func (h *host) readInput(motion.Frame) {
	if h.queue.Drain(h.tracker) {
		return
	}
	if h.runner != nil && !h.runner.Done() {
		return
	}
	x, y := ebiten.CursorPosition()
	h.tracker.Process(float64(x), float64(y), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (h *host) publish(motion.Frame) {
	h.snap.store(h.name, h.sched.Stats(), h.screen.values())
}

func (h *host) close() {
	for _, s := range h.subs {
		s.Remove()
	}
	h.screen.destroy()
}

func (h *host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if p := h.screen.presence(); p != nil && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		p.Toggle(presenceID)
	}
	h.sched.Step(1 / float64(ebiten.TPS()))
	if h.exitWhenDone && h.runner != nil && h.runner.Done() {
		return ebiten.Termination
	}
	return nil
}

func (h *host) Draw(dst *ebiten.Image) {
	h.screen.draw(dst)
	ebitenutil.DebugPrintAt(dst, screenDefs[h.name].description, 8, 8)
}

func (h *host) Layout(_, _ int) (int, int) {
	return screenW, screenH
}
