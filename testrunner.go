package motion

import (
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `yaml:"action"`
	ID     string  `yaml:"id,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// script is the top-level document of a script file.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// Runner replays a script of pointer input and presence requests, one step
// per frame, so a screen can be driven without a human at the mouse.
//
// A script looks like:
//
//	steps:
//	  - action: show
//	    id: box
//	  - action: wait
//	    frames: 30
//	  - action: drag
//	    fromX: 100
//	    fromY: 40
//	    toX: 100
//	    toY: 240
//	    frames: 20
//	  - action: hide
//	    id: box
//
// Actions are move (hover), press, release, drag, show, hide and wait. JSON
// is accepted too, since it is valid YAML.
type Runner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	queue    *InputQueue
	presence *Presence
	logger   *slog.Logger
	sub      Subscription
}

// LoadScript parses a script and returns a Runner ready to be attached.
func LoadScript(data []byte) (*Runner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &Runner{steps: sc.Steps}, nil
}

func (st scriptStep) check() error {
	switch st.Action {
	case "move", "press", "release", "drag":
	case "show", "hide":
		if st.ID == "" {
			return fmt.Errorf("%s needs an id", st.Action)
		}
	case "wait":
		if st.Frames < 0 {
			return fmt.Errorf("wait frames %d is negative", st.Frames)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Attach starts the runner on s's Read phase. Pointer steps go into queue and
// show/hide steps into presence; either may be nil if the script does not use
// it. Attach must run before the queue is bound so a queued event is consumed
// in the frame it was queued.
func (r *Runner) Attach(s *Scheduler, queue *InputQueue, presence *Presence) Subscription {
	r.queue = queue
	r.presence = presence
	r.logger = s.Logger()
	r.sub = s.Schedule(PhaseRead, func(Frame) { r.step() })
	return r.sub
}

// Done reports whether every step has been executed and all queued input
// consumed.
func (r *Runner) Done() bool {
	return r.done
}

func (r *Runner) pending() int {
	if r.queue == nil {
		return 0
	}
	return r.queue.Len()
}

// step advances the runner by one frame.
func (r *Runner) step() {
	if r.done {
		return
	}
	// Let queued input drain before advancing.
	if r.pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.finish()
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "move", "press", "release", "drag":
		if r.queue == nil {
			r.logger.Warn("script step needs an input queue", "action", st.Action)
			break
		}
		switch st.Action {
		case "move":
			r.queue.Hover(st.X, st.Y)
		case "press":
			r.queue.Press(st.X, st.Y)
		case "release":
			r.queue.Release(st.X, st.Y)
		case "drag":
			r.queue.Drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
		}
	case "show", "hide":
		if r.presence == nil {
			r.logger.Warn("script step needs a presence controller", "action", st.Action, "id", st.ID)
			break
		}
		r.presence.SetVisible(st.ID, st.Action == "show")
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}

func (r *Runner) finish() {
	r.done = true
	r.sub.Remove()
}
