package motion

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLoadScript(t *testing.T) {
	r, err := LoadScript([]byte(`
steps:
  - action: press
    x: 100
    y: 200
  - action: wait
    frames: 3
  - action: drag
    fromX: 1
    fromY: 2
    toX: 3
    toY: 4
    frames: 10
  - action: show
    id: box
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(r.steps))
	}
	if r.steps[0].Action != "press" || r.steps[0].X != 100 || r.steps[0].Y != 200 {
		t.Errorf("step 0 = %+v", r.steps[0])
	}
	if r.steps[1].Frames != 3 {
		t.Errorf("step 1 = %+v", r.steps[1])
	}
	d := r.steps[2]
	if d.FromX != 1 || d.FromY != 2 || d.ToX != 3 || d.ToY != 4 || d.Frames != 10 {
		t.Errorf("step 2 = %+v", d)
	}
	if r.steps[3].ID != "box" {
		t.Errorf("step 3 = %+v", r.steps[3])
	}
}

func TestLoadScriptJSON(t *testing.T) {
	r, err := LoadScript([]byte(`{"steps": [{"action": "move", "x": 5, "y": 6}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.steps[0].Action != "move" || r.steps[0].X != 5 {
		t.Errorf("step 0 = %+v", r.steps[0])
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := map[string]string{
		"not yaml":        "not a script",
		"empty":           "steps: []",
		"unknown action":  "steps:\n  - action: jump\n",
		"show without id": "steps:\n  - action: show\n",
		"negative wait":   "steps:\n  - action: wait\n    frames: -1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadScript([]byte(data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), "parse script") {
				t.Errorf("err = %v", err)
			}
		})
	}
}

func TestRunnerDrivesInputAndPresence(t *testing.T) {
	s := newRunningScheduler()
	q := NewInputQueue()
	tr := NewPointerTracker(nil)
	p, err := NewPresence(s, testPresenceConfig)
	if err != nil {
		t.Fatal(err)
	}
	drags, ends := 0, 0
	tr.OnDrag(func(DragEvent) { drags++ })
	tr.OnDragEnd(func(DragEvent) { ends++ })

	r, err := LoadScript([]byte(`
steps:
  - action: show
    id: a
  - action: drag
    fromX: 0
    fromY: 0
    toX: 0
    toY: 90
    frames: 4
  - action: wait
    frames: 2
  - action: hide
    id: a
`))
	if err != nil {
		t.Fatal(err)
	}
	r.Attach(s, q, p)
	q.Bind(s, tr)

	s.Step(frameDt)
	if p.State("a") != PresenceEntering {
		t.Fatalf("state = %v after the first frame, want entering", p.State("a"))
	}

	// The drag takes four frames, then two frames of waiting, then the hide.
	stepFrames(s, 6)
	if drags != 2 || ends != 1 {
		t.Errorf("drags = %d ends = %d, want 2 and 1", drags, ends)
	}
	if p.State("a") != PresenceEntering && p.State("a") != PresencePresent {
		t.Errorf("hidden too early: %v", p.State("a"))
	}

	s.Step(frameDt)
	if p.State("a") != PresenceExiting {
		t.Errorf("state = %v, want exiting", p.State("a"))
	}
	if r.Done() {
		t.Error("Done() before the runner saw the end of the script")
	}

	s.Step(frameDt)
	if !r.Done() {
		t.Error("runner not done")
	}
	if n := s.Stats().Subscriptions[PhaseRead]; n != 1 {
		t.Errorf("read subscriptions = %d, want only the queue binding", n)
	}
}

func TestRunnerWithoutTargetsWarns(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	s.Start()
	r, err := LoadScript([]byte("steps:\n  - action: show\n    id: a\n  - action: press\n"))
	if err != nil {
		t.Fatal(err)
	}
	r.Attach(s, nil, nil)
	stepFrames(s, 3)

	if !r.Done() {
		t.Error("runner not done")
	}
	out := buf.String()
	if !strings.Contains(out, "needs a presence controller") || !strings.Contains(out, "needs an input queue") {
		t.Errorf("log = %q", out)
	}
}

func TestRunnerWaitZeroFrames(t *testing.T) {
	s := newRunningScheduler()
	r, _ := LoadScript([]byte("steps:\n  - action: wait\n    frames: 0\n"))
	r.Attach(s, nil, nil)
	stepFrames(s, 2)
	if !r.Done() {
		t.Error("runner not done after a zero wait")
	}
}
