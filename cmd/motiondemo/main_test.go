package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/motion"
	"github.com/phanxgames/motion/config"
)

const dt = 1.0 / 60

func newTestEnv(t *testing.T) *env {
	t.Helper()
	sched := motion.NewScheduler()
	sched.Start()
	return &env{
		sched:   sched,
		tracker: motion.NewPointerTracker(nil),
		presets: config.Default(),
		logger:  motion.NewScheduler().Logger(),
	}
}

func step(e *env, frames int) {
	for i := 0; i < frames; i++ {
		e.sched.Step(dt)
	}
}

func TestScreenNames(t *testing.T) {
	assert.Equal(t, []string{"counter", "enter", "exit", "follow", "slider"}, screenNames())
}

func TestBuildScreenUnknown(t *testing.T) {
	_, err := buildScreen("nope", newTestEnv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestEveryScreenBuildsAndTearsDown(t *testing.T) {
	for _, name := range screenNames() {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t)
			scr, err := buildScreen(name, e)
			require.NoError(t, err)
			step(e, 10)
			assert.NotEmpty(t, scr.values())

			scr.destroy()
			step(e, 1)
			assert.Equal(t, [3]int{}, e.sched.Stats().Subscriptions, "screen left frame callbacks behind")
		})
	}
}

func TestFollowScreenTracksPointer(t *testing.T) {
	e := newTestEnv(t)
	scr, err := buildScreen("follow", e)
	require.NoError(t, err)
	defer scr.destroy()

	// Origin is (270, 190) and the box is 100 wide, so the centre sits under
	// (420, 290) at an offset of (100, 50).
	e.tracker.Process(420, 290, false)
	step(e, 600)

	v := scr.values()
	assert.InDelta(t, 100, v["x"], 0.01)
	assert.InDelta(t, 50, v["y"], 0.01)
}

func TestSliderScreenDrag(t *testing.T) {
	e := newTestEnv(t)
	scr, err := buildScreen("slider", e)
	require.NoError(t, err)
	defer scr.destroy()

	assert.Equal(t, 100.0, scr.values()["percent"])

	// Halfway down the 300px track starting at y=90.
	e.tracker.Process(320, 100, true)
	e.tracker.Process(320, 240, true)
	step(e, 120)

	v := scr.values()
	assert.InDelta(t, 0.5, v["progress"], 0.01)
	assert.InDelta(t, 150, v["handle"], 1)
	assert.Equal(t, 50.0, v["percent"])
	assert.InDelta(t, 150, v["fill"], 3)

	// Past the bottom: output clamps to 0, the handle overshoots a little and
	// springs back to the edge on release.
	e.tracker.Process(320, 500, true)
	step(e, 120)
	v = scr.values()
	assert.InDelta(t, 0, v["progress"], 0.01)
	assert.Greater(t, v["handle"], 300.0)

	e.tracker.Process(320, 500, false)
	step(e, 120)
	assert.InDelta(t, 300, scr.values()["handle"], 0.05)
}

func TestCounterScreenCounts(t *testing.T) {
	e := newTestEnv(t)
	scr, err := buildScreen("counter", e)
	require.NoError(t, err)
	defer scr.destroy()

	step(e, 5*60+2)
	assert.Equal(t, 100.0, scr.values()["rounded"])

	e.tracker.Process(10, 10, true)
	step(e, 1)
	assert.Less(t, scr.values()["count"], 5.0)
}

func TestExitScreenToggle(t *testing.T) {
	e := newTestEnv(t)
	scr, err := buildScreen("exit", e)
	require.NoError(t, err)
	defer scr.destroy()

	p := scr.presence()
	require.NotNil(t, p)
	assert.Equal(t, motion.PresenceEntering, p.State(presenceID))
	step(e, 60)
	assert.Equal(t, motion.PresencePresent, p.State(presenceID))

	e.tracker.Process(10, 10, true)
	e.tracker.Process(10, 10, false)
	assert.Equal(t, motion.PresencePresent, p.State(presenceID), "press outside the box")

	e.tracker.Process(screenW/2+40, screenH/2-40, true)
	e.tracker.Process(screenW/2+40, screenH/2-40, false)
	assert.Equal(t, motion.PresenceExiting, p.State(presenceID))
	assert.Len(t, p.Subjects(), 1, "exiting subject must stay rendered")

	step(e, 60)
	assert.Equal(t, motion.PresenceRemoved, p.State(presenceID))
	assert.Empty(t, p.Subjects())

	e.tracker.Process(10, 10, true)
	assert.Equal(t, motion.PresenceEntering, p.State(presenceID), "any press brings the box back")
}

func TestBoxHitFollowsPose(t *testing.T) {
	e := newTestEnv(t)
	scr, err := newPresenceScreen(e, motion.PresenceConfig{
		Initial: motion.Pose{Scale: 2, Rotate: 45, Opacity: 1},
		Animate: motion.Pose{Scale: 2, Rotate: 45, Opacity: 1},
		Exit:    motion.Pose{Scale: 0, Opacity: 0},
	})
	require.NoError(t, err)
	defer scr.destroy()

	// Scaled 2x about its centre, the box covers points beyond its resting edge.
	assert.True(t, scr.hit(motion.Vec2{X: screenW / 2, Y: screenH/2 + 90}))
	assert.False(t, scr.hit(motion.Vec2{X: screenW/2 + 130, Y: screenH/2 + 130}))
}

func TestDebugHandler(t *testing.T) {
	snap := &snapshot{}
	snap.store("slider", motion.Stats{Frames: 3, Running: true}, map[string]float64{"progress": 0.25})

	handler, err := newDebugHandler(snap, motion.NewScheduler().Logger())
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/values")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body valuesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "slider", body.Screen)
	assert.Equal(t, uint64(3), body.Frames)
	assert.Equal(t, 0.25, body.Values["progress"])

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "motion_scheduler_frames_total 3")
	assert.Contains(t, string(data), "motion_scheduler_running 1")
}

func TestSnapshotValuesAreCopies(t *testing.T) {
	snap := &snapshot{}
	snap.store("x", motion.Stats{}, map[string]float64{"a": 1})
	_, v := snap.Values()
	v["a"] = 2
	_, again := snap.Values()
	assert.Equal(t, 1.0, again["a"])
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug")
	require.NoError(t, err)
	logger.Debug("hello", "error", "boom")
	assert.Contains(t, buf.String(), "err=boom")

	_, err = newLogger(&buf, "loud")
	assert.Error(t, err)
}

func TestSetupSpringOverride(t *testing.T) {
	h, err := setup(runOptions{
		screen: "follow",
		spring: map[string]string{"stiffness": "300", "damping": "20"},
	}, motion.NewScheduler().Logger())
	require.NoError(t, err)
	defer h.close()

	fs, ok := h.screen.(*followScreen)
	require.True(t, ok)
	assert.Equal(t, 300.0, fs.follower.X().Config().Stiffness)
	assert.Equal(t, 20.0, fs.follower.Y().Config().Damping)
	assert.True(t, h.sched.Running())
}

func TestSetupErrors(t *testing.T) {
	logger := motion.NewScheduler().Logger()

	_, err := setup(runOptions{screen: "follow", spring: map[string]string{"bounce": "1"}}, logger)
	assert.Error(t, err)

	_, err = setup(runOptions{screen: "nope"}, logger)
	assert.Error(t, err)

	_, err = setup(runOptions{screen: "follow", presetsPath: filepath.Join(t.TempDir(), "missing.yaml")}, logger)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("steps:\n  - action: jump\n"), 0o644))
	_, err = setup(runOptions{screen: "follow", scriptPath: bad}, logger)
	assert.Error(t, err)
}

func TestSetupWithScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(script, []byte(`
steps:
  - action: hide
    id: box
  - action: wait
    frames: 30
`), 0o644))

	h, err := setup(runOptions{screen: "exit", scriptPath: script}, motion.NewScheduler().Logger())
	require.NoError(t, err)
	defer h.close()
	require.NotNil(t, h.runner)
	assert.False(t, h.runner.Done())
}

func TestCommands(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "motiondemo version dev\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"screens"})
	require.NoError(t, rootCmd.Execute())
	for _, name := range screenNames() {
		assert.True(t, strings.Contains(out.String(), name), "missing %s", name)
	}
}
