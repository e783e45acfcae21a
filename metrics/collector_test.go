package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/motion"
)

func TestCollectorReportsSchedulerStats(t *testing.T) {
	s := motion.NewScheduler()
	s.Start()
	s.Schedule(motion.PhaseUpdate, func(motion.Frame) {})
	s.Schedule(motion.PhaseUpdate, func(motion.Frame) {})
	s.Schedule(motion.PhaseRender, func(motion.Frame) {})
	s.Step(0.5)
	s.Step(0.25)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(s)))

	expected := `
# HELP motion_scheduler_frames_total Frames run by the scheduler.
# TYPE motion_scheduler_frames_total counter
motion_scheduler_frames_total 2
# HELP motion_scheduler_elapsed_seconds_total Frame time covered by all frames so far.
# TYPE motion_scheduler_elapsed_seconds_total counter
motion_scheduler_elapsed_seconds_total 0.75
# HELP motion_scheduler_last_delta_seconds Delta of the most recent frame.
# TYPE motion_scheduler_last_delta_seconds gauge
motion_scheduler_last_delta_seconds 0.25
# HELP motion_scheduler_running 1 while the scheduler accepts frames.
# TYPE motion_scheduler_running gauge
motion_scheduler_running 1
# HELP motion_scheduler_subscriptions Registered frame callbacks per phase.
# TYPE motion_scheduler_subscriptions gauge
motion_scheduler_subscriptions{phase="read"} 0
motion_scheduler_subscriptions{phase="render"} 1
motion_scheduler_subscriptions{phase="update"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

func TestSnapshotCollector(t *testing.T) {
	snap := motion.Stats{Frames: 7, Running: true}
	c := NewSnapshotCollector(func() motion.Stats { return snap })

	// Four scalar metrics plus one subscription gauge per phase.
	assert.Equal(t, 7, testutil.CollectAndCount(c))
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP motion_scheduler_frames_total Frames run by the scheduler.
# TYPE motion_scheduler_frames_total counter
motion_scheduler_frames_total 7
`), "motion_scheduler_frames_total"))

	snap.Frames = 9
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(`
# HELP motion_scheduler_frames_total Frames run by the scheduler.
# TYPE motion_scheduler_frames_total counter
motion_scheduler_frames_total 9
`), "motion_scheduler_frames_total"))
}

func TestCollectorStopped(t *testing.T) {
	s := motion.NewScheduler()
	c := NewCollector(s)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP motion_scheduler_running 1 while the scheduler accepts frames.
# TYPE motion_scheduler_running gauge
motion_scheduler_running 0
`), "motion_scheduler_running"))
}
