package motion

import (
	"log/slog"
	"time"
)

// frameTimings holds per-phase timing and callback counts for one frame.
// Only populated when the scheduler runs in debug mode.
type frameTimings struct {
	durations [numPhases]time.Duration
	callbacks [numPhases]int
}

func (t frameTimings) total() time.Duration {
	var d time.Duration
	for _, pd := range t.durations {
		d += pd
	}
	return d
}

// debugLog reports the frame's phase timings at debug level.
func (s *Scheduler) debugLog(t frameTimings) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		slog.Uint64("n", s.frame.Number),
		slog.Float64("dt", s.frame.Delta),
		slog.Duration("read", t.durations[PhaseRead]),
		slog.Duration("update", t.durations[PhaseUpdate]),
		slog.Duration("render", t.durations[PhaseRender]),
		slog.Duration("total", t.total()),
		slog.Int("callbacks", t.callbacks[PhaseRead]+t.callbacks[PhaseUpdate]+t.callbacks[PhaseRender]),
	)
}
