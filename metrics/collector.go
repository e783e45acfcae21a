// Package metrics exposes scheduler activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phanxgames/motion"
)

const namespace = "motion"

// Collector reads a scheduler's Stats on every scrape. Scrapes may come from
// another goroutine, so the scheduler must not be stepped concurrently; hosts
// that scrape while running publish a Stats snapshot through a StatsFunc
// instead.
type Collector struct {
	stats StatsFunc

	frames        *prometheus.Desc
	elapsed       *prometheus.Desc
	lastDelta     *prometheus.Desc
	running       *prometheus.Desc
	subscriptions *prometheus.Desc
}

// StatsFunc returns a snapshot of scheduler activity.
type StatsFunc func() motion.Stats

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector reading s directly.
func NewCollector(s *motion.Scheduler) *Collector {
	return NewSnapshotCollector(s.Stats)
}

// NewSnapshotCollector creates a collector reading stats from fn.
func NewSnapshotCollector(fn StatsFunc) *Collector {
	return &Collector{
		stats: fn,
		frames: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scheduler", "frames_total"),
			"Frames run by the scheduler.",
			nil, nil,
		),
		elapsed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scheduler", "elapsed_seconds_total"),
			"Frame time covered by all frames so far.",
			nil, nil,
		),
		lastDelta: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scheduler", "last_delta_seconds"),
			"Delta of the most recent frame.",
			nil, nil,
		),
		running: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scheduler", "running"),
			"1 while the scheduler accepts frames.",
			nil, nil,
		),
		subscriptions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scheduler", "subscriptions"),
			"Registered frame callbacks per phase.",
			[]string{"phase"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.elapsed
	ch <- c.lastDelta
	ch <- c.running
	ch <- c.subscriptions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.stats()
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(st.Frames))
	ch <- prometheus.MustNewConstMetric(c.elapsed, prometheus.CounterValue, st.Elapsed)
	ch <- prometheus.MustNewConstMetric(c.lastDelta, prometheus.GaugeValue, st.LastDelta)
	running := 0.0
	if st.Running {
		running = 1
	}
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running)
	for p, n := range st.Subscriptions {
		ch <- prometheus.MustNewConstMetric(c.subscriptions, prometheus.GaugeValue, float64(n), motion.Phase(p).String())
	}
}
