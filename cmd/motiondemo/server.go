package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phanxgames/motion/metrics"
)

// valuesResponse is the body of GET /debug/values.
type valuesResponse struct {
	Screen string             `json:"screen"`
	Frames uint64             `json:"frames"`
	Values map[string]float64 `json:"values"`
}

// newDebugHandler serves Prometheus metrics and the latest value snapshot.
// It only ever reads snap, never the scheduler.
func newDebugHandler(snap *snapshot, logger *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewSnapshotCollector(snap.Stats)); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/debug/values", func(w http.ResponseWriter, r *http.Request) {
		name, values := snap.Values()
		resp := valuesResponse{Screen: name, Frames: snap.Stats().Frames, Values: values}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("encode debug values", "err", err)
		}
	})
	return r, nil
}
