// Package metrics exposes the dashboard's Prometheus instrumentation:
// frames rasterized, frames dispatched per message type, worker
// ready-latency, and arbitrage-violation counts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns every collector the dashboard registers and the
// registry they're bound to. The caller constructs one with New and
// passes it through to the router and renderer rather than reaching
// for package-level globals.
type Metrics struct {
	registry *prometheus.Registry

	FramesRasterized    prometheus.Counter
	FramesDispatched    *prometheus.CounterVec
	WorkerReadyLatency  prometheus.Histogram
	WorkerReadyGauge    *prometheus.GaugeVec
	ArbitrageViolations *prometheus.CounterVec
}

// New registers and returns a Metrics bound to a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		FramesRasterized: factory.NewCounter(prometheus.CounterOpts{
			Name: "marigraph_frames_rasterized_total",
			Help: "Number of RasterBuffers produced by the renderer.",
		}),
		FramesDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marigraph_frames_dispatched_total",
			Help: "Number of IPC frames dispatched, by message type name.",
		}, []string{"type"}),
		WorkerReadyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "marigraph_worker_ready_latency_seconds",
			Help:    "Time from worker spawn to READY frame.",
			Buckets: prometheus.DefBuckets,
		}),
		WorkerReadyGauge: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marigraph_worker_ready",
			Help: "1 if the worker is ready, 0 otherwise.",
		}, []string{"worker_id"}),
		ArbitrageViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marigraph_arbitrage_violations_total",
			Help: "Static-arbitrage violations detected, by category.",
		}, []string{"category"}),
	}
}

// Handler returns the Prometheus exposition HTTP handler serving m's
// registry, for mounting on --metrics-port.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveWorkerReady records the time from spawn to READY for a worker
// and marks its ready gauge.
func (m *Metrics) ObserveWorkerReady(workerID string, latency time.Duration) {
	m.WorkerReadyLatency.Observe(latency.Seconds())
	m.WorkerReadyGauge.WithLabelValues(workerID).Set(1)
}

// IncDispatched increments the dispatched-frame counter for a message
// type name.
func (m *Metrics) IncDispatched(messageType string) {
	m.FramesDispatched.WithLabelValues(messageType).Inc()
}
