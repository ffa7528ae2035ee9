// Package metrics exposes the indexer's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the indexer's collectors, registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	CheckpointsProcessed prometheus.Counter
	TransactionsScanned  prometheus.Counter
	RiskEvents           *prometheus.CounterVec
	SandwichBufferSize   prometheus.Gauge
	SinkErrors           *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		CheckpointsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_checkpoints_processed_total",
			Help: "Checkpoints fully processed",
		}),
		TransactionsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_transactions_scanned_total",
			Help: "Transactions seen in processed checkpoints",
		}),
		RiskEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indexer_risk_events_total",
			Help: "Risk events emitted, by type and level",
		}, []string{"type", "level"}),
		SandwichBufferSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indexer_sandwich_buffer_size",
			Help: "Current occupancy of the sandwich swap buffer",
		}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "indexer_sink_errors_total",
			Help: "Failed writes to downstream sinks, by sink",
		}, []string{"sink"}),
	}

	registry.MustRegister(
		m.CheckpointsProcessed,
		m.TransactionsScanned,
		m.RiskEvents,
		m.SandwichBufferSize,
		m.SinkErrors,
	)
	return m
}

// Handler serves the registry over HTTP
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
