// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus instruments for document generation.
// All methods are nil-safe so callers can run without metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the generation instruments.
type Metrics struct {
	// Documents counts generate calls by category and outcome (ok, error).
	Documents *prometheus.CounterVec

	// Findings counts compliance findings by rule kind and result (pass, fail).
	Findings *prometheus.CounterVec

	// GenerateLatency observes end-to-end generate duration.
	GenerateLatency prometheus.Histogram

	// BatchSize observes the number of requests per batch.
	BatchSize prometheus.Histogram
}

// New registers the instruments with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docgen_documents_total",
			Help: "Generated documents by template category and outcome",
		}, []string{"category", "outcome"}),

		Findings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docgen_compliance_findings_total",
			Help: "Compliance findings by rule kind and result",
		}, []string{"kind", "result"}),

		GenerateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "docgen_generate_duration_seconds",
			Help:    "Duration of a single generate call",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "docgen_batch_requests",
			Help:    "Requests per bulk generation batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// ObserveDocument records one generate outcome and its latency.
func (m *Metrics) ObserveDocument(category string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	if category == "" {
		category = "unknown"
	}
	m.Documents.WithLabelValues(category, outcome).Inc()
	m.GenerateLatency.Observe(d.Seconds())
}

// ObserveFinding records one compliance finding.
func (m *Metrics) ObserveFinding(kind string, passed bool) {
	if m == nil {
		return
	}
	result := "pass"
	if !passed {
		result = "fail"
	}
	m.Findings.WithLabelValues(kind, result).Inc()
}

// ObserveBatch records the size of a bulk batch.
func (m *Metrics) ObserveBatch(n int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(n))
}
