// Package metrics provides Prometheus metrics for the assessment engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for assessment processing.
type Metrics struct {
	AssessmentsTotal *prometheus.CounterVec
	Duration         prometheus.Histogram
	StopsTotal       prometheus.Counter
	EscalationsTotal prometheus.Counter
}

// New creates and registers assessment metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AssessmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskgate_assessments_total",
				Help: "Total number of assessments by final band and method.",
			},
			[]string{"band", "method"},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "riskgate_assessment_duration_seconds",
				Help:    "Time taken to evaluate a subject.",
				Buckets: prometheus.DefBuckets,
			},
		),
		StopsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "riskgate_assessment_stops_total",
				Help: "Assessments terminated by a prohibited-country stop.",
			},
		),
		EscalationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "riskgate_assessment_escalations_total",
				Help: "Assessments escalated to AutoHigh.",
			},
		),
	}
}

// ObserveResult records one completed assessment. Nil-safe.
func (m *Metrics) ObserveResult(band, method string, seconds float64) {
	if m == nil {
		return
	}
	m.AssessmentsTotal.WithLabelValues(band, method).Inc()
	m.Duration.Observe(seconds)
}

// ObserveStop counts an immediate stop. Nil-safe.
func (m *Metrics) ObserveStop() {
	if m == nil {
		return
	}
	m.StopsTotal.Inc()
}

// ObserveEscalation counts an auto-high escalation. Nil-safe.
func (m *Metrics) ObserveEscalation() {
	if m == nil {
		return
	}
	m.EscalationsTotal.Inc()
}
