// Package metrics exposes Prometheus counters for the analysis service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	analyses       *prometheus.CounterVec
	peopleDetected prometheus.Counter
	failures       *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_analyses_total",
		Help: "Completed frame analyses by risk level.",
	}, []string{"risk"})

	m.peopleDetected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_people_detected_total",
		Help: "Total person detections across all analyzed frames.",
	})

	m.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_analysis_failures_total",
		Help: "Failed analyses by stage (decode, detection, extract, internal).",
	}, []string{"stage"})

	m.registry.MustRegister(m.analyses, m.peopleDetected, m.failures)
	return m
}

// ObserveAnalysis records one completed analysis.
func (m *Metrics) ObserveAnalysis(risk string, peopleCount int) {
	m.analyses.WithLabelValues(risk).Inc()
	m.peopleDetected.Add(float64(peopleCount))
}

// ObserveFailure records one failed analysis at the given stage.
func (m *Metrics) ObserveFailure(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
