// Package metrics exposes Prometheus instrumentation for the query
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one server instance. Using a
// dedicated registry keeps tests isolated from the global default.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal        *prometheus.CounterVec
	GuardrailRejections *prometheus.CounterVec
	RendererFallbacks   prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
	SessionsOpened      prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trainquery_queries_total",
				Help: "Queries processed, by classified intent and outcome",
			},
			[]string{"intent", "outcome"},
		),
		GuardrailRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trainquery_guardrail_rejections_total",
				Help: "Queries rejected before processing, by rule",
			},
			[]string{"rule"},
		),
		RendererFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trainquery_renderer_fallbacks_total",
				Help: "Responses produced by the local formatter after a renderer failure",
			},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trainquery_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"route"},
		),
		SessionsOpened: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trainquery_sessions_opened_total",
				Help: "Sessions created since server start",
			},
		),
	}
	m.registry.MustRegister(
		m.QueriesTotal,
		m.GuardrailRejections,
		m.RendererFallbacks,
		m.RequestDuration,
		m.SessionsOpened,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
