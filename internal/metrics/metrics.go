// Package metrics defines the Prometheus metric collectors used across
// the service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service. Each
// instance carries its own registry so construction is repeatable.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	TranslationsTotal   *prometheus.CounterVec
	TranslationSeconds  prometheus.Histogram
	ChunksPerDocument   prometheus.Histogram
	RedFlagsPerDocument prometheus.Histogram

	ProviderCallsTotal  *prometheus.CounterVec
	ProviderCallSeconds *prometheus.HistogramVec

	SynthesisTotal   *prometheus.CounterVec
	SynthesisSeconds prometheus.Histogram

	UploadsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		TranslationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "translations_total",
				Help: "Total translation runs by outcome (done, failed, rejected).",
			},
			[]string{"outcome"},
		),
		TranslationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "translation_duration_seconds",
				Help:    "Whole-document translation latency in seconds.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		ChunksPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "translation_chunks_per_document",
				Help:    "Number of chunks a document was split into.",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
		),
		RedFlagsPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "translation_red_flags_per_document",
				Help:    "Number of red flags reported per document.",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
		),
		ProviderCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_calls_total",
				Help: "Completion calls by backend and outcome (ok or error kind).",
			},
			[]string{"backend", "outcome"},
		),
		ProviderCallSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_call_duration_seconds",
				Help:    "Completion call latency in seconds by backend.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"backend"},
		),
		SynthesisTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "synthesis_total",
				Help: "Speech synthesis runs by outcome (ok, error).",
			},
			[]string{"outcome"},
		),
		SynthesisSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "synthesis_duration_seconds",
				Help:    "Speech synthesis latency in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uploads_total",
				Help: "Upload extractions by file type and outcome.",
			},
			[]string{"file_type", "outcome"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.TranslationsTotal,
		m.TranslationSeconds,
		m.ChunksPerDocument,
		m.RedFlagsPerDocument,
		m.ProviderCallsTotal,
		m.ProviderCallSeconds,
		m.SynthesisTotal,
		m.SynthesisSeconds,
		m.UploadsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
