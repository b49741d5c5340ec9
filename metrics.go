package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Fetches           *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
	Analyses          *prometheus.CounterVec
	StopwordFallbacks prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Document fetches by backend and result",
			},
			[]string{"backend", "result"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Time spent fetching and cleaning a document",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Frequency analyses by result",
			},
			[]string{"result"},
		),
		StopwordFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stopword_fallbacks_total",
				Help:      "Times the built-in stopword list replaced the configured file",
			},
		),
	}

	registry.MustRegister(m.Fetches, m.FetchDuration, m.Analyses, m.StopwordFallbacks)
	return m
}

func (m *Metrics) ObserveFetch(backend string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	var fe *FetchError
	if errors.As(err, &fe) {
		result = string(fe.Kind)
	} else if err != nil {
		result = "error"
	}
	m.Fetches.WithLabelValues(backend, result).Inc()
	m.FetchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAnalysis(entries int) {
	if m == nil {
		return
	}
	result := "ok"
	if entries == 0 {
		result = "empty"
	}
	m.Analyses.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStopwordFallback() {
	if m == nil {
		return
	}
	m.StopwordFallbacks.Inc()
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
