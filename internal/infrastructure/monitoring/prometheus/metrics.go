// Package prometheus registers and exposes the service's metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "talentscreen"

var evaluationDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

// Metrics holds every registered collector.  One instance is shared by the
// pipeline and the HTTP layer.
type Metrics struct {
	registry *prometheus.Registry

	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec
	PlagiarismFlags    prometheus.Counter
	BotClassifications prometheus.Counter
	GraderRequests     *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a registry with the process and Go collectors plus
// every application metric.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Completed evaluation runs by outcome.",
		}, []string{"outcome"}),
		EvaluationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_stage_duration_seconds",
			Help:      "Duration of each evaluation pipeline stage.",
			Buckets:   evaluationDurationBuckets,
		}, []string{"stage"}),
		PlagiarismFlags: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plagiarism_flags_total",
			Help:      "Questions flagged for cross-candidate similarity.",
		}),
		BotClassifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_classifications_total",
			Help:      "Submissions classified as likely bots.",
		}),
		GraderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grader_requests_total",
			Help:      "Remote grader calls by result.",
		}, []string{"result"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.EvaluationDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
