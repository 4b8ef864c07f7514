package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics records request timings and insight computation counts.
type APIMetrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	insightComputed *prometheus.CounterVec
	insightFailed   *prometheus.CounterVec
}

// NewAPIMetrics registers the API metrics on a fresh registry.
func NewAPIMetrics() *APIMetrics {
	registry := prometheus.NewRegistry()
	return newAPIMetrics(registry)
}

func newAPIMetrics(registry *prometheus.Registry) *APIMetrics {
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	insightComputed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_computations_total",
		Help: "Completed insight computations by kind.",
	}, []string{"kind"})
	insightFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_failures_total",
		Help: "Failed insight computations by kind.",
	}, []string{"kind"})
	registry.MustRegister(requestDuration, insightComputed, insightFailed)
	return &APIMetrics{
		registry:        registry,
		requestDuration: requestDuration,
		insightComputed: insightComputed,
		insightFailed:   insightFailed,
	}
}

// ObserveRequest records the duration of one handled request.
func (m *APIMetrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.
		WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).
		Observe(duration.Seconds())
}

// IncInsight increments the computation counter for the named insight kind.
func (m *APIMetrics) IncInsight(kind string) {
	if m == nil || m.insightComputed == nil {
		return
	}
	m.insightComputed.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncInsightFailure increments the failure counter for the named insight kind.
func (m *APIMetrics) IncInsightFailure(kind string) {
	if m == nil || m.insightFailed == nil {
		return
	}
	m.insightFailed.WithLabelValues(normalizeLabel(kind)).Inc()
}

// Handler exposes the registry in the Prometheus exposition format.
func (m *APIMetrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
