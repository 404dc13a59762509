package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	gateRejections  *prometheus.CounterVec
	eventCount      *prometheus.CounterVec
}

// NewMetrics registers collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Rendered error responses by error code.",
		}, []string{"route", "method", "code"}),
		gateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_gate_rejections_total",
			Help:      "Requests rejected by the auth gate, by stage.",
		}, []string{"stage"}),
		eventCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Session lifecycle events consumed, by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.gateRejections,
		m.eventCount,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(route, method, code).Inc()
}

// RecordGateRejection counts a rejection at the given gate stage.
func (m *Metrics) RecordGateRejection(stage string) {
	if m == nil {
		return
	}
	m.gateRejections.WithLabelValues(stage).Inc()
}

// RecordEvent counts a consumed lifecycle event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.eventCount.WithLabelValues(eventType).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
