// Package observability provides process-local metrics for the client.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors shared across the client.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	SubmissionsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mirror",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend calls issued by the gateway client.",
		}, []string{"operation", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mirror",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Backend call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mirror",
			Subsystem: "quiz",
			Name:      "submissions_total",
			Help:      "Quiz submissions by classified outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration, m.SubmissionsTotal)
	return m
}

// ObserveRequest records one gateway call.
func (m *Metrics) ObserveRequest(operation string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
