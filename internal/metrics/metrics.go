// Package metrics defines Prometheus metrics for the GymFeeTrack API server.
//
// Metric naming follows Prometheus conventions:
//   - gymfeetrack_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one server. Each server gets its own
// registry so several can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by method, route and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds is a histogram of request latency by method and route.
	RequestDurationSeconds *prometheus.HistogramVec

	// LoginsTotal counts token requests by outcome (success, failure).
	LoginsTotal *prometheus.CounterVec

	// SubscriptionsExpiredTotal counts subscriptions moved to Expired by the sweep.
	SubscriptionsExpiredTotal prometheus.Counter
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymfeetrack_http_requests_total",
				Help: "Total HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gymfeetrack_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymfeetrack_logins_total",
				Help: "Total token requests by outcome.",
			},
			[]string{"outcome"},
		),
		SubscriptionsExpiredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gymfeetrack_subscriptions_expired_total",
				Help: "Total subscriptions marked Expired by the expiry sweep.",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.LoginsTotal,
		m.SubscriptionsExpiredTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
