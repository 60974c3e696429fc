// Package metrics exposes Prometheus collectors for the lead-generation service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_jobs_total",
			Help: "Total number of jobs reaching a terminal state, labeled by status.",
		},
		[]string{"status"},
	)

	probesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_probes_total",
			Help: "Total number of website probes, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	probeDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadflow_probe_duration_seconds",
			Help:    "Histogram of per-site probe latencies.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveJob increments the terminal-job counter for the given status.
func ObserveJob(status string) {
	jobsTotal.WithLabelValues(status).Inc()
}

// ObserveProbe records one finished probe.
func ObserveProbe(outcome string, duration time.Duration) {
	probesTotal.WithLabelValues(outcome).Inc()
	probeDurationSeconds.Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request counter.
func ObserveHTTPRequest(method string, code int) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
}
