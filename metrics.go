package moltbook

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// backendRequests counts outgoing calls by backend, method and outcome.
	// outcome is the numeric status code, or "network_error" when no response arrived.
	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moltbook_backend_requests_total",
			Help: "Total number of requests sent to Moltbook and Moltiverse backends.",
		},
		[]string{"backend", "method", "outcome"},
	)

	// backendLatency records round-trip time per backend. Paths are left out
	// because they embed post and agent identifiers.
	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moltbook_backend_request_duration_seconds",
			Help:    "Duration of backend requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(backendRequests, backendLatency)
}

// metricsHandler serves the default registry
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
