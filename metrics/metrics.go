package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexusarena_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nexusarena_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestsInProgress counts HTTP requests currently being processed.
	RequestsInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nexusarena_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RegistrationOutcomes counts tournament registration attempts by
	// outcome: accepted, duplicate, or full.
	RegistrationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexusarena_registrations_total",
			Help: "Total number of tournament registration attempts by outcome",
		},
		[]string{"outcome"},
	)
)
