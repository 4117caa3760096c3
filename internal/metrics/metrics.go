// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Record pipeline metrics
	RecordsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlog_records_emitted_total",
			Help: "Total number of records accepted by a sink",
		},
		[]string{"sink", "level"},
	)

	SinkErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlog_sink_errors_total",
			Help: "Total number of sink write or delivery failures",
		},
		[]string{"sink"},
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlog_records_dropped_total",
			Help: "Total number of records dropped before delivery",
		},
		[]string{"sink", "reason"}, // reason: "queue_full", "closed", "circuit_open"
	)

	SinkQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "envlog_sink_queue_depth",
			Help: "Current number of records waiting in an asynchronous sink queue",
		},
		[]string{"sink"},
	)

	// Registry metrics
	LoggersConfigured = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "envlog_loggers_configured",
			Help: "Current number of loggers in the registry",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "envlog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlog_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlog_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP Metrics (request middleware)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envlog_http_requests_total",
			Help: "Total number of HTTP requests seen by the metrics middleware",
		},
		[]string{"method", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "envlog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "envlog_http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight HTTP requests.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}
