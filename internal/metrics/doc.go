// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package metrics provides Prometheus instrumentation for envlog.

# Available Metrics

Record pipeline:
  - envlog_records_emitted_total: Records accepted by a sink (counter)
    Labels: sink, level
  - envlog_sink_errors_total: Sink write or delivery failures (counter)
    Labels: sink
  - envlog_records_dropped_total: Records that never reached a sink (counter)
    Labels: sink, reason
  - envlog_sink_queue_depth: Pending records in asynchronous sinks (gauge)
    Labels: sink
  - envlog_loggers_configured: Loggers in the registry (gauge)

Circuit breaker (Slack delivery):
  - envlog_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - envlog_circuit_breaker_requests_total: Labels: name, result
  - envlog_circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

HTTP (metrics middleware):
  - envlog_http_requests_total: Labels: method, status_code
  - envlog_http_request_duration_seconds: Labels: method
  - envlog_http_active_requests

Labels never include request paths, keeping cardinality bounded.

# Usage

	http.Handle("/metrics", promhttp.Handler())

All metrics register with the default Prometheus registry at package init.
*/
package metrics
