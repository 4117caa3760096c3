// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package middleware provides HTTP middleware that feeds an envlog logger.

Key Components:

  - AccessLog: one access-log line per completed request, logged at info
    and marked as middleware-originated so hooks skip origin annotation
  - RequestID: X-Request-ID propagation plus a per-request correlation ID
  - WithLogger: stores a logger in the request context for logging.Ctx
  - PrometheusMetrics: request counts, durations and in-flight gauge

All middleware use the func(http.Handler) http.Handler shape, so they plug
into chi directly:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(logger.Middleware())

# Access-Log Formats

The formats follow the morgan layouts of the same names:

	combined  :remote-addr - :remote-user [:date[clf]] ":method :url HTTP/:http-version" :status :res[content-length] ":referrer" ":user-agent"
	common    :remote-addr - :remote-user [:date[clf]] ":method :url HTTP/:http-version" :status :res[content-length]
	dev       :method :url :status :response-time ms - :res[content-length]
	short     :remote-addr :remote-user :method :url HTTP/:http-version :status :res[content-length] - :response-time ms
	tiny      :method :url :status :res[content-length] - :response-time ms

Missing values render as "-". Unknown format names fall back to combined.

The response writer is wrapped with chi's WrapResponseWriter, which keeps
http.Flusher and http.Hijacker working for streaming handlers.
*/
package middleware
