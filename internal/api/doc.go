// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package api serves a small HTTP API over the logger registry.

Routes:

	GET  /health               liveness and registered logger ids
	GET  /metrics              Prometheus metrics
	POST /api/v1/log           emit {"level","message","meta"} through the logger
	GET  /api/v1/loggers       list registered loggers
	GET  /api/v1/loggers/{id}  one logger

Every request gets an X-Request-ID and passes through the logger's access
log middleware. The /api/v1 routes are rate limited per client IP with
go-chi/httprate; CORS is handled by go-chi/cors.

Responses share one envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","request_id":"..."}}
	{"status":"error","error":{"code":"VALIDATION_FAILED","message":"...","details":{...}},"metadata":{...}}
*/
package api
