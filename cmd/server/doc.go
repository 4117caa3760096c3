// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

// Package main runs a small HTTP service on top of an envlog logger.
//
// The logger is configured from the environment (NODE_ENV, LOG_*, SLACK_*,
// PAPERTRAIL_*), so the same binary logs to the console in development and
// to file, Slack and Papertrail in production. Requests pass through the
// profile's access log middleware, and records can be submitted with
// POST /api/v1/log.
//
// # Configuration
//
// Server settings are read from SERVER_* variables:
//
//	SERVER_ADDR              listen address (default :8080)
//	SERVER_CORS_ORIGINS      comma-separated allowed origins
//	SERVER_RATE_LIMIT        API requests per client per window (default 100, 0 disables)
//	SERVER_RATE_WINDOW       rate limit window (default 1m)
//	SERVER_SHUTDOWN_TIMEOUT  graceful shutdown bound (default 10s)
//
// # Supervision
//
// The HTTP server and the log rotation service run in a suture supervisor
// tree and restart independently on failure.
//
// # Signal Handling
//
//   - SIGINT, SIGTERM: graceful shutdown, then every logger is closed
//   - SIGHUP: rotate the file sinks of every logger
package main
