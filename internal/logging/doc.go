// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

// Package logging provides the envlog logger instance: syslog levels,
// records, hooks, sinks and the dispatch pipeline between them.
//
// # Overview
//
// A Logger owns a severity threshold, an ordered list of sinks and an
// ordered list of hooks. Each logging call builds a Record, runs it through
// the hooks, and writes it to every sink whose level admits it:
//
//	logger := logging.New(logging.Options{
//	    ID:    "api",
//	    Level: logging.LevelInfo,
//	    Sinks: []logging.Sink{fileSink, slackSink},
//	})
//	logger.Crit("payment provider unreachable", logging.Fields{"provider": "acme"})
//
// Loggers are normally assembled by the factory package from a profile;
// this package does not know about profiles.
//
// # Levels
//
// Levels follow the syslog scale, most to least severe:
//
//	emerg, alert, crit, err, warning, notice, info, debug
//
// A record passes a threshold when it is at least as severe.
//
// # Hooks
//
// Hooks are named. AddHook refuses a second hook with the same name, so a
// logger that is configured repeatedly never runs a hook twice per record.
//
// # Emission Notifications
//
// OnEmit listeners are called once for every sink that accepted a record,
// carrying the sink name, level, message and final metadata.
//
// # Diagnostics
//
// Problems inside envlog (sink write failures, dropped records) never
// reach the caller. They are counted in Prometheus and written to a
// separate zerolog diagnostics logger on stderr:
//
//	LOG_DIAG_LEVEL   - trace, debug, info, warn, error, disabled (default: warn)
//	LOG_DIAG_FORMAT  - json, console (default: console)
//
// # slog Adapter
//
// NewSlogLogger exposes a Logger as *slog.Logger for libraries that need one.
package logging
