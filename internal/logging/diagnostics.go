// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/envlog/internal/metrics"
)

// DiagConfig configures the diagnostics logger, which reports problems
// inside envlog itself (sink failures, breaker transitions, dropped records).
// It never receives application records.
type DiagConfig struct {
	// Level is the minimum zerolog level: trace, debug, info, warn, error, disabled.
	// Default: warn
	Level string

	// Format is json or console.
	// Default: console
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultDiagConfig returns the diagnostics configuration, honoring
// LOG_DIAG_LEVEL and LOG_DIAG_FORMAT.
func DefaultDiagConfig() DiagConfig {
	cfg := DiagConfig{
		Level:  "warn",
		Format: "console",
		Output: os.Stderr,
	}
	if v := os.Getenv("LOG_DIAG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_DIAG_FORMAT"); v != "" {
		cfg.Format = v
	}
	return cfg
}

var (
	diag   zerolog.Logger
	diagMu sync.RWMutex
)

//nolint:gochecknoinits // diagnostics must work before InitDiagnostics is called
func init() {
	initDiag(DefaultDiagConfig())
}

// InitDiagnostics reconfigures the diagnostics logger.
// It is safe to call multiple times.
func InitDiagnostics(cfg DiagConfig) {
	diagMu.Lock()
	defer diagMu.Unlock()
	initDiag(cfg)
}

// initDiag must be called with diagMu held (or from init).
func initDiag(cfg DiagConfig) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	output := cfg.Output
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
		}
	}

	diag = zerolog.New(output).
		Level(parseDiagLevel(cfg.Level)).
		With().
		Timestamp().
		Str("component", "envlog").
		Logger()
}

// parseDiagLevel converts a string level to zerolog.Level.
func parseDiagLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// Diag returns the diagnostics logger.
//
//	logging.Diag().Warn().Str("sink", "slack").Msg("circuit open")
func Diag() zerolog.Logger {
	diagMu.RLock()
	defer diagMu.RUnlock()
	return diag
}

// SetDiag replaces the diagnostics logger. Useful in tests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetDiag(l zerolog.Logger) {
	diagMu.Lock()
	defer diagMu.Unlock()
	diag = l
}

// ReportSinkError records a sink failure. Asynchronous sinks call this
// from their workers; the logger calls it when Write fails.
func ReportSinkError(sink string, err error) {
	metrics.SinkErrors.WithLabelValues(sink).Inc()
	l := Diag()
	l.Warn().Str("sink", sink).Err(err).Msg("sink write failed")
}

// ReportDropped records a record that never reached its sink.
func ReportDropped(sink, reason string) {
	metrics.RecordsDropped.WithLabelValues(sink, reason).Inc()
	l := Diag()
	l.Debug().Str("sink", sink).Str("reason", reason).Msg("record dropped")
}
