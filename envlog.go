// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

// Package envlog assembles a structured logger for the environment it runs
// in. NODE_ENV picks one of four profiles (production, development, debug,
// test), and each profile decides the logger threshold, its sinks, its
// hooks and its HTTP access log middleware.
//
//	logger, err := envlog.Configure(&envlog.Config{Filename: "billing.go"})
//	if err != nil {
//		return err
//	}
//	defer envlog.CloseAll()
//
//	logger.Info("started", envlog.Fields{"port": 8080})
//	http.ListenAndServe(":8080", logger.Middleware()(mux))
//
// Loggers are kept in a process-wide registry keyed by Config.ID, which
// defaults to "brinkbit". Later code retrieves them with Get.
package envlog

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/tomtom215/envlog/internal/config"
	"github.com/tomtom215/envlog/internal/factory"
	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/profile"
)

type (
	// Logger is an assembled logger.
	Logger = logging.Logger
	// Level is a syslog severity.
	Level = logging.Level
	// Fields is record metadata.
	Fields = logging.Fields
	// Record is one log entry as seen by hooks and sinks.
	Record = logging.Record
	// Hook transforms records before they reach the sinks.
	Hook = logging.Hook
	// Sink is an output destination.
	Sink = logging.Sink
	// Emission describes one record accepted by one sink.
	Emission = logging.Emission

	// Config is the explicit configuration layer. Zero fields fall through
	// to the environment, then the optional config file, then defaults.
	Config = config.Config
	// FileConfig configures the rotating file sink.
	FileConfig = config.FileConfig
	// SlackConfig configures the Slack sink.
	SlackConfig = config.SlackConfig
	// PapertrailConfig configures the Papertrail sink.
	PapertrailConfig = config.PapertrailConfig
	// DeploymentConfig names the deployment for enrichment.
	DeploymentConfig = config.DeploymentConfig

	// Factory is an independent logger registry.
	Factory = factory.Factory
	// Option customizes a Factory.
	Option = factory.Option
)

// Syslog severities, most to least severe.
const (
	LevelEmerg   = logging.LevelEmerg
	LevelAlert   = logging.LevelAlert
	LevelCrit    = logging.LevelCrit
	LevelErr     = logging.LevelErr
	LevelWarning = logging.LevelWarning
	LevelNotice  = logging.LevelNotice
	LevelInfo    = logging.LevelInfo
	LevelDebug   = logging.LevelDebug
)

// Profile names.
const (
	Production  = string(profile.Production)
	Development = string(profile.Development)
	Debug       = string(profile.Debug)
	Test        = string(profile.Test)
)

// DefaultID is the registry key used when Config.ID is empty.
const DefaultID = config.DefaultID

// Configure resolves the layered configuration with cfg on top and returns
// the logger registered under the resolved id. cfg may be nil.
func Configure(cfg *Config) (*Logger, error) {
	return factory.Configure(cfg)
}

// Get returns the logger registered under id. An empty id means DefaultID.
func Get(id string) (*Logger, bool) {
	return factory.Get(id)
}

// Default returns the default logger, configuring it from the environment
// on first use.
func Default() *Logger {
	return factory.Default()
}

// Rotate reopens the file sinks of every registered logger.
func Rotate() error {
	return factory.Rotate()
}

// CloseAll flushes and closes every registered logger.
func CloseAll() error {
	return factory.CloseAll()
}

// NewFactory creates a registry independent of the process-wide one.
func NewFactory(opts ...Option) *Factory {
	return factory.New(opts...)
}

// WithConsoleOutput redirects the console sinks of a Factory.
func WithConsoleOutput(w io.Writer) Option {
	return factory.WithConsoleOutput(w)
}

// WithHTTPClient sets the client the Slack sinks of a Factory post with.
func WithHTTPClient(c *http.Client) Option {
	return factory.WithHTTPClient(c)
}

// ParseLevel converts a level name or alias to a Level.
func ParseLevel(s string) (Level, bool) {
	return logging.ParseLevel(s)
}

// NewHook adapts fn to a named Hook.
func NewHook(name string, fn func(Record) Record) Hook {
	return logging.NewHook(name, fn)
}

// PassThrough is middleware that logs nothing.
func PassThrough(next http.Handler) http.Handler {
	return logging.PassThrough(next)
}

// Slog returns a slog.Logger writing through l.
func Slog(l *Logger) *slog.Logger {
	return logging.NewSlogLogger(l)
}
