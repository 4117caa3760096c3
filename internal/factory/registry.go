// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package factory

import (
	"github.com/tomtom215/envlog/internal/config"
	"github.com/tomtom215/envlog/internal/logging"
)

// std is the process-wide factory behind the package-level functions.
var std = New()

// Configure configures a logger in the process-wide registry.
func Configure(explicit *config.Config) (*logging.Logger, error) {
	return std.Configure(explicit)
}

// Get looks up a logger in the process-wide registry.
func Get(id string) (*logging.Logger, bool) {
	return std.Get(id)
}

// Std returns the process-wide factory.
func Std() *Factory {
	return std
}

// Default returns the logger registered under the default id, configuring
// it from the environment on first use. If the configuration cannot be
// loaded the built-in defaults are used.
func Default() *logging.Logger {
	if l, ok := std.Get(config.DefaultID); ok {
		return l
	}

	l, err := std.Configure(&config.Config{ID: config.DefaultID})
	if err != nil {
		diag := logging.Diag()
		diag.Error().Err(err).Msg("falling back to default logger configuration")
		return std.Build(config.Defaults())
	}
	return l
}

// Rotate rotates the file sinks of every logger in the process-wide registry.
func Rotate() error {
	return std.Rotate()
}

// CloseAll closes every logger in the process-wide registry.
func CloseAll() error {
	return std.Close()
}
