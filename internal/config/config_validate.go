// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package config

import (
	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/validation"
)

// Validate checks the configuration against its struct tags.
// Returns nil or a *validation.Errors.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	return nil
}

// Sanitize resets every invalid field so a logger can still be assembled.
// Required fields fall back to their defaults. An invalid parameter of an
// optional sink disables that sink. Each correction is reported to the
// diagnostics logger and returned.
func (c *Config) Sanitize() []validation.FieldError {
	verr := validation.ValidateStruct(c)
	if verr == nil {
		return nil
	}

	for _, fe := range verr.Fields() {
		c.reset(fe.Path())

		diag := logging.Diag()
		diag.Warn().
			Str("field", fe.Path()).
			Interface("value", fe.Value()).
			Str("reason", fe.Error()).
			Msg("ignoring invalid logger configuration")
	}
	return verr.Fields()
}

// reset replaces the field at path with its fallback.
func (c *Config) reset(path string) {
	switch path {
	case "id":
		c.ID = DefaultID
	case "access_format":
		c.AccessFormat = ""
	case "file.path":
		c.File.Path = DefaultFilePath
	case "file.max_size":
		c.File.MaxSize = DefaultFileMaxSize
	case "file.max_files":
		c.File.MaxFiles = DefaultFileMaxFiles
	case "slack.hook_url":
		c.Slack.HookURL = ""
	case "slack.level":
		c.Slack.Level = ""
	case "papertrail.host":
		c.Papertrail.Host = ""
	case "papertrail.port":
		c.Papertrail.Host = ""
		c.Papertrail.Port = DefaultPapertrailPort
	case "papertrail.network":
		c.Papertrail.Host = ""
		c.Papertrail.Network = DefaultNetwork
	case "papertrail.level":
		c.Papertrail.Level = ""
	}
}
