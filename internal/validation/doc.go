// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Field names in errors
// come from the koanf struct tag, so a failure on SlackConfig.HookURL is
// reported at path "slack.hook_url", the same key used in YAML config files.
//
// # Custom Tags
//
//   - loglevel: a syslog level name or alias accepted by logging.ParseLevel
//
// # Usage
//
//	type SinkConfig struct {
//	    Level string `koanf:"level" validate:"omitempty,loglevel"`
//	    Port  int    `koanf:"port" validate:"omitempty,min=1,max=65535"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    if verr.Has("port") {
//	        cfg.Port = 0
//	    }
//	}
package validation
