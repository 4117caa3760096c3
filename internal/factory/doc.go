// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package factory assembles loggers from a deployment profile and layered
configuration, and keeps them in a registry keyed by id.

Configure resolves the configuration (defaults, optional YAML file,
environment, explicit values), picks the profile, and then:

  - builds the profile's sinks, skipping Slack and Papertrail when their
    webhook URL or host is not set
  - attaches the profile's hooks, once per name
  - installs the access-log middleware, or a pass-through for profiles
    without access logging

The first Configure call for an id fixes its threshold and sinks. Later
calls return the same logger.

Usage:

	logger, err := factory.Configure(&config.Config{Filename: "orders.go"})
	if err != nil {
	    return err
	}
	defer factory.CloseAll()

	logger.Info("service started", logging.Fields{"port": 8080})
	router.Use(logger.Middleware())

Loggers should be configured during single-threaded startup. Logging
through a configured logger is safe for concurrent use.
*/
package factory
