// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package config resolves the settings a logger is assembled from.

Values are layered with koanf v2, lowest priority first:

 1. Built-in defaults
 2. An optional YAML file named by LOG_CONFIG_PATH
 3. Environment variables
 4. Fields explicitly set on the Config passed to Load

Zero values in the explicit Config never override lower layers, so callers
only set what they mean to change.

# Environment Variables

Profile and registry:
  - NODE_ENV: profile name (production, development, debug, test)
  - LOG_ID: registry id (default: brinkbit)
  - LOG_ACCESS_FORMAT: access-log format (dev, combined, common, short, tiny)

File sink:
  - LOG_FILE: path (default: logs.log)
  - LOG_SIZE: rotation size in bytes (default: 5242880)
  - LOG_COUNT: rotated files kept (default: 5)
  - LOG_COMPRESS: gzip rotated files (default: false)

Slack sink (omitted unless SLACK_HOOK is set):
  - SLACK_HOOK, SLACK_TEAM, SLACK_CHANNEL, SLACK_CRIT_CHANNEL
  - SLACK_USERNAME, SLACK_ICON_EMOJI, SLACK_LEVEL (default: warning)

Papertrail sink (omitted unless PAPERTRAIL_HOST is set):
  - PAPERTRAIL_HOST, PAPERTRAIL_PORT (default: 514)
  - PAPERTRAIL_PROGRAM (default: logger id), PAPERTRAIL_HOSTNAME (default: os.Hostname)
  - PAPERTRAIL_NETWORK: udp, tcp or tls (default: udp)
  - PAPERTRAIL_LEVEL (default: info)

Enrichment:
  - CONTAINER_NAME, SERVICE_NAME, STACK_NAME

# YAML File

	id: billing
	profile: production
	file:
	  path: /var/log/billing.log
	  max_size: 10485760
	slack:
	  hook_url: https://hooks.slack.com/services/T000/B000/XXXX
	  crit_channel: "#pager"
	papertrail:
	  host: logs.papertrailapp.com
	  port: 12345
	  network: tls

# Validation

Load never fails on bad values. Sanitize validates with go-playground/validator
and resets each invalid field: required fields return to their defaults and
an invalid Slack or Papertrail parameter disables that sink. Corrections are
reported through the diagnostics logger.
*/
package config
