// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package sink provides the output destinations a logger dispatches to.

Every sink implements logging.Sink. Construction never fails and never
touches the network or the filesystem: the file sink opens lazily through
lumberjack, and the Slack and Papertrail sinks only start their delivery
workers. The Papertrail worker dials when it sends its first frame.

# Sinks

  - Console: zerolog.ConsoleWriter with syslog level labels, or raw JSON lines
  - File: JSON lines in a size-rotated file (gopkg.in/natefinch/lumberjack.v2)
  - Slack: incoming-webhook posts from a bounded queue behind a circuit breaker
  - Papertrail: RFC 5424 frames over UDP, TCP or TLS, queued the same way

# Encoding

Records are encoded with zerolog into a pooled buffer before they are
written, so write errors stay observable to the logger. Metadata keys are
written in sorted order. Keys that collide with the encoder's own fields
(time, level, message, source) are prefixed with "meta.".

# Failure Handling

Remote sinks never block the caller. Their workers report delivery
failures to the diagnostics logger and the envlog_sink_errors_total metric;
after five consecutive failures the breaker opens and records are dropped
with reason "circuit_open" until a probe succeeds.
*/
package sink

// Sink names used in emission notifications and metric labels.
const (
	NameConsole    = "console"
	NameFile       = "file"
	NameSlack      = "slack"
	NamePapertrail = "papertrail"
)
