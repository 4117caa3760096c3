// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import "errors"

// Sink is an output destination for records.
type Sink interface {
	// Name identifies the sink in emission notifications and metrics.
	Name() string

	// Level is the least severe level the sink accepts.
	Level() Level

	// HandlesPanics reports whether captured panics are written to this sink.
	HandlesPanics() bool

	// Write delivers or enqueues the record. Errors never reach the
	// application; the logger reports them to diagnostics.
	Write(rec Record) error

	// Close releases resources and flushes buffered records.
	Close() error
}

// Sink errors shared by implementations.
var (
	ErrSinkClosed = errors.New("sink closed")
	ErrQueueFull  = errors.New("sink queue full")
)

// Emission describes one record accepted by one sink. Meta is a copy the
// listener may keep or modify.
type Emission struct {
	Sink    string
	Level   Level
	Message string
	Meta    Fields
}

// Listener receives emission notifications. Listeners run inline on the
// logging goroutine and must not block.
type Listener func(Emission)

// Rotator is implemented by sinks that can reopen their output, such as
// rotating files.
type Rotator interface {
	Rotate() error
}
