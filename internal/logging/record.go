// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
)

// Fields is the metadata attached to a record.
type Fields map[string]any

// Source tells hooks where a record came from.
type Source uint8

const (
	// SourceApplication marks records produced by application code.
	SourceApplication Source = iota
	// SourceMiddleware marks access-log records produced by the request middleware.
	SourceMiddleware
)

// String returns the source name.
func (s Source) String() string {
	if s == SourceMiddleware {
		return "middleware"
	}
	return "application"
}

// Origin is a source location attached to a record.
// Column is zero when unknown; Go does not report columns.
type Origin struct {
	Function string
	File     string
	Line     int
	Column   int
}

// String formats the origin as "fn (file:line)" or "fn (file:line:col)".
func (o Origin) String() string {
	fn := o.Function
	if fn == "" {
		fn = "<anonymous>"
	}
	if o.Column > 0 {
		return fmt.Sprintf("%s (%s:%d:%d)", fn, o.File, o.Line, o.Column)
	}
	return fmt.Sprintf("%s (%s:%d)", fn, o.File, o.Line)
}

// Here returns the origin of its caller.
//
//	logger.At(logging.Here()).Info("cache warmed")
func Here() Origin {
	return callerOrigin(2)
}

// callerOrigin resolves the frame skip levels above its own caller.
func callerOrigin(skip int) Origin {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Origin{}
	}
	o := Origin{File: filepath.Base(file), Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		o.Function = filepath.Base(fn.Name())
	}
	return o
}

// Record is a single log entry flowing through hooks to sinks.
type Record struct {
	Time    time.Time
	Level   Level
	Message string
	Meta    Fields
	Source  Source
	Origin  *Origin
}

// merge flattens field sets into a fresh map. Later keys win.
func merge(sets ...Fields) Fields {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make(Fields, n)
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
