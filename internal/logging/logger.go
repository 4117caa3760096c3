// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/envlog/internal/metrics"
)

// Options configures a new Logger.
type Options struct {
	// ID is the registry key of the logger.
	ID string

	// Level is the logger threshold. Records less severe are discarded
	// before hooks run.
	Level Level

	// Sinks receive records in order.
	Sinks []Sink

	// CaptureOrigin records the call site of every application record so
	// hooks can annotate it. Attaching an OriginHook also turns it on.
	CaptureOrigin bool
}

// core is the state shared by a logger and all its child views.
type core struct {
	id            string
	level         Level
	sinks         []Sink
	captureOrigin atomic.Bool

	mu         sync.RWMutex
	hooks      []Hook
	listeners  []Listener
	middleware func(http.Handler) http.Handler

	closeOnce sync.Once
	closeErr  error
}

// Logger is an assembled logger instance: a threshold, an ordered sink
// list, an ordered hook list and a request middleware.
//
// Child views created with With or At share sinks, hooks and listeners
// with their parent. All methods are safe for concurrent use.
type Logger struct {
	c      *core
	fields Fields
	origin *Origin
}

// New creates a logger. The middleware defaults to a pass-through.
func New(opts Options) *Logger {
	sinks := make([]Sink, len(opts.Sinks))
	copy(sinks, opts.Sinks)

	c := &core{
		id:         opts.ID,
		level:      opts.Level,
		sinks:      sinks,
		middleware: PassThrough,
	}
	c.captureOrigin.Store(opts.CaptureOrigin)

	return &Logger{c: c}
}

// PassThrough is a middleware that calls the next handler unchanged.
func PassThrough(next http.Handler) http.Handler {
	return next
}

// ID returns the registry key of the logger.
func (l *Logger) ID() string { return l.c.id }

// Level returns the logger threshold.
func (l *Logger) Level() Level { return l.c.level }

// SinkNames returns the sink names in dispatch order.
func (l *Logger) SinkNames() []string {
	names := make([]string, len(l.c.sinks))
	for i, s := range l.c.sinks {
		names[i] = s.Name()
	}
	return names
}

// With returns a child logger that adds fields to every record.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{c: l.c, fields: merge(l.fields, fields), origin: l.origin}
}

// At returns a child logger whose records carry the given origin.
//
//	logger.At(logging.Here()).Debug("loaded")
func (l *Logger) At(o Origin) *Logger {
	return &Logger{c: l.c, fields: l.fields, origin: &o}
}

// AddHook attaches h unless a hook with the same name is already
// attached. It reports whether the hook was added. An OriginHook that
// needs origins turns on call-site capture.
func (l *Logger) AddHook(h Hook) bool {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()

	for _, existing := range l.c.hooks {
		if existing.Name() == h.Name() {
			return false
		}
	}
	l.c.hooks = append(l.c.hooks, h)

	if oh, ok := h.(OriginHook); ok && oh.NeedsOrigin() {
		l.c.captureOrigin.Store(true)
	}
	return true
}

// HasHook reports whether a hook with the given name is attached.
func (l *Logger) HasHook(name string) bool {
	l.c.mu.RLock()
	defer l.c.mu.RUnlock()

	for _, h := range l.c.hooks {
		if h.Name() == name {
			return true
		}
	}
	return false
}

// Hooks returns the attached hook names in order.
func (l *Logger) Hooks() []string {
	l.c.mu.RLock()
	defer l.c.mu.RUnlock()

	names := make([]string, len(l.c.hooks))
	for i, h := range l.c.hooks {
		names[i] = h.Name()
	}
	return names
}

// OnEmit subscribes fn to emission notifications. fn is called once per
// sink that accepted a record.
func (l *Logger) OnEmit(fn Listener) {
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.listeners = append(l.c.listeners, fn)
}

// Middleware returns the request middleware attached to the logger.
func (l *Logger) Middleware() func(http.Handler) http.Handler {
	l.c.mu.RLock()
	defer l.c.mu.RUnlock()
	return l.c.middleware
}

// SetMiddleware replaces the request middleware. A nil mw installs PassThrough.
func (l *Logger) SetMiddleware(mw func(http.Handler) http.Handler) {
	if mw == nil {
		mw = PassThrough
	}
	l.c.mu.Lock()
	defer l.c.mu.Unlock()
	l.c.middleware = mw
}

// Emerg logs at emerg level.
func (l *Logger) Emerg(msg string, fields ...Fields) {
	l.log(LevelEmerg, SourceApplication, msg, fields)
}

// Alert logs at alert level.
func (l *Logger) Alert(msg string, fields ...Fields) {
	l.log(LevelAlert, SourceApplication, msg, fields)
}

// Crit logs at crit level.
func (l *Logger) Crit(msg string, fields ...Fields) {
	l.log(LevelCrit, SourceApplication, msg, fields)
}

// Err logs at err level.
func (l *Logger) Err(msg string, fields ...Fields) {
	l.log(LevelErr, SourceApplication, msg, fields)
}

// Warning logs at warning level.
func (l *Logger) Warning(msg string, fields ...Fields) {
	l.log(LevelWarning, SourceApplication, msg, fields)
}

// Notice logs at notice level.
func (l *Logger) Notice(msg string, fields ...Fields) {
	l.log(LevelNotice, SourceApplication, msg, fields)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, SourceApplication, msg, fields)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, SourceApplication, msg, fields)
}

// Log logs at an arbitrary level.
func (l *Logger) Log(level Level, msg string, fields ...Fields) {
	l.log(level, SourceApplication, msg, fields)
}

// LogRequest logs a formatted access-log line at info level, marked as
// middleware-originated so hooks do not annotate or enrich it as
// application output.
func (l *Logger) LogRequest(line string) {
	l.log(LevelInfo, SourceMiddleware, line, nil)
}

// log builds the record. It must be called directly from the exported
// level methods so the origin frame skip stays fixed.
func (l *Logger) log(level Level, src Source, msg string, fields []Fields) {
	if !level.Enabled(l.c.level) {
		return
	}

	rec := Record{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Source:  src,
		Origin:  l.origin,
	}

	sets := make([]Fields, 0, len(fields)+1)
	sets = append(sets, l.fields)
	sets = append(sets, fields...)
	rec.Meta = merge(sets...)

	if rec.Origin == nil && src == SourceApplication && l.c.captureOrigin.Load() {
		o := callerOrigin(3)
		rec.Origin = &o
	}

	l.dispatch(rec, false)
}

// dispatch runs hooks and writes the record to every admitting sink.
// Panic records go to panic-handling sinks regardless of their level.
func (l *Logger) dispatch(rec Record, panicking bool) {
	l.c.mu.RLock()
	hooks := l.c.hooks
	listeners := l.c.listeners
	l.c.mu.RUnlock()

	for _, h := range hooks {
		rec = h.Apply(rec)
	}
	if rec.Meta == nil {
		rec.Meta = Fields{}
	}

	for _, s := range l.c.sinks {
		if panicking {
			if !s.HandlesPanics() {
				continue
			}
		} else if !rec.Level.Enabled(s.Level()) {
			continue
		}

		if err := s.Write(rec); err != nil {
			ReportSinkError(s.Name(), err)
			continue
		}

		metrics.RecordsEmitted.WithLabelValues(s.Name(), rec.Level.String()).Inc()

		for _, fn := range listeners {
			fn(Emission{
				Sink:    s.Name(),
				Level:   rec.Level,
				Message: rec.Message,
				Meta:    merge(rec.Meta),
			})
		}
	}
}

// CapturePanic writes a recovered panic to every sink that handles panics,
// then re-panics. It must be deferred directly:
//
//	defer logger.CapturePanic()
func (l *Logger) CapturePanic() {
	r := recover()
	if r == nil {
		return
	}

	rec := Record{
		Time:    time.Now(),
		Level:   LevelEmerg,
		Message: fmt.Sprintf("panic: %v", r),
		Meta:    merge(l.fields, Fields{"stack": string(debug.Stack())}),
		Source:  SourceApplication,
		Origin:  l.origin,
	}
	l.dispatch(rec, true)

	panic(r)
}

// Close closes every sink once. Later calls return the first result.
func (l *Logger) Close() error {
	l.c.closeOnce.Do(func() {
		var errs []error
		for _, s := range l.c.sinks {
			if err := s.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
			}
		}
		l.c.closeErr = errors.Join(errs...)
	})
	return l.c.closeErr
}

// Rotate rotates every sink that implements Rotator.
func (l *Logger) Rotate() error {
	var errs []error
	for _, s := range l.c.sinks {
		r, ok := s.(Rotator)
		if !ok {
			continue
		}
		if err := r.Rotate(); err != nil {
			errs = append(errs, fmt.Errorf("rotate %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
