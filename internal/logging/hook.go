// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

// Hook transforms a record before it is dispatched to sinks.
// Name identifies the hook for the attach-once guard on a logger.
type Hook interface {
	Name() string
	Apply(rec Record) Record
}

// OriginHook is implemented by hooks that read Record.Origin. Attaching
// one that reports true turns on call-site capture for the logger.
type OriginHook interface {
	Hook
	NeedsOrigin() bool
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc struct {
	name   string
	fn     func(Record) Record
	origin bool
}

// NewHook wraps fn as a named hook.
func NewHook(name string, fn func(Record) Record) *HookFunc {
	return &HookFunc{name: name, fn: fn}
}

// NewOriginHook is NewHook for a hook that needs the call site of
// application records.
func NewOriginHook(name string, fn func(Record) Record) *HookFunc {
	return &HookFunc{name: name, fn: fn, origin: true}
}

// Name returns the hook name.
func (h *HookFunc) Name() string { return h.name }

// NeedsOrigin reports whether the hook was built with NewOriginHook.
func (h *HookFunc) NeedsOrigin() bool { return h.origin }

// Apply runs the wrapped function.
func (h *HookFunc) Apply(rec Record) Record { return h.fn(rec) }
