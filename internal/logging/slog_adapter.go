// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
)

// SlogHandler implements slog.Handler on top of an envlog Logger, so
// libraries that require *slog.Logger write through the same hooks and sinks.
//
// Usage:
//
//	slogger := slog.New(logging.NewSlogHandler(logger))
type SlogHandler struct {
	logger *Logger
	attrs  []slog.Attr
	groups []string
}

// NewSlogHandler creates a new slog.Handler that writes to logger.
func NewSlogHandler(logger *Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// NewSlogLogger creates an slog.Logger backed by logger.
func NewSlogLogger(logger *Logger) *slog.Logger {
	return slog.New(NewSlogHandler(logger))
}

// Enabled reports whether the handler handles records at the given level.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogToLevel(level).Enabled(h.logger.Level())
}

// Handle handles the Record.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(Fields, len(h.attrs)+record.NumAttrs())

	for _, attr := range h.attrs {
		addAttr(fields, attr, h.groups)
	}
	record.Attrs(func(attr slog.Attr) bool {
		addAttr(fields, attr, h.groups)
		return true
	})

	logger := h.logger
	if record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		logger = logger.At(Origin{
			Function: filepath.Base(f.Function),
			File:     filepath.Base(f.File),
			Line:     f.Line,
		})
	}

	logger.Log(slogToLevel(record.Level), record.Message, fields)
	return nil
}

// WithAttrs returns a new Handler with the given attributes.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &SlogHandler{
		logger: h.logger,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &SlogHandler{
		logger: h.logger,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

// addAttr flattens a slog attribute into fields, prefixing group names.
func addAttr(fields Fields, attr slog.Attr, groups []string) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		sub := groups
		if attr.Key != "" {
			sub = append(groups[:len(groups):len(groups)], attr.Key)
		}
		for _, ga := range attr.Value.Group() {
			addAttr(fields, ga, sub)
		}
		return
	}

	key := attr.Key
	for i := len(groups) - 1; i >= 0; i-- {
		key = groups[i] + "." + key
	}
	fields[key] = attr.Value.Any()
}

// slogToLevel converts slog.Level to a syslog severity.
func slogToLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelInfo:
		return LevelDebug
	case level < slog.LevelWarn:
		return LevelInfo
	case level < slog.LevelError:
		return LevelWarning
	default:
		return LevelErr
	}
}
