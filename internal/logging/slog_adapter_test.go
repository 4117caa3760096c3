// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func newSlogTest(level Level) (*slog.Logger, *memSink) {
	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: level, Sinks: []Sink{sink}})
	return NewSlogLogger(l), sink
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold Level
		slogLevel slog.Level
		want      bool
	}{
		{"debug logger enables debug", LevelDebug, slog.LevelDebug, true},
		{"info logger disables debug", LevelInfo, slog.LevelDebug, false},
		{"info logger enables info", LevelInfo, slog.LevelInfo, true},
		{"warning logger disables info", LevelWarning, slog.LevelInfo, false},
		{"warning logger enables warn", LevelWarning, slog.LevelWarn, true},
		{"emerg logger disables error", LevelEmerg, slog.LevelError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewSlogHandler(New(Options{Level: tt.threshold}))
			if got := h.Enabled(context.Background(), tt.slogLevel); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.slogLevel, got, tt.want)
			}
		})
	}
}

func TestSlogToLevel(t *testing.T) {
	t.Parallel()

	tests := map[slog.Level]Level{
		slog.LevelDebug - 4: LevelDebug,
		slog.LevelDebug:     LevelDebug,
		slog.LevelInfo:      LevelInfo,
		slog.LevelInfo + 2:  LevelInfo,
		slog.LevelWarn:      LevelWarning,
		slog.LevelError:     LevelErr,
		slog.LevelError + 4: LevelErr,
	}
	for in, want := range tests {
		if got := slogToLevel(in); got != want {
			t.Errorf("slogToLevel(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	logger, sink := newSlogTest(LevelDebug)
	logger.Warn("disk slow", "latency_ms", 120, "device", "sda")

	recs := sink.all()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Level != LevelWarning || rec.Message != "disk slow" {
		t.Errorf("record = %s %q", rec.Level, rec.Message)
	}
	want := Fields{"latency_ms": int64(120), "device": "sda"}
	if !reflect.DeepEqual(rec.Meta, want) {
		t.Errorf("Meta = %v, want %v", rec.Meta, want)
	}
	if rec.Origin == nil || rec.Origin.File != "slog_adapter_test.go" {
		t.Errorf("Origin = %v, want caller in slog_adapter_test.go", rec.Origin)
	}
}

func TestSlogHandler_ThresholdApplies(t *testing.T) {
	t.Parallel()

	logger, sink := newSlogTest(LevelWarning)
	logger.Info("ignored")
	logger.Error("kept")

	recs := sink.all()
	if len(recs) != 1 || recs[0].Message != "kept" || recs[0].Level != LevelErr {
		t.Errorf("records = %+v", recs)
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	logger, sink := newSlogTest(LevelDebug)

	logger.With("service", "billing").
		WithGroup("req").
		Info("handled", "method", "GET", slog.Group("user", "id", 7))

	recs := sink.all()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := Fields{
		"req.service": "billing",
		"req.method":  "GET",
		"req.user.id": int64(7),
	}
	if !reflect.DeepEqual(recs[0].Meta, want) {
		t.Errorf("Meta = %v, want %v", recs[0].Meta, want)
	}
}

func TestSlogHandler_EmptyGroupAndAttrs(t *testing.T) {
	t.Parallel()

	h := NewSlogHandler(New(Options{}))
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}

	logger, sink := newSlogTest(LevelDebug)
	logger.Info("inline", slog.Group("", "flat", true), slog.Attr{})

	meta := sink.all()[0].Meta
	if !reflect.DeepEqual(meta, Fields{"flat": true}) {
		t.Errorf("Meta = %v", meta)
	}
}

func TestSlogHandler_WithAttrsDoesNotLeak(t *testing.T) {
	t.Parallel()

	logger, sink := newSlogTest(LevelDebug)
	base := logger.With("a", 1)
	_ = base.With("b", 2)
	base.Info("x")

	meta := sink.all()[0].Meta
	if _, ok := meta["b"]; ok {
		t.Errorf("sibling attrs leaked: %v", meta)
	}
	if !strings.Contains(sink.all()[0].Message, "x") {
		t.Error("message lost")
	}
}
