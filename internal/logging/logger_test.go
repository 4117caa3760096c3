// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/envlog/internal/metrics"
)

// memSink records every record written to it.
type memSink struct {
	name   string
	level  Level
	panics bool
	err    error

	mu      sync.Mutex
	records []Record
	rotated int
	closed  int
}

func (m *memSink) Name() string        { return m.name }
func (m *memSink) Level() Level        { return m.level }
func (m *memSink) HandlesPanics() bool { return m.panics }

func (m *memSink) Write(rec Record) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *memSink) all() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...)
}

// rotatingSink is a memSink that also implements Rotator.
type rotatingSink struct {
	memSink
}

func (r *rotatingSink) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotated++
	return nil
}

func TestLevel_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     Level
		threshold Level
		want      bool
	}{
		{LevelEmerg, LevelEmerg, true},
		{LevelCrit, LevelEmerg, false},
		{LevelInfo, LevelEmerg, false},
		{LevelErr, LevelInfo, true},
		{LevelInfo, LevelInfo, true},
		{LevelDebug, LevelInfo, false},
		{LevelDebug, LevelDebug, true},
	}

	for _, tt := range tests {
		if got := tt.level.Enabled(tt.threshold); got != tt.want {
			t.Errorf("%s.Enabled(%s) = %v, want %v", tt.level, tt.threshold, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Level
		ok    bool
	}{
		{"emerg", LevelEmerg, true},
		{"EMERGENCY", LevelEmerg, true},
		{"alert", LevelAlert, true},
		{"critical", LevelCrit, true},
		{"error", LevelErr, true},
		{"warn", LevelWarning, true},
		{" notice ", LevelNotice, true},
		{"info", LevelInfo, true},
		{"debug", LevelDebug, true},
		{"trace", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %s, %v; want %s, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}

	if got := ParseLevelDefault("nonsense", LevelWarning); got != LevelWarning {
		t.Errorf("ParseLevelDefault() = %s, want warning", got)
	}
	if got := Level(42).String(); got != "unknown" {
		t.Errorf("Level(42).String() = %q", got)
	}
}

func TestLogger_ThresholdAndSinkLevels(t *testing.T) {
	t.Parallel()

	chatty := &memSink{name: "chatty", level: LevelDebug}
	alerts := &memSink{name: "alerts", level: LevelWarning}
	l := New(Options{ID: "t", Level: LevelInfo, Sinks: []Sink{chatty, alerts}})

	l.Debug("dropped by threshold")
	l.Info("info only")
	l.Err("both")

	if got := len(chatty.all()); got != 2 {
		t.Errorf("chatty received %d records, want 2", got)
	}
	recs := alerts.all()
	if len(recs) != 1 || recs[0].Message != "both" || recs[0].Level != LevelErr {
		t.Errorf("alerts received %+v", recs)
	}
}

func TestLogger_LevelMethods(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})

	l.Emerg("0")
	l.Alert("1")
	l.Crit("2")
	l.Err("3")
	l.Warning("4")
	l.Notice("5")
	l.Info("6")
	l.Debug("7")
	l.Log(LevelNotice, "5b")

	want := []Level{LevelEmerg, LevelAlert, LevelCrit, LevelErr, LevelWarning, LevelNotice, LevelInfo, LevelDebug, LevelNotice}
	recs := sink.all()
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, rec := range recs {
		if rec.Level != want[i] || rec.Source != SourceApplication {
			t.Errorf("record %d: level %s source %s", i, rec.Level, rec.Source)
		}
	}
}

func TestLogger_WithMergesFields(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})

	child := l.With(Fields{"component": "billing", "attempt": 1})
	child.Info("charged", Fields{"attempt": 2, "amount": 10})

	recs := sink.all()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := Fields{"component": "billing", "attempt": 2, "amount": 10}
	if !reflect.DeepEqual(recs[0].Meta, want) {
		t.Errorf("Meta = %v, want %v", recs[0].Meta, want)
	}

	l.Info("parent")
	if meta := sink.all()[1].Meta; len(meta) != 0 {
		t.Errorf("parent record carries child fields: %v", meta)
	}
}

func TestLogger_HooksRunInOrderAndOnce(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})

	suffix := func(name, s string) Hook {
		return NewHook(name, func(rec Record) Record {
			rec.Message += s
			return rec
		})
	}

	if !l.AddHook(suffix("a", "-a")) {
		t.Error("first AddHook(a) should succeed")
	}
	if !l.AddHook(suffix("b", "-b")) {
		t.Error("AddHook(b) should succeed")
	}
	if l.AddHook(suffix("a", "-again")) {
		t.Error("second AddHook(a) should be refused")
	}

	if got := l.Hooks(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Hooks() = %v", got)
	}
	if !l.HasHook("b") || l.HasHook("c") {
		t.Error("HasHook mismatch")
	}

	l.Info("msg")
	if got := sink.all()[0].Message; got != "msg-a-b" {
		t.Errorf("Message = %q, want msg-a-b", got)
	}
}

func TestLogger_HooksAreSharedWithChildren(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})
	child := l.With(Fields{"k": "v"})

	l.AddHook(NewHook("upper", func(rec Record) Record {
		rec.Message = strings.ToUpper(rec.Message)
		return rec
	}))

	child.Info("shout")
	if got := sink.all()[0].Message; got != "SHOUT" {
		t.Errorf("Message = %q", got)
	}
}

func TestLogger_OnEmitPerAcceptingSink(t *testing.T) {
	t.Parallel()

	ok := &memSink{name: "ok", level: LevelDebug}
	broken := &memSink{name: "broken", level: LevelDebug, err: errors.New("disk full")}
	strict := &memSink{name: "strict", level: LevelErr}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{ok, broken, strict}})

	var got []Emission
	l.OnEmit(func(em Emission) { got = append(got, em) })

	before := testutil.ToFloat64(metrics.SinkErrors.WithLabelValues("broken"))
	l.Info("hello", Fields{"n": 1})

	if len(got) != 1 {
		t.Fatalf("expected 1 emission, got %+v", got)
	}
	if got[0].Sink != "ok" || got[0].Message != "hello" || got[0].Level != LevelInfo || got[0].Meta["n"] != 1 {
		t.Errorf("unexpected emission %+v", got[0])
	}
	if after := testutil.ToFloat64(metrics.SinkErrors.WithLabelValues("broken")); after != before+1 {
		t.Errorf("sink errors = %v, want %v", after, before+1)
	}
}

func TestLogger_MetaNeverNilForSinks(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})
	l.AddHook(NewHook("nil-meta", func(rec Record) Record {
		rec.Meta = nil
		return rec
	}))

	l.Info("x")
	if sink.all()[0].Meta == nil {
		t.Error("sinks should receive non-nil Meta")
	}
}

func TestLogger_CaptureOrigin(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}, CaptureOrigin: true})

	l.Info("with origin")
	l.LogRequest("GET / 200")

	recs := sink.all()
	if recs[0].Origin == nil {
		t.Fatal("application record should carry an origin")
	}
	if recs[0].Origin.File != "logger_test.go" || !strings.HasSuffix(recs[0].Origin.Function, "TestLogger_CaptureOrigin") {
		t.Errorf("Origin = %+v", *recs[0].Origin)
	}
	if recs[1].Origin != nil || recs[1].Source != SourceMiddleware || recs[1].Level != LevelInfo {
		t.Errorf("request record = %+v", recs[1])
	}

	plain := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})
	plain.Info("no origin")
	if sink.all()[2].Origin != nil {
		t.Error("origin captured without CaptureOrigin")
	}
}

func TestLogger_OriginHookEnablesCapture(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})

	l.Info("before")
	l.AddHook(NewHook("plain", func(rec Record) Record { return rec }))
	l.Info("plain hook")
	l.AddHook(NewOriginHook("site", func(rec Record) Record { return rec }))
	l.Info("after")

	recs := sink.all()
	if recs[0].Origin != nil || recs[1].Origin != nil {
		t.Error("origin captured before an origin hook was attached")
	}
	if recs[2].Origin == nil || recs[2].Origin.File != "logger_test.go" {
		t.Errorf("Origin = %+v, want call site in logger_test.go", recs[2].Origin)
	}
}

func TestLogger_ListenerMetaIsACopy(t *testing.T) {
	t.Parallel()

	first := &memSink{name: "first", level: LevelDebug}
	second := &memSink{name: "second", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{first, second}})

	l.OnEmit(func(em Emission) {
		em.Meta["order"] = "changed"
		em.Meta["injected"] = true
	})
	l.Info("placed", Fields{"order": 42})

	for _, m := range []*memSink{first, second} {
		meta := m.all()[0].Meta
		if meta["order"] != 42 {
			t.Errorf("%s: order = %v, want 42", m.name, meta["order"])
		}
		if _, ok := meta["injected"]; ok {
			t.Errorf("%s: listener mutation leaked into sink meta", m.name)
		}
	}
}

func TestLogger_At(t *testing.T) {
	t.Parallel()

	sink := &memSink{name: "mem", level: LevelDebug}
	l := New(Options{Level: LevelDebug, Sinks: []Sink{sink}})

	o := Origin{Function: "main.run", File: "main.go", Line: 12, Column: 3}
	l.At(o).Info("located")

	got := sink.all()[0].Origin
	if got == nil || *got != o {
		t.Errorf("Origin = %v, want %v", got, o)
	}
	if s := o.String(); s != "main.run (main.go:12:3)" {
		t.Errorf("Origin.String() = %q", s)
	}
	if s := (Origin{File: "x.go", Line: 1}).String(); s != "<anonymous> (x.go:1)" {
		t.Errorf("Origin.String() = %q", s)
	}
}

func TestLogger_CapturePanic(t *testing.T) {
	t.Parallel()

	catcher := &memSink{name: "catcher", level: LevelEmerg, panics: true}
	ignorer := &memSink{name: "ignorer", level: LevelDebug}
	l := New(Options{Level: LevelEmerg, Sinks: []Sink{catcher, ignorer}})

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recovered %v, want re-panic with boom", r)
			}
		}()
		defer l.CapturePanic()
		panic("boom")
	}()

	recs := catcher.all()
	if len(recs) != 1 || recs[0].Message != "panic: boom" || recs[0].Level != LevelEmerg {
		t.Fatalf("catcher received %+v", recs)
	}
	if _, ok := recs[0].Meta["stack"]; !ok {
		t.Error("panic record should carry a stack")
	}
	if n := len(ignorer.all()); n != 0 {
		t.Errorf("sink without panic handling received %d records", n)
	}
}

func TestLogger_Middleware(t *testing.T) {
	t.Parallel()

	l := New(Options{})

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	l.Middleware()(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("default middleware should pass through")
	}

	wrapped := false
	l.SetMiddleware(func(h http.Handler) http.Handler {
		wrapped = true
		return h
	})
	l.Middleware()(next)
	if !wrapped {
		t.Error("SetMiddleware not applied")
	}

	l.SetMiddleware(nil)
	if l.Middleware() == nil {
		t.Error("SetMiddleware(nil) should install PassThrough")
	}
}

func TestLogger_CloseAndRotate(t *testing.T) {
	t.Parallel()

	plain := &memSink{name: "plain", level: LevelDebug}
	rotating := &rotatingSink{memSink{name: "file", level: LevelDebug}}
	l := New(Options{ID: "closing", Sinks: []Sink{plain, rotating}})

	if err := l.Rotate(); err != nil {
		t.Errorf("Rotate() error = %v", err)
	}
	if rotating.rotated != 1 {
		t.Errorf("rotated = %d, want 1", rotating.rotated)
	}

	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	_ = l.Close()
	if plain.closed != 1 || rotating.closed != 1 {
		t.Errorf("sinks closed %d and %d times, want once", plain.closed, rotating.closed)
	}

	if l.ID() != "closing" || !reflect.DeepEqual(l.SinkNames(), []string{"plain", "file"}) {
		t.Errorf("ID() = %q SinkNames() = %v", l.ID(), l.SinkNames())
	}
}

func TestReportDropped(t *testing.T) {
	var buf bytes.Buffer
	prev := Diag()
	SetDiag(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { SetDiag(prev) })

	before := testutil.ToFloat64(metrics.RecordsDropped.WithLabelValues("slack", "queue_full"))
	ReportDropped("slack", "queue_full")

	if after := testutil.ToFloat64(metrics.RecordsDropped.WithLabelValues("slack", "queue_full")); after != before+1 {
		t.Errorf("dropped = %v, want %v", after, before+1)
	}
	if !strings.Contains(buf.String(), `"reason":"queue_full"`) {
		t.Errorf("diagnostics output %q", buf.String())
	}
}

func TestInitDiagnostics(t *testing.T) {
	prev := Diag()
	t.Cleanup(func() { SetDiag(prev) })

	var buf bytes.Buffer
	InitDiagnostics(DiagConfig{Level: "info", Format: "json", Output: &buf})

	d := Diag()
	d.Debug().Msg("hidden")
	d.Info().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("diagnostics output %q", out)
	}
	if !strings.Contains(out, `"component":"envlog"`) {
		t.Errorf("diagnostics output missing component: %q", out)
	}
}

func TestParseDiagLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"whatever": zerolog.WarnLevel,
	}
	for in, want := range tests {
		if got := parseDiagLevel(in); got != want {
			t.Errorf("parseDiagLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
