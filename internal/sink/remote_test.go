// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/metrics"
)

// webhookRecorder captures Slack payloads.
type webhookRecorder struct {
	mu       sync.Mutex
	payloads []SlackPayload
}

func (w *webhookRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var p SlackPayload
		if err := json.Unmarshal(body, &p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.mu.Lock()
		w.payloads = append(w.payloads, p)
		w.mu.Unlock()
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	}
}

func (w *webhookRecorder) all() []SlackPayload {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]SlackPayload(nil), w.payloads...)
}

func TestSlack_DeliversPayload(t *testing.T) {
	t.Parallel()

	rec := &webhookRecorder{}
	srv := httptest.NewServer(rec.handler(t))
	defer srv.Close()

	s := NewSlack(SlackOptions{
		Level:       logging.LevelWarning,
		HookURL:     srv.URL,
		Team:        "platform",
		Channel:     "#alerts",
		CritChannel: "#pager",
		Username:    "envlog",
	})

	if err := s.Write(testRecord(logging.LevelWarning, "slow query", logging.Fields{"ms": 900})); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(testRecord(logging.LevelCrit, "database down", nil)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := rec.all()
	if len(got) != 2 {
		t.Fatalf("expected 2 payloads, got %d", len(got))
	}

	warn := got[0]
	if warn.Channel != "#alerts" {
		t.Errorf("warning channel = %q, want #alerts", warn.Channel)
	}
	if warn.Username != "envlog" {
		t.Errorf("username = %q", warn.Username)
	}
	if len(warn.Attachments) != 1 {
		t.Fatalf("expected one attachment, got %d", len(warn.Attachments))
	}
	att := warn.Attachments[0]
	if att.Color != "warning" || att.Footer != "platform" || att.Text != "slow query" {
		t.Errorf("unexpected attachment: %+v", att)
	}
	if len(att.Fields) != 1 || att.Fields[0].Title != "ms" || att.Fields[0].Value != "900" {
		t.Errorf("unexpected fields: %+v", att.Fields)
	}

	crit := got[1]
	if crit.Channel != "#pager" {
		t.Errorf("crit channel = %q, want #pager", crit.Channel)
	}
	if !strings.Contains(crit.Text, "CRIT") || crit.Attachments[0].Color != "danger" {
		t.Errorf("unexpected crit payload: %+v", crit)
	}
}

func TestSlack_WriteAfterClose(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlack(SlackOptions{HookURL: srv.URL})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	err := s.Write(testRecord(logging.LevelErr, "late", nil))
	if !errors.Is(err, logging.ErrSinkClosed) {
		t.Errorf("expected ErrSinkClosed, got %v", err)
	}
}

func TestSlack_QueueFull(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSlack(SlackOptions{HookURL: srv.URL, QueueSize: 1})

	var full bool
	for i := 0; i < 10; i++ {
		if err := s.Write(testRecord(logging.LevelErr, "burst", nil)); errors.Is(err, logging.ErrQueueFull) {
			full = true
			break
		}
	}
	close(release)
	_ = s.Close()

	if !full {
		t.Error("expected ErrQueueFull once the queue and worker are busy")
	}
}

func TestSlack_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSlack(SlackOptions{
		HookURL: srv.URL,
		Breaker: BreakerSettings{ConsecutiveFailures: 3, OpenTimeout: time.Hour},
	})

	for i := 0; i < 8; i++ {
		if err := s.Write(testRecord(logging.LevelErr, "boom", nil)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}
	_ = s.Close()

	if got := hits.Load(); got != 3 {
		t.Errorf("expected 3 webhook calls before the breaker opened, got %d", got)
	}
}

func TestSlackColor(t *testing.T) {
	t.Parallel()

	tests := map[logging.Level]string{
		logging.LevelEmerg:   "danger",
		logging.LevelErr:     "danger",
		logging.LevelWarning: "warning",
		logging.LevelNotice:  "good",
		logging.LevelDebug:   "good",
	}
	for lvl, want := range tests {
		if got := slackColor(lvl); got != want {
			t.Errorf("slackColor(%s) = %q, want %q", lvl, got, want)
		}
	}
}

func TestPapertrail_UDPFrame(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	p := NewPapertrail(PapertrailOptions{
		Level:    logging.LevelInfo,
		Host:     "127.0.0.1",
		Port:     port,
		Program:  "billing",
		Hostname: "web 1",
	})
	defer p.Close()

	if err := p.Write(testRecord(logging.LevelCrit, "payment failed", logging.Fields{"order": "A1"})); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 2048)
	_ = pc.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	frame := string(buf[:n])

	want := "<10>1 2026-03-14T15:09:26Z web1 billing " + p.pid + " - - payment failed {\"order\":\"A1\"}"
	if frame != want {
		t.Errorf("frame = %q\nwant    %q", frame, want)
	}
}

func TestPapertrail_TCPFramesAreNewlineDelimited(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	lines := make(chan string, 2)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	p := NewPapertrail(PapertrailOptions{
		Host:    "127.0.0.1",
		Port:    ln.Addr().(*net.TCPAddr).Port,
		Network: "TCP",
		Program: "api",
	})
	defer p.Close()

	for _, msg := range []string{"one", "two\nlines"} {
		if err := p.Write(testRecord(logging.LevelInfo, msg, nil)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	for _, want := range []string{"one", "two lines"} {
		select {
		case line := <-lines:
			if !strings.HasPrefix(line, "<14>1 ") || !strings.HasSuffix(line, " - - "+want) {
				t.Errorf("unexpected line %q", line)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}
}

func TestPapertrail_DialFailureIsReported(t *testing.T) {
	t.Parallel()

	failures := metrics.CircuitBreakerRequests.WithLabelValues(NamePapertrail, "failure")
	before := testutil.ToFloat64(failures)

	p := NewPapertrail(PapertrailOptions{Host: "127.0.0.1", Port: 1, Network: "carrier-pigeon"})
	if err := p.Write(testRecord(logging.LevelInfo, "x", nil)); err != nil {
		t.Fatalf("Write should only enqueue, got %v", err)
	}
	_ = p.Close()

	if got := testutil.ToFloat64(failures) - before; got < 1 {
		t.Errorf("expected a delivery failure to be counted, got %v", got)
	}
	if err := p.Write(testRecord(logging.LevelInfo, "x", nil)); !errors.Is(err, logging.ErrSinkClosed) {
		t.Errorf("expected ErrSinkClosed after Close, got %v", err)
	}
}

func TestPapertrail_StalledHandshakeDoesNotBlockWrite(t *testing.T) {
	t.Parallel()

	// The listener accepts but never answers the TLS ClientHello.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	var (
		connMu sync.Mutex
		conns  []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			connMu.Lock()
			conns = append(conns, conn)
			connMu.Unlock()
		}
	}()
	defer func() {
		connMu.Lock()
		defer connMu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	p := NewPapertrail(PapertrailOptions{
		Host:        "127.0.0.1",
		Port:        ln.Addr().(*net.TCPAddr).Port,
		Network:     NetworkTLS,
		DialTimeout: 300 * time.Millisecond,
		Breaker:     BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Hour},
	})

	for i := 0; i < 5; i++ {
		start := time.Now()
		if err := p.Write(testRecord(logging.LevelErr, "stalled", nil)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("Write %d blocked for %v", i, elapsed)
		}
	}

	closed := make(chan struct{})
	go func() {
		_ = p.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return once the breaker opened")
	}
}

func TestPapertrail_QueueFull(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	p := NewPapertrail(PapertrailOptions{
		Host:        "127.0.0.1",
		Port:        ln.Addr().(*net.TCPAddr).Port,
		Network:     NetworkTLS,
		DialTimeout: 200 * time.Millisecond,
		QueueSize:   1,
		Breaker:     BreakerSettings{ConsecutiveFailures: 1, OpenTimeout: time.Hour},
	})
	defer p.Close()

	var full bool
	for i := 0; i < 10; i++ {
		if err := p.Write(testRecord(logging.LevelErr, "burst", nil)); errors.Is(err, logging.ErrQueueFull) {
			full = true
			break
		}
	}
	if !full {
		t.Error("expected ErrQueueFull once the queue and worker are busy")
	}
}

func TestHeaderField(t *testing.T) {
	t.Parallel()

	if got := headerField(""); got != "-" {
		t.Errorf("empty = %q", got)
	}
	if got := headerField("my host\t"); got != "myhost" {
		t.Errorf("got %q", got)
	}
}
