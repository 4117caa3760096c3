// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/metrics"
)

// Papertrail transports.
const (
	NetworkUDP = "udp"
	NetworkTCP = "tcp"
	NetworkTLS = "tls"
)

// syslogUserFacility is facility 1 (user-level) shifted into the PRI value.
const syslogUserFacility = 1 << 3

// PapertrailOptions configures a remote syslog collector sink.
type PapertrailOptions struct {
	Level        logging.Level
	HandlePanics bool

	// Host of the collector. Required.
	Host string

	// Port of the collector. Default: 514
	Port int

	// Network is udp, tcp or tls. Default: udp
	Network string

	// Program is the RFC 5424 APP-NAME.
	Program string

	// Hostname is the RFC 5424 HOSTNAME. Default: os.Hostname()
	Hostname string

	// DialTimeout bounds connection setup, including the TLS handshake.
	// Default: 5s
	DialTimeout time.Duration

	// WriteTimeout bounds sending one frame. Default: 5s
	WriteTimeout time.Duration

	// QueueSize bounds pending frames. Default: 1024
	QueueSize int

	Breaker BreakerSettings
}

// Papertrail writes RFC 5424 frames to a syslog collector. Write only
// enqueues. A single worker owns the connection and sends through a
// circuit breaker, redialing after a write error.
type Papertrail struct {
	opts    PapertrailOptions
	addr    string
	pid     string
	breaker *gobreaker.CircuitBreaker[struct{}]

	queue chan []byte
	conn  net.Conn // owned by run

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPapertrail creates a collector sink and starts its delivery worker.
// No connection is made until the first frame is sent.
func NewPapertrail(opts PapertrailOptions) *Papertrail {
	if opts.Port <= 0 {
		opts.Port = 514
	}
	opts.Network = strings.ToLower(opts.Network)
	if opts.Network == "" {
		opts.Network = NetworkUDP
	}
	if opts.Program == "" {
		opts.Program = "envlog"
	}
	if opts.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			opts.Hostname = h
		}
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}

	p := &Papertrail{
		opts:    opts,
		addr:    net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		pid:     strconv.Itoa(os.Getpid()),
		breaker: newBreaker(NamePapertrail, opts.Breaker),
		queue:   make(chan []byte, opts.QueueSize),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

// Name returns "papertrail".
func (p *Papertrail) Name() string { return NamePapertrail }

// Level returns the sink threshold.
func (p *Papertrail) Level() logging.Level { return p.opts.Level }

// HandlesPanics reports whether captured panics are sent here.
func (p *Papertrail) HandlesPanics() bool { return p.opts.HandlePanics }

// Write frames the record and enqueues it for delivery.
func (p *Papertrail) Write(rec logging.Record) error {
	frame := p.frame(rec)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		logging.ReportDropped(NamePapertrail, "closed")
		return logging.ErrSinkClosed
	}

	select {
	case p.queue <- frame:
		metrics.SinkQueueDepth.WithLabelValues(NamePapertrail).Inc()
		return nil
	default:
		logging.ReportDropped(NamePapertrail, "queue_full")
		return logging.ErrQueueFull
	}
}

// Close stops accepting records, waits for queued frames and closes the
// connection.
func (p *Papertrail) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

// run sends queued frames until the queue is closed.
func (p *Papertrail) run() {
	defer p.wg.Done()
	defer func() {
		if p.conn != nil {
			_ = p.conn.Close()
			p.conn = nil
		}
	}()

	for frame := range p.queue {
		metrics.SinkQueueDepth.WithLabelValues(NamePapertrail).Dec()
		p.deliver(frame)
	}
}

// deliver sends one frame through the circuit breaker.
func (p *Papertrail) deliver(frame []byte) {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.send(frame)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(NamePapertrail, "success").Inc()
	case isRejected(err):
		metrics.CircuitBreakerRequests.WithLabelValues(NamePapertrail, "rejected").Inc()
		logging.ReportDropped(NamePapertrail, "circuit_open")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(NamePapertrail, "failure").Inc()
		logging.ReportSinkError(NamePapertrail, err)
	}
}

// send writes one frame, dialing first if there is no connection.
func (p *Papertrail) send(frame []byte) error {
	if p.conn == nil {
		conn, err := p.dial()
		if err != nil {
			return fmt.Errorf("dial papertrail %s: %w", p.addr, err)
		}
		p.conn = conn
	}

	_ = p.conn.SetWriteDeadline(time.Now().Add(p.opts.WriteTimeout))
	if _, err := p.conn.Write(frame); err != nil {
		_ = p.conn.Close()
		p.conn = nil
		return fmt.Errorf("write papertrail: %w", err)
	}
	return nil
}

func (p *Papertrail) dial() (net.Conn, error) {
	switch p.opts.Network {
	case NetworkTLS:
		dialer := &net.Dialer{Timeout: p.opts.DialTimeout}
		return tls.DialWithDialer(dialer, "tcp", p.addr, &tls.Config{
			ServerName: p.opts.Host,
			MinVersion: tls.VersionTLS12,
		})
	case NetworkTCP, NetworkUDP:
		return net.DialTimeout(p.opts.Network, p.addr, p.opts.DialTimeout)
	default:
		return nil, fmt.Errorf("unsupported network %q", p.opts.Network)
	}
}

// frame renders rec as an RFC 5424 message:
//
//	<PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID - - MSG
//
// Metadata is appended to MSG as a JSON object. Stream transports get a
// trailing newline as the frame delimiter.
func (p *Papertrail) frame(rec logging.Record) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "<%d>1 %s %s %s %s - - ",
		syslogUserFacility+int(rec.Level),
		rec.Time.UTC().Format(time.RFC3339Nano),
		headerField(p.opts.Hostname),
		headerField(p.opts.Program),
		p.pid,
	)
	b.WriteString(strings.ReplaceAll(rec.Message, "\n", " "))

	if len(rec.Meta) > 0 {
		if meta, err := json.Marshal(rec.Meta); err == nil {
			b.WriteByte(' ')
			b.Write(meta)
		}
	}

	if p.opts.Network != NetworkUDP {
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// headerField returns the NILVALUE for empty header fields and strips
// characters RFC 5424 does not allow there.
func headerField(s string) string {
	if s == "" {
		return "-"
	}
	return strings.Map(func(r rune) rune {
		if r <= 32 || r >= 127 {
			return -1
		}
		return r
	}, s)
}
