// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/metrics"
)

// slackMaxText is Slack's attachment text limit.
const slackMaxText = 3000

// SlackOptions configures a Slack webhook sink.
type SlackOptions struct {
	Level        logging.Level
	HandlePanics bool

	// HookURL is the incoming webhook URL. Required.
	HookURL string

	// Team is shown in the attachment footer.
	Team string

	// Channel receives records less severe than crit.
	Channel string

	// CritChannel receives crit, alert and emerg records. Falls back to Channel.
	CritChannel string

	// Username overrides the webhook's default bot name.
	Username string

	// IconEmoji overrides the webhook's default icon.
	IconEmoji string

	// QueueSize bounds pending deliveries. Default: 256
	QueueSize int

	// Timeout bounds one webhook request. Default: 10s
	Timeout time.Duration

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client

	Breaker BreakerSettings
}

// SlackPayload is the incoming-webhook message body.
type SlackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment carries the record body and metadata fields.
type SlackAttachment struct {
	Color    string       `json:"color,omitempty"`
	Fallback string       `json:"fallback,omitempty"`
	Text     string       `json:"text,omitempty"`
	Fields   []SlackField `json:"fields,omitempty"`
	Footer   string       `json:"footer,omitempty"`
	Ts       int64        `json:"ts,omitempty"`
}

// SlackField is one metadata entry.
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Slack posts records to a Slack incoming webhook. Write only enqueues;
// a single worker delivers through a circuit breaker, so a slow or failing
// webhook never blocks the logging caller.
type Slack struct {
	opts    SlackOptions
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]

	queue chan []byte

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewSlack creates a Slack sink and starts its delivery worker.
func NewSlack(opts SlackOptions) *Slack {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	s := &Slack{
		opts:    opts,
		client:  client,
		breaker: newBreaker(NameSlack, opts.Breaker),
		queue:   make(chan []byte, opts.QueueSize),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// Name returns "slack".
func (s *Slack) Name() string { return NameSlack }

// Level returns the sink threshold.
func (s *Slack) Level() logging.Level { return s.opts.Level }

// HandlesPanics reports whether captured panics are posted here.
func (s *Slack) HandlesPanics() bool { return s.opts.HandlePanics }

// Write enqueues the record for delivery.
func (s *Slack) Write(rec logging.Record) error {
	body, err := json.Marshal(s.buildPayload(rec))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		logging.ReportDropped(NameSlack, "closed")
		return logging.ErrSinkClosed
	}

	select {
	case s.queue <- body:
		metrics.SinkQueueDepth.WithLabelValues(NameSlack).Inc()
		return nil
	default:
		logging.ReportDropped(NameSlack, "queue_full")
		return logging.ErrQueueFull
	}
}

// Close stops accepting records and waits for queued deliveries.
func (s *Slack) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// run delivers queued payloads until the queue is closed.
func (s *Slack) run() {
	defer s.wg.Done()

	for body := range s.queue {
		metrics.SinkQueueDepth.WithLabelValues(NameSlack).Dec()
		s.deliver(body)
	}
}

// deliver posts one payload through the circuit breaker.
func (s *Slack) deliver(body []byte) {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.post(body)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(NameSlack, "success").Inc()
	case isRejected(err):
		metrics.CircuitBreakerRequests.WithLabelValues(NameSlack, "rejected").Inc()
		logging.ReportDropped(NameSlack, "circuit_open")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(NameSlack, "failure").Inc()
		logging.ReportSinkError(NameSlack, err)
	}
}

// post sends one webhook request.
func (s *Slack) post(body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.HookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
}

// buildPayload constructs the webhook message for a record.
func (s *Slack) buildPayload(rec logging.Record) SlackPayload {
	channel := s.opts.Channel
	if rec.Level.Enabled(logging.LevelCrit) && s.opts.CritChannel != "" {
		channel = s.opts.CritChannel
	}

	text := logging.Truncate(rec.Message, slackMaxText)
	label := strings.ToUpper(rec.Level.String())

	attachment := SlackAttachment{
		Color:    slackColor(rec.Level),
		Fallback: fmt.Sprintf("[%s] %s", label, text),
		Text:     text,
		Footer:   s.opts.Team,
		Ts:       rec.Time.Unix(),
	}
	for _, k := range sortedKeys(rec.Meta) {
		value := fmt.Sprint(rec.Meta[k])
		attachment.Fields = append(attachment.Fields, SlackField{
			Title: k,
			Value: logging.Truncate(value, 500),
			Short: len(value) <= 40,
		})
	}

	return SlackPayload{
		Channel:     channel,
		Username:    s.opts.Username,
		IconEmoji:   s.opts.IconEmoji,
		Text:        fmt.Sprintf("*[%s]* %s", label, text),
		Attachments: []SlackAttachment{attachment},
	}
}

// slackColor maps severity to an attachment color.
func slackColor(l logging.Level) string {
	switch {
	case l.Enabled(logging.LevelErr):
		return "danger"
	case l == logging.LevelWarning:
		return "warning"
	default:
		return "good"
	}
}
