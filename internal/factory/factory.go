// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package factory

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/tomtom215/envlog/internal/config"
	"github.com/tomtom215/envlog/internal/hook"
	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/metrics"
	"github.com/tomtom215/envlog/internal/middleware"
	"github.com/tomtom215/envlog/internal/profile"
	"github.com/tomtom215/envlog/internal/sink"
)

// Option customizes a Factory.
type Option func(*Factory)

// WithConsoleOutput redirects console sinks, which write to stdout by default.
func WithConsoleOutput(w io.Writer) Option {
	return func(f *Factory) {
		f.console = w
	}
}

// WithHTTPClient sets the client Slack sinks post with.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Factory) {
		f.client = c
	}
}

// Factory assembles loggers from layered configuration and keeps them in
// a registry keyed by id.
type Factory struct {
	mu      sync.Mutex
	loggers map[string]*logging.Logger

	console io.Writer
	client  *http.Client
}

// New creates an empty factory.
func New(opts ...Option) *Factory {
	f := &Factory{loggers: make(map[string]*logging.Logger)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Configure resolves the layered configuration with explicit on top and
// returns the logger registered under the resolved id.
//
// The first configuration of an id decides its threshold and sinks. Later
// calls return the same logger, attach any hooks of the resolved profile
// that are not yet attached, and replace its request middleware.
func (f *Factory) Configure(explicit *config.Config) (*logging.Logger, error) {
	cfg, err := config.Load(explicit)
	if err != nil {
		return nil, err
	}
	return f.Build(cfg), nil
}

// Build is Configure for an already resolved configuration.
func (f *Factory) Build(cfg *config.Config) *logging.Logger {
	p := profile.Resolve(cfg.Profile)

	f.mu.Lock()
	l, ok := f.loggers[cfg.ID]
	if !ok {
		l = logging.New(logging.Options{
			ID:    cfg.ID,
			Level: p.Level,
			Sinks: f.assemble(p, cfg),
		})
		f.loggers[cfg.ID] = l
		metrics.LoggersConfigured.Set(float64(len(f.loggers)))

		diag := logging.Diag()
		diag.Debug().
			Str("id", cfg.ID).
			Str("profile", string(p.Name)).
			Strs("sinks", l.SinkNames()).
			Msg("logger configured")
	}
	f.mu.Unlock()

	composeHooks(l, p, cfg)

	if p.AccessLogging() {
		format := cfg.AccessFormat
		if format == "" {
			format = p.AccessFormat
		}
		l.SetMiddleware(middleware.AccessLog(l, format))
	} else {
		l.SetMiddleware(nil)
	}

	return l
}

// assemble builds one sink per profile spec. Optional sinks without their
// required parameter are skipped.
func (f *Factory) assemble(p profile.Profile, cfg *config.Config) []logging.Sink {
	sinks := make([]logging.Sink, 0, len(p.Sinks))

	for _, spec := range p.Sinks {
		switch spec.Kind {
		case profile.SinkConsole:
			sinks = append(sinks, sink.NewConsole(sink.ConsoleOptions{
				Level:        spec.Level,
				HandlePanics: spec.HandlePanics,
				Colorize:     spec.Colorize,
				JSON:         spec.JSON,
				Out:          f.console,
			}))

		case profile.SinkFile:
			sinks = append(sinks, sink.NewFile(sink.FileOptions{
				Level:        spec.Level,
				HandlePanics: spec.HandlePanics,
				Path:         cfg.File.Path,
				MaxSizeBytes: cfg.File.MaxSize,
				MaxFiles:     cfg.File.MaxFiles,
				Compress:     cfg.File.Compress,
			}))

		case profile.SinkSlack:
			if !cfg.SlackEnabled() {
				skipped(cfg.ID, spec.Kind, "slack.hook_url")
				continue
			}
			sinks = append(sinks, sink.NewSlack(sink.SlackOptions{
				Level:        logging.ParseLevelDefault(cfg.Slack.Level, spec.Level),
				HandlePanics: spec.HandlePanics,
				HookURL:      cfg.Slack.HookURL,
				Team:         cfg.Slack.Team,
				Channel:      cfg.Slack.Channel,
				CritChannel:  cfg.Slack.CritChannel,
				Username:     cfg.Slack.Username,
				IconEmoji:    cfg.Slack.IconEmoji,
				Client:       f.client,
			}))

		case profile.SinkPapertrail:
			if !cfg.PapertrailEnabled() {
				skipped(cfg.ID, spec.Kind, "papertrail.host")
				continue
			}
			program := cfg.Papertrail.Program
			if program == "" {
				program = cfg.ID
			}
			sinks = append(sinks, sink.NewPapertrail(sink.PapertrailOptions{
				Level:        logging.ParseLevelDefault(cfg.Papertrail.Level, spec.Level),
				HandlePanics: spec.HandlePanics,
				Host:         cfg.Papertrail.Host,
				Port:         cfg.Papertrail.Port,
				Network:      cfg.Papertrail.Network,
				Program:      program,
				Hostname:     cfg.Papertrail.Hostname,
			}))
		}
	}

	return sinks
}

func skipped(id string, kind profile.SinkKind, param string) {
	diag := logging.Diag()
	diag.Debug().
		Str("id", id).
		Str("sink", string(kind)).
		Str("missing", param).
		Msg("optional sink not configured")
}

// composeHooks attaches the profile hooks in order. Hooks already attached
// under the same name are kept.
func composeHooks(l *logging.Logger, p profile.Profile, cfg *config.Config) {
	for _, kind := range p.Hooks {
		var h logging.Hook
		switch kind {
		case profile.HookTrace:
			h = hook.Trace()
		case profile.HookClearMeta:
			h = hook.ClearMeta()
		case profile.HookRedact:
			h = hook.Redact()
		case profile.HookEnrich:
			h = hook.Enrich(hook.EnrichOptions{
				Filename:  cfg.Filename,
				Container: cfg.Deployment.Container,
				Service:   cfg.Deployment.Service,
				Stack:     cfg.Deployment.Stack,
			})
		default:
			continue
		}
		l.AddHook(h)
	}
}

// Get returns the logger registered under id. An empty id means the
// default id.
func (f *Factory) Get(id string) (*logging.Logger, bool) {
	if id == "" {
		id = config.DefaultID
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.loggers[id]
	return l, ok
}

// IDs returns the registered ids, sorted.
func (f *Factory) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]string, 0, len(f.loggers))
	for id := range f.loggers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Rotate rotates the file sinks of every registered logger.
func (f *Factory) Rotate() error {
	var errs []error
	for _, l := range f.snapshot() {
		if err := l.Rotate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every registered logger and empties the registry.
func (f *Factory) Close() error {
	loggers := f.snapshot()

	f.mu.Lock()
	f.loggers = make(map[string]*logging.Logger)
	metrics.LoggersConfigured.Set(0)
	f.mu.Unlock()

	var errs []error
	for _, l := range loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Factory) snapshot() []*logging.Logger {
	f.mu.Lock()
	defer f.mu.Unlock()

	loggers := make([]*logging.Logger, 0, len(f.loggers))
	for _, l := range f.loggers {
		loggers = append(loggers, l)
	}
	return loggers
}
