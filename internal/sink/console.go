// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/envlog/internal/logging"
)

// ConsoleOptions configures a console sink.
type ConsoleOptions struct {
	Level        logging.Level
	HandlePanics bool

	// Colorize enables ANSI colors in human-readable output.
	Colorize bool

	// JSON writes raw JSON lines instead of the human-readable format.
	JSON bool

	// Out defaults to os.Stdout.
	Out io.Writer
}

// Console writes records to a terminal through zerolog.ConsoleWriter.
type Console struct {
	opts ConsoleOptions
	out  io.Writer
	mu   sync.Mutex
}

// NewConsole creates a console sink.
func NewConsole(opts ConsoleOptions) *Console {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	var out io.Writer = opts.Out
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:         opts.Out,
			NoColor:     !opts.Colorize,
			TimeFormat:  "15:04:05",
			FormatLevel: formatLevel(opts.Colorize),
		}
	}

	return &Console{opts: opts, out: out}
}

// Name returns "console".
func (c *Console) Name() string { return NameConsole }

// Level returns the sink threshold.
func (c *Console) Level() logging.Level { return c.opts.Level }

// HandlesPanics reports whether captured panics are written here.
func (c *Console) HandlesPanics() bool { return c.opts.HandlePanics }

// Write renders and writes the record.
func (c *Console) Write(rec logging.Record) error {
	p := encodeJSON(rec)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.out.Write(p)
	return err
}

// Close is a no-op; the console is owned by the process.
func (c *Console) Close() error { return nil }
