// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tomtom215/envlog/internal/logging"
)

const mebibyte = 1 << 20

// FileOptions configures a rotating file sink.
type FileOptions struct {
	Level        logging.Level
	HandlePanics bool

	// Path is the active log file.
	Path string

	// MaxSizeBytes triggers rotation. Rounded up to whole MiB, minimum 1 MiB.
	MaxSizeBytes int64

	// MaxFiles is the number of rotated files kept.
	MaxFiles int

	// Compress gzips rotated files.
	Compress bool
}

// File writes JSON lines to a size-rotated file. The file is opened on
// the first write, so construction never fails.
type File struct {
	opts FileOptions
	w    *lumberjack.Logger
}

// NewFile creates a rotating file sink.
func NewFile(opts FileOptions) *File {
	return &File{
		opts: opts,
		w: &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    megabytes(opts.MaxSizeBytes),
			MaxBackups: opts.MaxFiles,
			Compress:   opts.Compress,
		},
	}
}

// megabytes converts a byte limit into lumberjack's MiB unit.
func megabytes(n int64) int {
	if n <= 0 {
		return 1
	}
	mb := (n + mebibyte - 1) / mebibyte
	return int(mb)
}

// Name returns "file".
func (f *File) Name() string { return NameFile }

// Level returns the sink threshold.
func (f *File) Level() logging.Level { return f.opts.Level }

// HandlesPanics reports whether captured panics are written here.
func (f *File) HandlesPanics() bool { return f.opts.HandlePanics }

// Path returns the active log file path.
func (f *File) Path() string { return f.opts.Path }

// Write appends the record as a JSON line.
func (f *File) Write(rec logging.Record) error {
	_, err := f.w.Write(encodeJSON(rec))
	return err
}

// Rotate forces a rotation of the active file.
func (f *File) Rotate() error {
	return f.w.Rotate()
}

// Close closes the active file.
func (f *File) Close() error {
	return f.w.Close()
}
