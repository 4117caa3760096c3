// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

// Package hook provides the record transformations attached by profiles.
//
// Hooks are looked up by name on a logger, so attaching the same hook twice
// is a no-op. Every hook treats SourceMiddleware records as already
// annotated: access-log lines are never traced or given an origin marker.
package hook

import (
	"github.com/tomtom215/envlog/internal/logging"
)

// Hook names. They double as the attach-once keys on a logger.
const (
	NameTrace     = "trace"
	NameClearMeta = "clear-meta"
	NameEnrich    = "enrich"
	NameRedact    = "redact"
)

// Metadata keys written by Enrich.
const (
	KeyFilename  = "filename"
	KeyContainer = "container"
	KeyService   = "service"
	KeyStack     = "stack"
)

// Trace appends the record's call site to application messages:
//
//	"cache warmed at main.run (main.go:42)"
//
// Records without an origin pass unchanged.
func Trace() logging.Hook {
	return logging.NewOriginHook(NameTrace, func(rec logging.Record) logging.Record {
		if rec.Source == logging.SourceMiddleware || rec.Origin == nil {
			return rec
		}
		rec.Message = rec.Message + " at " + rec.Origin.String()
		return rec
	})
}

// ClearMeta discards all metadata.
func ClearMeta() logging.Hook {
	return logging.NewHook(NameClearMeta, func(rec logging.Record) logging.Record {
		rec.Meta = logging.Fields{}
		return rec
	})
}

// EnrichOptions are the values Enrich attaches. Empty values are skipped.
type EnrichOptions struct {
	// Filename is the origin marker added to application records.
	Filename string

	Container string
	Service   string
	Stack     string
}

// Enrich marks application records with their origin filename and adds
// deployment identifiers to every record.
func Enrich(opts EnrichOptions) logging.Hook {
	return logging.NewHook(NameEnrich, func(rec logging.Record) logging.Record {
		if rec.Meta == nil {
			rec.Meta = logging.Fields{}
		}
		if rec.Source != logging.SourceMiddleware && opts.Filename != "" {
			rec.Meta[KeyFilename] = opts.Filename
		}
		setIf(rec.Meta, KeyContainer, opts.Container)
		setIf(rec.Meta, KeyService, opts.Service)
		setIf(rec.Meta, KeyStack, opts.Stack)
		return rec
	})
}

// Redact masks values under sensitive metadata keys.
func Redact() logging.Hook {
	return logging.NewHook(NameRedact, func(rec logging.Record) logging.Record {
		for k, v := range rec.Meta {
			rec.Meta[k] = logging.SanitizeValue(k, v)
		}
		return rec
	})
}

func setIf(m logging.Fields, key, value string) {
	if value != "" {
		m[key] = value
	}
}
