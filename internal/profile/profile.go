// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package profile

import (
	"strings"

	"github.com/tomtom215/envlog/internal/logging"
)

// Name identifies a deployment profile.
type Name string

// Known profiles.
const (
	Production  Name = "production"
	Development Name = "development"
	Debug       Name = "debug"
	Test        Name = "test"
)

// Default is used when no known profile is requested.
const Default = Production

// SinkKind identifies a sink type in a profile.
type SinkKind string

// Sink kinds.
const (
	SinkConsole    SinkKind = "console"
	SinkFile       SinkKind = "file"
	SinkSlack      SinkKind = "slack"
	SinkPapertrail SinkKind = "papertrail"
)

// HookKind identifies a hook in a profile.
type HookKind string

// Hook kinds, in the order they are attached.
const (
	HookTrace     HookKind = "trace"
	HookClearMeta HookKind = "clear-meta"
	HookRedact    HookKind = "redact"
	HookEnrich    HookKind = "enrich"
)

// SinkSpec describes one sink of a profile.
type SinkSpec struct {
	Kind         SinkKind
	Level        logging.Level
	HandlePanics bool
	Colorize     bool
	JSON         bool

	// Optional sinks are built only when their required parameter is set.
	Optional bool
}

// Profile is an immutable logger recipe.
type Profile struct {
	Name  Name
	Level logging.Level
	Sinks []SinkSpec
	Hooks []HookKind

	// AccessFormat is the access-log format; empty means no access logging.
	AccessFormat string
}

// AccessLogging reports whether the profile logs HTTP requests.
func (p Profile) AccessLogging() bool {
	return p.AccessFormat != ""
}

// Has reports whether the profile attaches hook k.
func (p Profile) Has(k HookKind) bool {
	for _, h := range p.Hooks {
		if h == k {
			return true
		}
	}
	return false
}

var profiles = map[Name]Profile{
	Production: {
		Name:  Production,
		Level: logging.LevelInfo,
		Sinks: []SinkSpec{
			{Kind: SinkFile, Level: logging.LevelInfo, HandlePanics: true, JSON: true},
			{Kind: SinkSlack, Level: logging.LevelWarning, HandlePanics: true, Optional: true},
			{Kind: SinkPapertrail, Level: logging.LevelInfo, HandlePanics: true, Optional: true},
		},
		Hooks:        []HookKind{HookRedact, HookEnrich},
		AccessFormat: "combined",
	},
	Development: {
		Name:  Development,
		Level: logging.LevelDebug,
		Sinks: []SinkSpec{
			{Kind: SinkConsole, Level: logging.LevelDebug, HandlePanics: true, Colorize: true},
		},
		Hooks:        []HookKind{HookClearMeta},
		AccessFormat: "dev",
	},
	Debug: {
		Name:  Debug,
		Level: logging.LevelDebug,
		Sinks: []SinkSpec{
			{Kind: SinkConsole, Level: logging.LevelDebug, Colorize: true},
		},
		Hooks:        []HookKind{HookTrace},
		AccessFormat: "dev",
	},
	Test: {
		Name:  Test,
		Level: logging.LevelEmerg,
		Sinks: []SinkSpec{
			{Kind: SinkConsole, Level: logging.LevelEmerg, HandlePanics: true, Colorize: true},
		},
	},
}

// Lookup returns the profile with the given name.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[Name(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// Resolve picks a profile from candidates in priority order. The first
// non-empty candidate is the requested name; if it is unknown, or every
// candidate is empty, the production profile is returned.
//
//	p := profile.Resolve(cfg.Profile, os.Getenv("NODE_ENV"))
func Resolve(candidates ...string) Profile {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if p, ok := Lookup(c); ok {
			return p
		}
		break
	}
	return profiles[Default].clone()
}

// Names returns the known profile names.
func Names() []Name {
	return []Name{Production, Development, Debug, Test}
}

// clone copies the slices so callers cannot mutate the table.
func (p Profile) clone() Profile {
	p.Sinks = append([]SinkSpec(nil), p.Sinks...)
	p.Hooks = append([]HookKind(nil), p.Hooks...)
	return p
}
