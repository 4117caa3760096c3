// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package logging

import "strings"

// Level is a syslog severity. Lower values are more severe.
type Level int8

// Syslog severities, most to least severe.
const (
	LevelEmerg Level = iota
	LevelAlert
	LevelCrit
	LevelErr
	LevelWarning
	LevelNotice
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelEmerg:   "emerg",
	LevelAlert:   "alert",
	LevelCrit:    "crit",
	LevelErr:     "err",
	LevelWarning: "warning",
	LevelNotice:  "notice",
	LevelInfo:    "info",
	LevelDebug:   "debug",
}

// String returns the syslog name of the level.
func (l Level) String() string {
	if l < LevelEmerg || l > LevelDebug {
		return "unknown"
	}
	return levelNames[l]
}

// Enabled reports whether a record at level l passes the given threshold.
func (l Level) Enabled(threshold Level) bool {
	return l <= threshold
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel converts a level name to a Level.
// Canonical syslog names and common aliases are accepted, case-insensitive.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emerg", "emergency":
		return LevelEmerg, true
	case "alert":
		return LevelAlert, true
	case "crit", "critical":
		return LevelCrit, true
	case "err", "error":
		return LevelErr, true
	case "warning", "warn":
		return LevelWarning, true
	case "notice":
		return LevelNotice, true
	case "info", "information":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	default:
		return LevelInfo, false
	}
}

// ParseLevelDefault parses s and returns def when s is not a known level.
func ParseLevelDefault(s string, def Level) Level {
	if l, ok := ParseLevel(s); ok {
		return l
	}
	return def
}
