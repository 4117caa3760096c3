// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package sink

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/envlog/internal/logging"
)

var bufPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// reservedKeys are top-level JSON keys owned by the encoder. Metadata
// using them is written under a "meta." prefix.
var reservedKeys = map[string]bool{
	zerolog.TimestampFieldName: true,
	zerolog.LevelFieldName:     true,
	zerolog.MessageFieldName:   true,
	"source":                   true,
}

// encodeJSON renders rec as one newline-terminated JSON object.
func encodeJSON(rec logging.Record) []byte {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	zl := zerolog.New(buf)
	e := zl.Log().
		Time(zerolog.TimestampFieldName, rec.Time).
		Str(zerolog.LevelFieldName, rec.Level.String())

	if rec.Source == logging.SourceMiddleware {
		e = e.Str("source", rec.Source.String())
	}

	for _, k := range sortedKeys(rec.Meta) {
		key := k
		if reservedKeys[k] {
			key = "meta." + k
		}
		value := rec.Meta[k]
		if isNilPointer(value) {
			e = e.Interface(key, nil)
			continue
		}
		switch v := value.(type) {
		case string:
			e = e.Str(key, v)
		case error:
			e = e.AnErr(key, v)
		case time.Time:
			e = e.Time(key, v)
		case fmt.Stringer:
			e = e.Stringer(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	e.Msg(rec.Message)

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// isNilPointer reports whether v holds a typed nil pointer, whose String or
// Error method may dereference its receiver.
func isNilPointer(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// sortedKeys returns the metadata keys in lexical order for stable output.
func sortedKeys(m logging.Fields) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ANSI colors per severity for console output.
var levelColors = map[logging.Level]int{
	logging.LevelEmerg:   41, // red background
	logging.LevelAlert:   41,
	logging.LevelCrit:    91, // bright red
	logging.LevelErr:     31, // red
	logging.LevelWarning: 33, // yellow
	logging.LevelNotice:  36, // cyan
	logging.LevelInfo:    32, // green
	logging.LevelDebug:   35, // magenta
}

// formatLevel renders the syslog level name for zerolog.ConsoleWriter.
func formatLevel(colorize bool) zerolog.Formatter {
	return func(i any) string {
		name, _ := i.(string)
		label := fmt.Sprintf("%-7s", strings.ToUpper(name))

		lvl, ok := logging.ParseLevel(name)
		if !ok || !colorize {
			return label
		}
		return fmt.Sprintf("\x1b[%dm%s\x1b[0m", levelColors[lvl], label)
	}
}
