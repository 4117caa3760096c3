// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/envlog/internal/logging"
)

// Access-log formats. They follow the layouts of the morgan formats of the
// same names.
const (
	FormatCombined = "combined"
	FormatCommon   = "common"
	FormatDev      = "dev"
	FormatShort    = "short"
	FormatTiny     = "tiny"
)

// clfTime is the Common Log Format timestamp layout.
const clfTime = "02/Jan/2006:15:04:05 -0700"

// Entry is one completed request.
type Entry struct {
	Request  *http.Request
	Status   int
	Bytes    int
	Header   http.Header
	Start    time.Time
	Duration time.Duration
}

// Formatter renders an Entry as one access-log line without a trailing newline.
type Formatter func(e Entry) string

var formatters = map[string]Formatter{
	FormatCombined: formatCombined,
	FormatCommon:   formatCommon,
	FormatDev:      formatDev,
	FormatShort:    formatShort,
	FormatTiny:     formatTiny,
}

// FormatterFor returns the formatter for name, falling back to combined.
func FormatterFor(name string) Formatter {
	if f, ok := formatters[strings.ToLower(name)]; ok {
		return f
	}
	return formatCombined
}

// AccessLog returns middleware that logs one line per completed request
// through l.LogRequest, so the record is emitted at info and marked as
// middleware-originated.
func AccessLog(l *logging.Logger, format string) func(http.Handler) http.Handler {
	formatter := FormatterFor(format)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				l.LogRequest(formatter(Entry{
					Request:  r,
					Status:   status(ww),
					Bytes:    ww.BytesWritten(),
					Header:   ww.Header(),
					Start:    start,
					Duration: time.Since(start),
				}))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// status returns the response status, treating an untouched writer as 200.
func status(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// :remote-addr - :remote-user [:date[clf]] ":method :url HTTP/:http-version" :status :res[content-length] ":referrer" ":user-agent"
func formatCombined(e Entry) string {
	return fmt.Sprintf(`%s "%s" "%s"`,
		formatCommon(e),
		orDash(e.Request.Referer()),
		orDash(e.Request.UserAgent()),
	)
}

// :remote-addr - :remote-user [:date[clf]] ":method :url HTTP/:http-version" :status :res[content-length]
func formatCommon(e Entry) string {
	return fmt.Sprintf(`%s - %s [%s] "%s %s HTTP/%d.%d" %d %s`,
		remoteAddr(e.Request),
		remoteUser(e.Request),
		e.Start.UTC().Format(clfTime),
		e.Request.Method,
		e.Request.URL.RequestURI(),
		e.Request.ProtoMajor, e.Request.ProtoMinor,
		e.Status,
		contentLength(e),
	)
}

// :method :url :status :response-time ms - :res[content-length]
func formatDev(e Entry) string {
	return fmt.Sprintf("%s %s %d %s ms - %s",
		e.Request.Method,
		e.Request.URL.RequestURI(),
		e.Status,
		responseTime(e.Duration),
		contentLength(e),
	)
}

// :remote-addr :remote-user :method :url HTTP/:http-version :status :res[content-length] - :response-time ms
func formatShort(e Entry) string {
	return fmt.Sprintf("%s %s %s %s HTTP/%d.%d %d %s - %s ms",
		remoteAddr(e.Request),
		remoteUser(e.Request),
		e.Request.Method,
		e.Request.URL.RequestURI(),
		e.Request.ProtoMajor, e.Request.ProtoMinor,
		e.Status,
		contentLength(e),
		responseTime(e.Duration),
	)
}

// :method :url :status :res[content-length] - :response-time ms
func formatTiny(e Entry) string {
	return fmt.Sprintf("%s %s %d %s - %s ms",
		e.Request.Method,
		e.Request.URL.RequestURI(),
		e.Status,
		contentLength(e),
		responseTime(e.Duration),
	)
}

func remoteAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return orDash(r.RemoteAddr)
}

func remoteUser(r *http.Request) string {
	if user, _, ok := r.BasicAuth(); ok && user != "" {
		return user
	}
	return "-"
}

// contentLength prefers the declared header and falls back to the bytes
// actually written.
func contentLength(e Entry) string {
	if cl := e.Header.Get("Content-Length"); cl != "" {
		return cl
	}
	if e.Bytes > 0 {
		return strconv.Itoa(e.Bytes)
	}
	return "-"
}

func responseTime(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Microseconds())/1000, 'f', 3, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
