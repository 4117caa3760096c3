// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/envlog/internal/logging"
)

// Response is the envelope of every JSON response.
type Response struct {
	Status   string    `json:"status"` // "success" or "error"
	Data     any       `json:"data,omitempty"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, &Response{
		Status:   "success",
		Data:     data,
		Metadata: metadataFor(r),
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]string) {
	writeJSON(w, status, &Response{
		Status:   "error",
		Metadata: metadataFor(r),
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func metadataFor(r *http.Request) Metadata {
	return Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
}

// writeJSON marshals v and writes it with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		diag := logging.Diag()
		diag.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		diag := logging.Diag()
		diag.Debug().Err(err).Msg("failed to write JSON response")
	}
}
