// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/validation"
)

// maxBodyBytes bounds the body of a log submission.
const maxBodyBytes = 64 << 10

// LogRequest is a record submitted over HTTP.
type LogRequest struct {
	Level   string         `json:"level" validate:"required,loglevel"`
	Message string         `json:"message" validate:"required,max=4096"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// LoggerInfo describes a registered logger.
type LoggerInfo struct {
	ID    string   `json:"id"`
	Level string   `json:"level"`
	Sinks []string `json:"sinks"`
	Hooks []string `json:"hooks"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	Loggers []string `json:"loggers"`
}

// Handler serves the API endpoints.
type Handler struct {
	logger   *logging.Logger
	registry Registry
	started  time.Time
}

// NewHandler creates a Handler. Submitted records go to logger.
func NewHandler(logger *logging.Logger, registry Registry) *Handler {
	return &Handler{
		logger:   logger,
		registry: registry,
		started:  time.Now(),
	}
}

// Health reports liveness and the registered logger ids.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, HealthStatus{
		Status:  "healthy",
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Loggers: h.registry.IDs(),
	})
}

// Log accepts one record and emits it through the request logger, so the
// request and correlation ids travel with it.
func (h *Handler) Log(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		details := make(map[string]string, len(verr.Fields()))
		for _, fe := range verr.Fields() {
			details[fe.Path()] = fe.Error()
		}
		respondError(w, r, http.StatusBadRequest, "VALIDATION_FAILED", "Request failed validation", details)
		return
	}

	level, _ := logging.ParseLevel(req.Level)
	logging.Ctx(r.Context(), h.logger).Log(level, req.Message, logging.Fields(req.Meta))

	respondSuccess(w, r, http.StatusAccepted, map[string]string{
		"level": level.String(),
	})
}

// Loggers lists the registered loggers with their threshold, sinks and
// hooks.
func (h *Handler) Loggers(w http.ResponseWriter, r *http.Request) {
	ids := h.registry.IDs()
	infos := make([]LoggerInfo, 0, len(ids))
	for _, id := range ids {
		l, ok := h.registry.Get(id)
		if !ok {
			continue
		}
		infos = append(infos, LoggerInfo{
			ID:    l.ID(),
			Level: l.Level().String(),
			Sinks: l.SinkNames(),
			Hooks: l.Hooks(),
		})
	}
	respondSuccess(w, r, http.StatusOK, infos)
}

// Logger returns one logger by id.
func (h *Handler) Logger(w http.ResponseWriter, r *http.Request) {
	l, ok := h.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "No logger registered under that id", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, LoggerInfo{
		ID:    l.ID(),
		Level: l.Level().String(),
		Sinks: l.SinkNames(),
		Hooks: l.Hooks(),
	})
}
