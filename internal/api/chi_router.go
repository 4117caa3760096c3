// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/middleware"
)

// Registry lists the configured loggers.
type Registry interface {
	IDs() []string
	Get(id string) (*logging.Logger, bool)
}

// Router wires the handlers and middleware.
type Router struct {
	logger        *logging.Logger
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router serving logger and the loggers of registry.
// A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(logger *logging.Logger, registry Registry, config *ChiMiddlewareConfig) *Router {
	return &Router{
		logger:        logger,
		handler:       NewHandler(logger, registry),
		chiMiddleware: NewChiMiddleware(config),
	}
}

// Handler builds the route tree.
//
// The access log middleware is read from the logger when Handler is
// called, so reconfigure the logger first.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.WithLogger(router.logger))
	r.Use(router.logger.Middleware())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/log", router.handler.Log)
		r.Get("/loggers", router.handler.Loggers)
		r.Get("/loggers/{id}", router.handler.Logger)
	})

	return r
}
