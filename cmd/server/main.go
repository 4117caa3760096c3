// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/envlog/internal/api"
	"github.com/tomtom215/envlog/internal/config"
	"github.com/tomtom215/envlog/internal/factory"
	"github.com/tomtom215/envlog/internal/logging"
	"github.com/tomtom215/envlog/internal/supervisor"
)

func main() {
	os.Exit(run())
}

func run() int {
	diag := logging.Diag()

	logger, err := factory.Configure(nil)
	if err != nil {
		diag.Error().Err(err).Msg("failed to configure logger")
		return 1
	}
	defer func() {
		if err := factory.CloseAll(); err != nil {
			diag.Error().Err(err).Msg("failed to close loggers")
		}
	}()
	defer logger.CapturePanic()

	serverCfg, err := config.LoadServer()
	if err != nil {
		logger.Crit("failed to load server configuration", logging.Fields{"error": err.Error()})
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	tree := supervisor.NewTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: serverCfg.ShutdownTimeout,
	})

	tree.AddMaintenance(supervisor.NewRotateService(factory.Rotate, hup, logger))

	middlewareCfg := api.DefaultChiMiddlewareConfig()
	middlewareCfg.CORSAllowedOrigins = serverCfg.CORSOrigins
	middlewareCfg.RateLimitRequests = serverCfg.RateLimit
	middlewareCfg.RateLimitWindow = serverCfg.RateWindow

	router := api.NewRouter(logger, factory.Std(), middlewareCfg)
	server := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	tree.AddAPI(supervisor.NewHTTPService(server, serverCfg.ShutdownTimeout))

	logger.Notice("server starting", logging.Fields{
		"addr":  serverCfg.Addr,
		"sinks": logger.SinkNames(),
		"hooks": logger.Hooks(),
	})

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logger.Notice("shutdown signal received")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Err("supervisor tree stopped", logging.Fields{"error": err.Error()})
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warning("service failed to stop", logging.Fields{"service": svc.Name})
	}

	logger.Notice("server stopped")
	return 0
}
