// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/envlog/internal/logging"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService runs an HTTP server under a supervisor.
type HTTPService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPService wraps server. A non-positive timeout means 10s.
func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. It returns when the server fails or,
// after a graceful shutdown, when ctx is canceled.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled; shutdown needs its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String names the service in supervisor events.
func (s *HTTPService) String() string { return "http-server" }

// RotateService reopens log files whenever a signal arrives, typically
// SIGHUP from logrotate or an operator.
type RotateService struct {
	rotate  func() error
	signals <-chan os.Signal
	logger  *logging.Logger
}

// NewRotateService calls rotate for every value received on signals and
// reports the outcome through logger.
func NewRotateService(rotate func() error, signals <-chan os.Signal, logger *logging.Logger) *RotateService {
	return &RotateService{rotate: rotate, signals: signals, logger: logger}
}

// Serve implements suture.Service.
func (s *RotateService) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-s.signals:
			if err := s.rotate(); err != nil {
				s.logger.Err("log rotation failed", logging.Fields{"signal": sig.String(), "error": err.Error()})
				continue
			}
			s.logger.Notice("log files rotated", logging.Fields{"signal": sig.String()})
		}
	}
}

// String names the service in supervisor events.
func (s *RotateService) String() string { return "log-rotation" }
