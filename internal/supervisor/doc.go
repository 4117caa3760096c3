// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

/*
Package supervisor runs the long-lived services of a host process under a
suture v4 supervisor tree.

	root ("envlog")
	├── maintenance
	│   └── RotateService (reopens log files on SIGHUP)
	└── api
	    └── HTTPService

Crashed services are restarted with backoff inside their own layer.
Lifecycle events (start, stop, failure, backoff) are written through
sutureslog to an slog.Logger, which a host normally builds from its envlog
logger with logging.NewSlogLogger.

Usage:

	tree := supervisor.NewTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	tree.AddMaintenance(supervisor.NewRotateService(factory.Rotate, hup, logger))
	tree.AddAPI(supervisor.NewHTTPService(srv, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logger.Crit("supervisor stopped", logging.Fields{"error": err.Error()})
	}
*/
package supervisor
