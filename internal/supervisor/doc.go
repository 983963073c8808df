// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

/*
Package supervisor runs the long-lived services of the forecasting service
under a suture (github.com/thejerf/suture/v4) supervisor tree.

Tree Structure:

	centinela (root)
	└── api-layer
	    └── http-server (services.HTTPServerService)

A crashed HTTP listener is restarted with exponential backoff; after
FailureThreshold failures within the decay window the supervisor backs off
for FailureBackoff before trying again. Supervisor events are logged through
sutureslog using the slog adapter from the logging package.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Shutdown:

Canceling the context stops every service. The HTTP server drains in-flight
requests for at most the configured shutdown timeout; services that fail to
stop in time are listed by UnstoppedServiceReport. The channel returned by
ServeBackground delivers one value and is never closed, so callers receive
from it once, usually through Wait.
*/
package supervisor
