// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/api"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/assets"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/config"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/forecast"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/metrics"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/supervisor"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.SetAppInfo(api.Version)

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("model_backend", cfg.Model.Backend).
		Str("data_loader", cfg.Assets.DataLoader).
		Msg("Starting Centinela forecasting service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A failed load is not fatal: the service starts degraded, the readiness
	// probe fails and forecast endpoints answer 503.
	loaded := assets.Load(ctx, cfg)
	if !loaded.Ready() {
		logging.Err(loaded.Err()).Msg("Model assets unavailable, serving in degraded mode")
	}

	engine := forecast.NewEngine(loaded,
		forecast.WithMaxHorizon(cfg.Forecast.MaxHorizon),
		forecast.WithAuthorPolicy(forecast.RatioAuthorPolicy{Threshold: cfg.Forecast.AuthorRatioThreshold}),
	)

	handler := api.NewHandler(engine, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Bridge zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		// A second signal terminates the process with the default handler.
		signal.Stop(sigCh)
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// errCh yields a single value and is never closed.
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		if err := tree.Wait(errCh); err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Centinela stopped gracefully")
}
