// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package assets loads the startup artifacts (affiliation encoder, historical
// dataset, trained model) into a forecast.Assets bundle.
//
// A load failure never aborts the process. Load returns an unavailable bundle
// that keeps the error, so the service starts, reports not ready and answers
// every forecast request with 503.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/affiliation"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/config"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/database"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/forecast"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/metrics"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/model"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// Data loader names.
const (
	LoaderCSV    = "csv"
	LoaderDuckDB = "duckdb"
)

// Model backend names.
const (
	BackendLightGBM = "lightgbm"
	BackendRemote   = "remote"
)

// Load reads every artifact named in cfg. It always returns a bundle; check
// Ready() on it.
func Load(ctx context.Context, cfg *config.Config) *forecast.Assets {
	start := time.Now()
	logger := logging.WithComponent("assets")

	a, affs, rows, err := load(ctx, cfg)
	duration := time.Since(start)
	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("Failed to load model assets, service will report not ready")
		metrics.RecordAssets(false, 0, 0, duration)
		return forecast.UnavailableAssets(err)
	}

	logger.Info().
		Int("affiliations", affs).
		Int("observations", rows).
		Str("backend", cfg.Model.Backend).
		Str("data_loader", cfg.Assets.DataLoader).
		Dur("duration", duration).
		Msg("Model assets loaded")
	metrics.RecordAssets(true, affs, rows, duration)
	return a
}

func load(ctx context.Context, cfg *config.Config) (*forecast.Assets, int, int, error) {
	enc, err := affiliation.Load(cfg.Assets.EncoderPath)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load affiliation encoder: %w", err)
	}

	observations, err := LoadObservations(ctx, cfg)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load historical data: %w", err)
	}
	store, err := series.NewStore(observations)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("build historical series: %w", err)
	}

	m, err := LoadModel(ctx, &cfg.Assets, &cfg.Model)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("load model: %w", err)
	}

	a, err := forecast.NewAssets(enc, store, m, forecast.ModelInfo{
		ModelType:         cfg.Model.ModelType,
		TrainingDataRange: cfg.Model.TrainingDataRange,
		TargetVariable:    cfg.Model.TargetVariable,
		MAE:               cfg.Model.MAE,
		RMSE:              cfg.Model.RMSE,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return a, enc.Len(), store.Len(), nil
}

// LoadObservations reads the historical dataset with the configured loader.
func LoadObservations(ctx context.Context, cfg *config.Config) ([]series.Observation, error) {
	switch cfg.Assets.DataLoader {
	case LoaderCSV, "":
		return series.LoadCSV(cfg.Assets.DataPath)
	case LoaderDuckDB:
		return database.LoadObservationsFile(ctx, &cfg.Database, cfg.Assets.DataPath)
	default:
		return nil, fmt.Errorf("unknown data loader %q", cfg.Assets.DataLoader)
	}
}

// LoadModel builds the model adapter for the configured backend. The remote
// backend fetches its feature importances once here, so an unreachable
// inference service fails readiness.
func LoadModel(ctx context.Context, ac *config.AssetsConfig, mc *config.ModelConfig) (*model.Adapter, error) {
	switch mc.Backend {
	case BackendLightGBM, "":
		ens, err := model.LoadLightGBM(ac.ModelPath)
		if err != nil {
			return nil, err
		}
		logging.Debug().Int("trees", ens.NumTrees()).Str("path", ac.ModelPath).Msg("LightGBM model loaded")
		return model.NewAdapter(ens, BackendLightGBM), nil
	case BackendRemote:
		rp := model.NewRemotePredictor(mc.RemoteURL, mc.RemoteTimeout)
		if err := rp.FetchImportances(ctx); err != nil {
			return nil, fmt.Errorf("inference service %s: %w", mc.RemoteURL, err)
		}
		return model.NewAdapter(rp, BackendRemote), nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", mc.Backend)
	}
}
