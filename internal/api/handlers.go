// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package api

import (
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/config"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/forecast"
)

// Version is reported by the welcome and health endpoints. It is set at
// build time with -ldflags "-X .../internal/api.Version=...".
var Version = "dev"

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response writing, parameter parsing, error mapping
//   - handlers_health.go: health and readiness probes
//   - handlers_forecast.go: affiliation, projection, ranking and model endpoints
type Handler struct {
	engine    *forecast.Engine
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// The engine may wrap unavailable assets; forecast endpoints then answer 503
// and the readiness probe fails while liveness still succeeds.
func NewHandler(engine *forecast.Engine, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		config:    cfg,
		startTime: time.Now(),
	}
}

// defaultHorizon returns the projection horizon used when projection_years is omitted.
func (h *Handler) defaultHorizon() int {
	if h.config != nil && h.config.Forecast.DefaultHorizon > 0 {
		return h.config.Forecast.DefaultHorizon
	}
	return forecast.DefaultHorizon
}

// maxCompare returns the largest accepted comparison batch.
func (h *Handler) maxCompare() int {
	if h.config != nil && h.config.Forecast.MaxCompare > 0 {
		return h.config.Forecast.MaxCompare
	}
	return defaultMaxCompare
}
