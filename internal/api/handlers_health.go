// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package api

import (
	"net/http"
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/models"
)

// healthStatus builds the shared health payload.
func (h *Handler) healthStatus() models.HealthStatus {
	health := models.HealthStatus{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	if h.engine != nil && h.engine.Ready() {
		health.AssetsReady = true
		if names, err := h.engine.Affiliations(); err == nil {
			health.Affiliations = len(names)
		}
		return health
	}

	health.Status = "degraded"
	if h.engine != nil {
		if err := h.engine.AssetError(); err != nil {
			health.AssetError = sanitizeLogValue(err.Error())
		}
	}
	return health
}

// Health handles health check requests. It always answers 200; a service
// whose model assets failed to load reports status "degraded".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.healthStatus(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of asset state
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only once every model asset is loaded, 503 otherwise
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
		return
	}

	health := h.healthStatus()

	statusCode := http.StatusOK
	status := "ready"
	if !health.AssetsReady {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"assets_ready":   health.AssetsReady,
			"affiliations":   health.Affiliations,
			"asset_error":    health.AssetError,
			"ready_to_serve": health.AssetsReady,
			"uptime":         health.Uptime,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
