// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package models

import (
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/forecast"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"affiliations": ["Escuela Politécnica Nacional", "..."]},
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {
//	    "code": "AFFILIATION_NOT_FOUND",
//	    "message": "affiliation \"Org Z\" not found"
//	  },
//	  "metadata": {"timestamp": "2026-03-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Engine computation time in milliseconds
//   - RequestID: Request identifier, also sent as X-Request-ID
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - INVALID_PARAMETER: Parameter rejected by the forecast engine
//   - AFFILIATION_NOT_FOUND: Unknown affiliation name
//   - NO_HISTORICAL_DATA: Affiliation has no observed years
//   - PREDICTION_FAILED: The model could not produce a value
//   - SERVICE_UNAVAILABLE: Model assets are not loaded
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AffiliationsResponse lists every affiliation known to the model.
type AffiliationsResponse struct {
	Affiliations []string `json:"affiliations"`
}

// ComparisonResponse holds the projections of a comparison request, in request order.
type ComparisonResponse struct {
	Results []forecast.ProjectionResult `json:"results"`
}

// RankingResponse holds the next-year growth ranking.
type RankingResponse struct {
	Ranking []forecast.RankingEntry `json:"ranking"`
}

// WelcomeResponse is returned by the service root.
type WelcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthStatus represents service health.
//
// Status is "healthy" when every model asset loaded and "degraded" otherwise.
// AssetError carries the load failure of a degraded service.
type HealthStatus struct {
	Status       string  `json:"status"`
	Version      string  `json:"version"`
	AssetsReady  bool    `json:"assets_ready"`
	Affiliations int     `json:"affiliations"`
	AssetError   string  `json:"asset_error,omitempty"`
	Uptime       float64 `json:"uptime"`
}
