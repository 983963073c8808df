// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

/*
Package models defines the HTTP response structures of the Centinela API.

Every endpoint wraps its payload in APIResponse. The payload types either come
straight from the forecast package (ProjectionResult, ModelDetails,
SinglePrediction) or are thin list wrappers defined here:

  - AffiliationsResponse: {"affiliations": [...]}
  - ComparisonResponse: {"results": [...]}
  - RankingResponse: {"ranking": [...]}
  - HealthStatus: health and readiness probes

Usage Example:

	respondJSON(w, http.StatusOK, &models.APIResponse{
	    Status:   "success",
	    Data:     models.RankingResponse{Ranking: entries},
	    Metadata: models.Metadata{Timestamp: time.Now()},
	})
*/
package models
