// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/models"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/validation"
)

// welcomeMessage is the greeting of the service root.
const welcomeMessage = "Bienvenido al API del Centinela Predictivo de Publicaciones Científicas"

// Root answers GET / with a welcome message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.WelcomeResponse{Message: welcomeMessage, Version: Version}, time.Now())
}

// Affiliations lists every affiliation known to the model, in encoder order.
func (h *Handler) Affiliations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	names, err := h.engine.Affiliations()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, models.AffiliationsResponse{Affiliations: names}, start)
}

// Projection returns the observed history of one affiliation followed by its
// predicted publications.
//
// Query parameters:
//   - projection_years: years to predict (1-20, default 5)
//   - hypothetical_authors: optional positive author count for a what-if projection
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	years, apiErr := parseIntQuery(r, "projection_years", h.defaultHorizon())
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	authors, apiErr := parseOptionalIntQuery(r, "hypothetical_authors")
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	req := ProjectionRequest{
		AffiliationName:     affiliationParam(r),
		ProjectionYears:     years,
		HypotheticalAuthors: authors,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	result, err := h.engine.Project(r.Context(), req.AffiliationName, req.ProjectionYears, req.HypotheticalAuthors)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, result, start)
}

// CompareProjections projects several affiliations at once. Unknown names and
// names without history are left out of the results.
func (h *Handler) CompareProjections(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CompareRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Request body must be a JSON object with affiliation_names", nil)
		return
	}

	years, apiErr := parseIntQuery(r, "projection_years", h.defaultHorizon())
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	req.ProjectionYears = years

	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if limit := h.maxCompare(); len(req.AffiliationNames) > limit {
		respondErrorWithDetails(w, http.StatusBadRequest, validation.ErrorCode,
			fmt.Sprintf("affiliation_names must contain at most %d items", limit),
			map[string]interface{}{"field": "affiliation_names", "max": limit}, nil)
		return
	}

	results, err := h.engine.Compare(r.Context(), req.AffiliationNames, req.ProjectionYears)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, models.ComparisonResponse{Results: results}, start)
}

// Ranking returns every affiliation ordered by predicted next-year growth.
func (h *Handler) Ranking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ranking, err := h.engine.Rank(r.Context())
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, models.RankingResponse{Ranking: ranking}, start)
}

// ModelDetails describes the loaded model.
func (h *Handler) ModelDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	details, err := h.engine.ModelDetails()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, details, start)
}

// Predict runs one model step with caller-supplied prior values.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PredictRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Request body must be a JSON object", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	prediction, err := h.engine.PredictOnce(r.Context(), req.AffiliationName, req.Year,
		*req.LastYearPublications, *req.LastYearAuthors)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, prediction, start)
}
