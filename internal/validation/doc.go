// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator and translates field errors into
// the API's VALIDATION_ERROR format. Field names in messages are the json
// names of the request structs, so a client sees "projection_years must be at
// most 20" rather than a Go field name.
//
// # Custom Tags
//
//   - affiliation: non-blank string without control characters
//
// # Quick Start
//
//	type ProjectionRequest struct {
//	    AffiliationName string `json:"affiliation_name" validate:"required,max=512,affiliation"`
//	    ProjectionYears int    `json:"projection_years" validate:"min=1,max=20"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
