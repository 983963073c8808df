// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Request structs with go-playground/validator tags. Field names in
// validation messages are the json names below.
//
// Example usage:
//
//	req := ProjectionRequest{
//	    AffiliationName: affiliationParam(r),
//	    ProjectionYears: years,
//	}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}

package api

const (
	// defaultMaxCompare bounds comparison batches when no configuration is present.
	defaultMaxCompare = 25

	// maxRequestBodyBytes bounds JSON request bodies.
	maxRequestBodyBytes = 1 << 20
)

// ProjectionRequest represents the validated parameters of
// GET /api/v1/projection/{affiliation_name}.
//
// Fields:
//   - AffiliationName: exact, case-sensitive affiliation name (path segment)
//   - ProjectionYears: years to predict (1-20, default 5)
//   - HypotheticalAuthors: optional author count replacing the last observed one
type ProjectionRequest struct {
	AffiliationName     string `json:"affiliation_name" validate:"required,max=512,affiliation"`
	ProjectionYears     int    `json:"projection_years" validate:"min=1,max=20"`
	HypotheticalAuthors *int   `json:"hypothetical_authors" validate:"omitempty,min=1"`
}

// CompareRequest represents the body of POST /api/v1/projection/compare.
// ProjectionYears is taken from the query string.
type CompareRequest struct {
	AffiliationNames []string `json:"affiliation_names" validate:"required,min=1,dive,required,max=512,affiliation"`
	ProjectionYears  int      `json:"projection_years" validate:"min=1,max=20"`
}

// PredictRequest represents the body of POST /api/v1/predict.
// The counts are pointers so that an explicit zero is distinguishable from a
// missing field.
type PredictRequest struct {
	Year                 int    `json:"year" validate:"required,gte=1900,lte=2200"`
	AffiliationName      string `json:"affiliation_name" validate:"required,max=512,affiliation"`
	LastYearPublications *int   `json:"last_year_publications" validate:"required,min=0"`
	LastYearAuthors      *int   `json:"last_year_authors" validate:"required,min=0"`
}
