// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/forecast"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/models"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/validation"
)

// Error codes not produced by the forecast engine.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess wraps data in a success envelope. start is when the
// handler began work; it feeds query_time_ms.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorWithDetails(w, status, code, message, nil, err)
}

func respondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// engineErrorStatus maps a forecast error kind to an HTTP status code.
func engineErrorStatus(kind forecast.Kind) int {
	switch kind {
	case forecast.KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case forecast.KindAffiliationNotFound, forecast.KindNoHistoricalData:
		return http.StatusNotFound
	case forecast.KindInvalidParameter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondEngineError maps an engine error to the error envelope. Only
// server-side failures are logged at error level.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var engineErr *forecast.Error
	if !errors.As(err, &engineErr) {
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", err)
		return
	}

	status := engineErrorStatus(engineErr.Kind)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("code", engineErr.Kind.String()).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("Forecast request failed")
	} else {
		logging.Ctx(r.Context()).Debug().
			Str("code", engineErr.Kind.String()).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("Forecast request rejected")
	}

	// The wrapped cause is internal; clients only see the engine message.
	respondError(w, status, engineErr.Kind.String(), engineErr.Message, nil)
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// respondValidationError sends a 400 with the validation details.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
}

// parseIntQuery reads an integer query parameter. A missing parameter yields
// defaultValue; a malformed one is an error.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, *models.APIError) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &models.APIError{
			Code:    validation.ErrorCode,
			Message: fmt.Sprintf("%s must be an integer", key),
			Details: map[string]interface{}{"field": key, "value": value},
		}
	}
	return n, nil
}

// parseOptionalIntQuery reads an optional integer query parameter; nil means absent.
func parseOptionalIntQuery(r *http.Request, key string) (*int, *models.APIError) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil, nil
	}
	n, apiErr := parseIntQuery(r, key, 0)
	if apiErr != nil {
		return nil, apiErr
	}
	return &n, nil
}

// decodeJSONBody decodes a bounded JSON request body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// affiliationParam returns the decoded {affiliation_name} path segment.
// Chi matches on the raw path when the request carries escaped characters
// (for example %2F), in which case the parameter is still escaped.
func affiliationParam(r *http.Request) string {
	name := chi.URLParam(r, "affiliation_name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}
