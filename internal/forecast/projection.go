// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

import (
	"context"
	"math"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/metrics"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// Project returns the history of name followed by horizon predicted years.
//
// Each step feeds the previous prediction back as the prior publication count.
// When hypotheticalAuthors is non-nil it replaces the observed author count of
// the last year; it must be positive.
func (e *Engine) Project(ctx context.Context, name string, horizon int, hypotheticalAuthors *int) (*ProjectionResult, error) {
	result, err := e.projectChecked(ctx, name, horizon, hypotheticalAuthors)
	metrics.RecordProjection(outcome(err), horizon)
	return result, err
}

func (e *Engine) projectChecked(ctx context.Context, name string, horizon int, hypotheticalAuthors *int) (*ProjectionResult, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	if horizon < MinHorizon || horizon > e.maxHorizon {
		return nil, newError(KindInvalidParameter, nil,
			"projection_years must be between %d and %d, got %d", MinHorizon, e.maxHorizon, horizon)
	}
	if hypotheticalAuthors != nil && *hypotheticalAuthors <= 0 {
		return nil, newError(KindInvalidParameter, nil,
			"hypothetical_authors must be positive, got %d", *hypotheticalAuthors)
	}

	code, history, err := e.resolve(name)
	if err != nil {
		return nil, err
	}

	seedAuthors := history[len(history)-1].Authors
	if hypotheticalAuthors != nil {
		seedAuthors = *hypotheticalAuthors
	}
	return e.project(ctx, name, code, history, horizon, seedAuthors)
}

// project runs the iteration over a resolved, non-empty history. A zero
// seedAuthors is valid here and goes through the policy's fallback ratio.
func (e *Engine) project(ctx context.Context, name string, code int, history []series.Observation, horizon, seedAuthors int) (*ProjectionResult, error) {
	last := history[len(history)-1]

	data := make([]ProjectedPoint, 0, len(history)+horizon)
	for _, obs := range history {
		data = append(data, ProjectedPoint{Year: obs.Year, Publications: obs.Publications, Type: PointActual})
	}

	next := e.policy.Trajectory(last.Publications, seedAuthors)
	year := last.Year
	publications := last.Publications
	authors := float64(seedAuthors)

	for step := 0; step < horizon; step++ {
		year++
		authorsInput := max(1, int(math.Round(authors)))

		predicted, err := e.assets.model.Predict(ctx, year, code, publications, authorsInput)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("affiliation", name).
				Int("year", year).
				Msg("Projection step failed")
			return nil, newError(KindPredictionFailed, err, "prediction for %q in %d failed", name, year)
		}

		data = append(data, ProjectedPoint{Year: year, Publications: predicted, Type: PointPredicted})
		publications = predicted
		authors = next(predicted, authors)
	}

	return &ProjectionResult{AffiliationName: name, Data: data}, nil
}

// outcome labels a projection result for metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch KindOf(err) {
	case KindAffiliationNotFound:
		return "not_found"
	case KindNoHistoricalData:
		return "no_data"
	case KindInvalidParameter:
		return "invalid"
	case KindServiceUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}
