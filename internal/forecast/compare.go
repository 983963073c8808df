// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

import (
	"context"
	"errors"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
)

// Compare projects each name over horizon years, in request order. Names that
// are unknown or have no history are skipped; any other failure aborts.
func (e *Engine) Compare(ctx context.Context, names []string, horizon int) ([]ProjectionResult, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}

	results := make([]ProjectionResult, 0, len(names))
	for _, name := range names {
		res, err := e.Project(ctx, name, horizon, nil)
		if err != nil {
			if errors.Is(err, ErrAffiliationNotFound) || errors.Is(err, ErrNoHistoricalData) {
				logging.Ctx(ctx).Debug().Str("affiliation", name).Err(err).Msg("Skipping affiliation in comparison")
				continue
			}
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// PredictOnce runs a single model step for name with caller-supplied prior
// values, independent of the stored history.
func (e *Engine) PredictOnce(ctx context.Context, name string, year, priorPublications, priorAuthors int) (*SinglePrediction, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	if priorPublications < 0 || priorAuthors < 0 {
		return nil, newError(KindInvalidParameter, nil, "prior counts must not be negative")
	}
	code, err := e.assets.encoder.Lookup(name)
	if err != nil {
		return nil, newError(KindAffiliationNotFound, err, "affiliation %q not found", name)
	}

	predicted, err := e.assets.model.Predict(ctx, year, code, priorPublications, priorAuthors)
	if err != nil {
		return nil, newError(KindPredictionFailed, err, "prediction for %q in %d failed", name, year)
	}
	return &SinglePrediction{AffiliationName: name, Year: year, PredictedPublications: predicted}, nil
}
