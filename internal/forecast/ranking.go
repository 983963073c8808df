// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/metrics"
)

// Rank predicts next-year publications for every affiliation with history
// and orders them by absolute growth, largest first. Ties keep encoder order.
//
// The model is fed the observed author count of the last year as is.
func (e *Engine) Rank(ctx context.Context) ([]RankingEntry, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	start := time.Now()

	enc := e.assets.encoder
	entries := make([]RankingEntry, 0, enc.Len())
	for _, rec := range enc.Records() {
		last, ok := e.assets.store.Last(rec.Name)
		if !ok {
			continue
		}

		predicted, err := e.assets.model.Predict(ctx, last.Year+1, rec.Code, last.Publications, last.Authors)
		if err != nil {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("affiliation", rec.Name).
				Msg("Ranking prediction failed")
			return nil, newError(KindPredictionFailed, err, "prediction for %q failed", rec.Name)
		}

		growth := predicted - last.Publications
		entries = append(entries, RankingEntry{
			AffiliationName:               rec.Name,
			CurrentYearPublications:       last.Publications,
			PredictedNextYearPublications: predicted,
			Growth:                        growth,
			GrowthPercentage:              growthPercentage(growth, last.Publications),
		})
	}

	slices.SortStableFunc(entries, func(a, b RankingEntry) int {
		return cmp.Compare(b.Growth, a.Growth)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	metrics.RecordRanking(len(entries), time.Since(start))
	return entries, nil
}

// growthPercentage is growth relative to current, in percent with two decimals.
func growthPercentage(growth, current int) float64 {
	if current == 0 {
		return 0
	}
	return math.Round(float64(growth)/float64(current)*100*100) / 100
}
