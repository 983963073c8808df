// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package model wraps the trained publication regressor behind a small
// capability interface.
//
// Two backends exist: Ensemble evaluates a LightGBM tree dump in-process, and
// RemotePredictor calls an HTTP inference service through a circuit breaker.
// Callers only see Adapter, which fixes the feature layout and the rounding
// rule applied to the continuous model output.
package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"maps"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/metrics"
)

// Feature names in the order the model was trained with.
const (
	FeatureYear         = "year"
	FeatureAffiliation  = "affiliation_encoded"
	FeaturePublications = "publication_count"
	FeatureAuthors      = "distinct_authors"
)

// FeatureNames lists the model inputs in training order.
var FeatureNames = []string{FeatureYear, FeatureAffiliation, FeaturePublications, FeatureAuthors}

// ErrNonFinite is returned when a backend produces NaN, an infinity or a value
// too large to be a publication count.
var ErrNonFinite = errors.New("model produced a non-finite prediction")

// maxPrediction bounds the magnitude of an accepted model output.
const maxPrediction = math.MaxInt32

// Features is one model input row: the year being predicted plus the
// affiliation's state in the preceding year.
type Features struct {
	Year              int
	AffiliationCode   int
	PriorPublications int
	PriorAuthors      int
}

// Value returns the feature with the given training name.
func (f Features) Value(name string) (float64, bool) {
	switch name {
	case FeatureYear:
		return float64(f.Year), true
	case FeatureAffiliation:
		return float64(f.AffiliationCode), true
	case FeaturePublications:
		return float64(f.PriorPublications), true
	case FeatureAuthors:
		return float64(f.PriorAuthors), true
	default:
		return 0, false
	}
}

// Vector returns the features in FeatureNames order.
func (f Features) Vector() []float64 {
	return []float64{
		float64(f.Year),
		float64(f.AffiliationCode),
		float64(f.PriorPublications),
		float64(f.PriorAuthors),
	}
}

// Predictor produces the continuous model output for one input row.
type Predictor interface {
	Predict(ctx context.Context, f Features) (float64, error)
}

// Introspector is implemented by predictors that expose per-feature weights.
type Introspector interface {
	FeatureImportances() map[string]float64
}

// PredictorFunc adapts a plain function to Predictor.
type PredictorFunc func(ctx context.Context, f Features) (float64, error)

// Predict calls fn.
func (fn PredictorFunc) Predict(ctx context.Context, f Features) (float64, error) {
	return fn(ctx, f)
}

// Round converts a continuous model output to a publication count, rounding
// half away from zero (2.5 -> 3, -2.5 -> -3).
func Round(x float64) int {
	return int(math.Round(x))
}

// Adapter turns a Predictor into the integer-valued single-step prediction
// used by projections and rankings. It holds no mutable state.
type Adapter struct {
	predictor Predictor
	backend   string
}

// NewAdapter wraps p. backend labels metrics ("lightgbm", "remote", ...).
func NewAdapter(p Predictor, backend string) *Adapter {
	return &Adapter{predictor: p, backend: backend}
}

// Backend returns the backend label.
func (a *Adapter) Backend() string {
	return a.backend
}

// Predict returns the rounded publication count predicted for year.
func (a *Adapter) Predict(ctx context.Context, year, code, priorPublications, priorAuthors int) (int, error) {
	raw, err := a.predictor.Predict(ctx, Features{
		Year:              year,
		AffiliationCode:   code,
		PriorPublications: priorPublications,
		PriorAuthors:      priorAuthors,
	})
	if err == nil && (math.IsNaN(raw) || math.Abs(raw) > maxPrediction) {
		err = fmt.Errorf("%w: %v", ErrNonFinite, raw)
	}
	metrics.RecordPrediction(a.backend, err)
	if err != nil {
		return 0, fmt.Errorf("predict %d: %w", year, err)
	}
	return Round(raw), nil
}

// FeatureImportances returns the backend's feature weights keyed by feature
// name, or an empty map when the backend does not expose them.
func (a *Adapter) FeatureImportances() map[string]float64 {
	in, ok := a.predictor.(Introspector)
	if !ok {
		return map[string]float64{}
	}
	out := maps.Clone(in.FeatureImportances())
	if out == nil {
		out = map[string]float64{}
	}
	return out
}
