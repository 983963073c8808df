// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

import (
	"context"
	"errors"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/affiliation"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// Model is the single-step predictor the engine iterates. *model.Adapter
// satisfies it.
type Model interface {
	Predict(ctx context.Context, year, code, priorPublications, priorAuthors int) (int, error)
	FeatureImportances() map[string]float64
}

// ModelInfo is the static model description reported by ModelDetails.
type ModelInfo struct {
	ModelType         string
	TrainingDataRange string
	TargetVariable    string
	MAE               float64
	RMSE              float64
}

// Assets bundles the artifacts loaded at startup. It is immutable once built
// and safe for concurrent use.
type Assets struct {
	encoder *affiliation.Encoder
	store   *series.Store
	model   Model
	info    ModelInfo
	err     error
}

// NewAssets returns a ready asset bundle.
func NewAssets(enc *affiliation.Encoder, store *series.Store, m Model, info ModelInfo) (*Assets, error) {
	switch {
	case enc == nil:
		return nil, errors.New("affiliation encoder is required")
	case store == nil:
		return nil, errors.New("historical series store is required")
	case m == nil:
		return nil, errors.New("model is required")
	}
	return &Assets{encoder: enc, store: store, model: m, info: info}, nil
}

// UnavailableAssets returns a bundle that reports not ready and retains the
// load error.
func UnavailableAssets(err error) *Assets {
	if err == nil {
		err = errors.New("assets not loaded")
	}
	return &Assets{err: err}
}

// Ready reports whether every artifact loaded.
func (a *Assets) Ready() bool {
	return a != nil && a.err == nil && a.encoder != nil && a.store != nil && a.model != nil
}

// Err returns the load error of an unavailable bundle.
func (a *Assets) Err() error {
	if a == nil {
		return errors.New("assets not loaded")
	}
	return a.err
}

// Encoder returns the affiliation encoder.
func (a *Assets) Encoder() *affiliation.Encoder {
	return a.encoder
}

// Store returns the historical series store.
func (a *Assets) Store() *series.Store {
	return a.store
}

// Model returns the single-step model.
func (a *Assets) Model() Model {
	return a.model
}

// Info returns the static model description.
func (a *Assets) Info() ModelInfo {
	return a.info
}
