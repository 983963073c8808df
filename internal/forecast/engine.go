// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package forecast implements the projection and ranking engine.
//
// An Engine answers three questions over an immutable Assets bundle: the
// multi-year projection of one affiliation (optionally with a hypothetical
// author count), the next-year growth ranking of every affiliation, and a
// description of the model. Every entry point returns ErrServiceUnavailable
// before touching data when the assets failed to load.
//
// Engine holds no mutable state; concurrent calls need no locking.
package forecast

import (
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// Limits on the projection horizon.
const (
	MinHorizon     = 1
	MaxHorizon     = 20
	DefaultHorizon = 5
)

// Engine runs projections and rankings.
type Engine struct {
	assets     *Assets
	policy     AuthorPolicy
	maxHorizon int
}

// Option configures an Engine.
type Option func(*Engine)

// WithAuthorPolicy replaces the default RatioAuthorPolicy.
func WithAuthorPolicy(p AuthorPolicy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithMaxHorizon lowers the accepted horizon. Values outside 1..MaxHorizon are ignored.
func WithMaxHorizon(h int) Option {
	return func(e *Engine) {
		if h >= MinHorizon && h <= MaxHorizon {
			e.maxHorizon = h
		}
	}
}

// NewEngine creates an engine over assets. A nil or unavailable bundle is
// accepted; the engine then reports ServiceUnavailable.
func NewEngine(assets *Assets, opts ...Option) *Engine {
	e := &Engine{
		assets:     assets,
		policy:     RatioAuthorPolicy{Threshold: DefaultAuthorRatioThreshold},
		maxHorizon: MaxHorizon,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ready reports whether the engine can serve requests.
func (e *Engine) Ready() bool {
	return e.assets.Ready()
}

// AssetError returns the load error when the engine is not ready.
func (e *Engine) AssetError() error {
	return e.assets.Err()
}

// MaxHorizon returns the largest accepted projection horizon.
func (e *Engine) MaxHorizon() int {
	return e.maxHorizon
}

// Affiliations returns every known affiliation in encoder order.
func (e *Engine) Affiliations() ([]string, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	return e.assets.encoder.Names(), nil
}

func (e *Engine) checkReady() error {
	if !e.assets.Ready() {
		return newError(KindServiceUnavailable, e.assets.Err(), "model assets are not loaded")
	}
	return nil
}

// resolve maps name to its code and non-empty history.
func (e *Engine) resolve(name string) (int, []series.Observation, error) {
	code, err := e.assets.encoder.Lookup(name)
	if err != nil {
		return 0, nil, newError(KindAffiliationNotFound, err, "affiliation %q not found", name)
	}
	history := e.assets.store.Series(name)
	if len(history) == 0 {
		return 0, nil, newError(KindNoHistoricalData, nil, "no historical data for %q", name)
	}
	return code, history, nil
}
