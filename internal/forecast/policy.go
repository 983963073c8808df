// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

// DefaultAuthorRatioThreshold is the publications-per-author ratio at or
// below which the author count stops tracking predicted publications.
const DefaultAuthorRatioThreshold = 1e-3

// AuthorTrajectory returns the author count for the next step given the
// publications just predicted and the current (unrounded) author count.
type AuthorTrajectory func(predicted int, current float64) float64

// AuthorPolicy decides how the author count evolves over a projection.
// Trajectory is called once per run with the seed row.
type AuthorPolicy interface {
	Trajectory(seedPublications, seedAuthors int) AuthorTrajectory
}

// RatioAuthorPolicy keeps publications per author constant at the seed ratio.
// A zero author seed uses a ratio of 1. When the ratio is at or below
// Threshold the author count is frozen.
type RatioAuthorPolicy struct {
	Threshold float64
}

// Trajectory implements AuthorPolicy.
func (p RatioAuthorPolicy) Trajectory(seedPublications, seedAuthors int) AuthorTrajectory {
	ratio := 1.0
	if seedAuthors > 0 {
		ratio = float64(seedPublications) / float64(seedAuthors)
	}
	if ratio <= p.Threshold {
		return func(_ int, current float64) float64 { return current }
	}
	return func(predicted int, _ float64) float64 {
		return float64(predicted) / ratio
	}
}
