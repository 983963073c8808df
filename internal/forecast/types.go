// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

// PointType marks a projection point as observed or predicted.
type PointType string

const (
	PointActual    PointType = "actual"
	PointPredicted PointType = "predicted"
)

// ProjectedPoint is one year of a projection.
type ProjectedPoint struct {
	Year         int       `json:"year"`
	Publications int       `json:"publications"`
	Type         PointType `json:"type"`
}

// ProjectionResult is the observed history of an affiliation followed by
// its predicted continuation. Years increase by exactly one.
type ProjectionResult struct {
	AffiliationName string           `json:"affiliation_name"`
	Data            []ProjectedPoint `json:"data"`
}

// RankingEntry is one row of the next-year growth ranking.
type RankingEntry struct {
	Rank                          int     `json:"rank"`
	AffiliationName               string  `json:"affiliation_name"`
	CurrentYearPublications       int     `json:"current_year_publications"`
	PredictedNextYearPublications int     `json:"predicted_next_year_publications"`
	Growth                        int     `json:"growth"`
	GrowthPercentage              float64 `json:"growth_percentage"`
}

// PerformanceMetrics are the model's offline accuracy figures.
type PerformanceMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
}

// ModelDetails describes the loaded model.
type ModelDetails struct {
	ModelType          string             `json:"model_type"`
	TrainingDataRange  string             `json:"training_data_range"`
	TargetVariable     string             `json:"target_variable"`
	TotalAffiliations  int                `json:"total_affiliations"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
	FeatureImportances map[string]float64 `json:"feature_importances"`
}

// SinglePrediction is the result of PredictOnce.
type SinglePrediction struct {
	AffiliationName       string `json:"affiliation_name"`
	Year                  int    `json:"year"`
	PredictedPublications int    `json:"predicted_publications"`
}
