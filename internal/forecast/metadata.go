// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

// ModelDetails describes the loaded model and the number of known affiliations.
func (e *Engine) ModelDetails() (*ModelDetails, error) {
	if err := e.checkReady(); err != nil {
		return nil, err
	}
	info := e.assets.info
	return &ModelDetails{
		ModelType:         info.ModelType,
		TrainingDataRange: info.TrainingDataRange,
		TargetVariable:    info.TargetVariable,
		TotalAffiliations: e.assets.encoder.Len(),
		PerformanceMetrics: PerformanceMetrics{
			MAE:  info.MAE,
			RMSE: info.RMSE,
		},
		FeatureImportances: e.assets.model.FeatureImportances(),
	}, nil
}
