// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package metrics defines the Prometheus instrumentation exported on /metrics:
// API endpoint latency and throughput, projection and ranking activity, model
// backend calls, startup asset state, and the remote model circuit breaker.
package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Forecast Metrics
	ProjectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_projections_total",
			Help: "Total number of projection requests by outcome",
		},
		[]string{"outcome"}, // ok, not_found, no_data, invalid, unavailable, error
	)

	ProjectionHorizon = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_projection_horizon_years",
			Help:    "Requested projection horizon in years",
			Buckets: []float64{1, 2, 3, 5, 10, 15, 20},
		},
	)

	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_ranking_duration_seconds",
			Help:    "Time to compute the growth ranking",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankingEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_ranking_entries",
			Help: "Number of affiliations in the most recent ranking",
		},
	)

	ModelPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_model_predictions_total",
			Help: "Total number of single-step model predictions",
		},
		[]string{"backend"},
	)

	ModelPredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_model_prediction_errors_total",
			Help: "Total number of failed model predictions",
		},
		[]string{"backend"},
	)

	// Asset Metrics
	AssetsReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_assets_ready",
			Help: "Whether model, encoder and historical data loaded (1) or not (0)",
		},
	)

	AffiliationsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_affiliations_loaded",
			Help: "Number of affiliations known to the encoder",
		},
	)

	ObservationsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_observations_loaded",
			Help: "Number of historical (affiliation, year) rows loaded",
		},
	)

	AssetLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forecast_asset_load_duration_seconds",
			Help: "Time spent loading startup assets",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordProjection records a projection request and its outcome.
func RecordProjection(outcome string, horizon int) {
	ProjectionsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		ProjectionHorizon.Observe(float64(horizon))
	}
}

// RecordRanking records a completed ranking computation.
func RecordRanking(entries int, duration time.Duration) {
	RankingDuration.Observe(duration.Seconds())
	RankingEntries.Set(float64(entries))
}

// RecordPrediction records a single model call.
func RecordPrediction(backend string, err error) {
	if err != nil {
		ModelPredictionErrors.WithLabelValues(backend).Inc()
		return
	}
	ModelPredictions.WithLabelValues(backend).Inc()
}

// RecordAssets publishes the startup asset state.
func RecordAssets(ready bool, affiliations, observations int, duration time.Duration) {
	if ready {
		AssetsReady.Set(1)
	} else {
		AssetsReady.Set(0)
	}
	AffiliationsLoaded.Set(float64(affiliations))
	ObservationsLoaded.Set(float64(observations))
	AssetLoadDuration.Set(duration.Seconds())
}

// SetAppInfo publishes the application version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
