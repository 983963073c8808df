// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

/*
Package api provides the HTTP layer of the Centinela forecasting service.

Routing uses Chi (github.com/go-chi/chi/v5) with the Chi ecosystem for CORS
(go-chi/cors) and rate limiting (go-chi/httprate). Handlers are thin: they
parse and validate the request, call one forecast.Engine operation and wrap
the result in the models.APIResponse envelope.

Endpoints:

	GET  /                                         welcome message
	GET  /api/v1/affiliations                      known affiliations
	GET  /api/v1/projection/{affiliation_name}     multi-year projection
	     ?projection_years=5&hypothetical_authors=40
	POST /api/v1/projection/compare                several projections
	     ?projection_years=5  {"affiliation_names": [...]}
	GET  /api/v1/ranking                           next-year growth ranking
	GET  /api/v1/model-details                     model description
	POST /api/v1/predict                           single model step
	GET  /api/v1/health, /health/live, /health/ready
	GET  /metrics                                  Prometheus

Error Mapping:

Engine errors are mapped by kind:

	ServiceUnavailable   503 SERVICE_UNAVAILABLE
	AffiliationNotFound  404 AFFILIATION_NOT_FOUND
	NoHistoricalData     404 NO_HISTORICAL_DATA
	InvalidParameter     400 INVALID_PARAMETER
	PredictionFailed     500 PREDICTION_FAILED

Request validation failures use 400 VALIDATION_ERROR.

Usage:

	handler := api.NewHandler(engine, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.Setup()}
*/
package api
