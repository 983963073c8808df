// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

/*
Package middleware provides HTTP middleware components for the API.

Key Components:

  - PrometheusMetrics: request count, latency and in-flight instrumentation,
    labelled by chi route pattern
  - Compression: gzip for clients that send Accept-Encoding: gzip
  - SlowRequests: warning log for requests above a latency threshold

All middleware use the func(http.Handler) http.Handler shape so they plug
directly into chi's r.Use:

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.SlowRequests(time.Second))
	    r.Use(middleware.Compression)
	    r.Get("/ranking", handler.Ranking)
	})

Request IDs and CORS are handled by the chi ecosystem in the api package.
*/
package middleware
