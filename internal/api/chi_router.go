// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/middleware"
)

// Router wires handlers and middleware into a Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMiddleware uses the defaults.
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMiddleware,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())      // X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/", router.handler.Root)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Forecast Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.SlowRequests(middleware.DefaultSlowRequestThreshold))
		r.Use(middleware.Compression)

		r.Route("/api/v1", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimit()).Group(func(r chi.Router) {
				r.Get("/affiliations", router.handler.Affiliations)
				r.Get("/projection/{affiliation_name}", router.handler.Projection)
				r.Post("/projection/compare", router.handler.CompareProjections)
				r.Get("/model-details", router.handler.ModelDetails)
				r.Post("/predict", router.handler.Predict)
			})

			r.With(router.chiMiddleware.RateLimitRanking()).Get("/ranking", router.handler.Ranking)
		})
	})

	return r
}

// notFound answers unknown routes with the error envelope.
func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
}

// methodNotAllowed answers known routes called with the wrong method.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
}
