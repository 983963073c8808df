// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package middleware

import (
	"net/http"
	"time"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which a request is logged.
// A full ranking runs one model call per affiliation and is the usual offender.
const DefaultSlowRequestThreshold = time.Second

// SlowRequests logs requests that take longer than threshold, with the
// request and correlation IDs from the context. A non-positive threshold
// uses DefaultSlowRequestThreshold.
func SlowRequests(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			if duration > threshold {
				logging.Ctx(r.Context()).Warn().
					Str("method", r.Method).
					Str("route", routePattern(r)).
					Int("status", wrapper.statusCode).
					Int64("duration_ms", duration.Milliseconds()).
					Int64("threshold_ms", threshold.Milliseconds()).
					Msg("Slow request detected")
			}
		})
	}
}
