// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/metrics"
)

// maxResponseBytes bounds inference service responses.
const maxResponseBytes = 1 << 20

// remoteRequest is the inference service wire format.
type remoteRequest struct {
	Year              int `json:"year"`
	AffiliationCode   int `json:"affiliation_encoded"`
	PriorPublications int `json:"publication_count"`
	PriorAuthors      int `json:"distinct_authors"`
}

type remoteResponse struct {
	Prediction *float64 `json:"prediction"`
}

type remoteModelInfo struct {
	FeatureImportances map[string]float64 `json:"feature_importances"`
}

// RemotePredictor calls an HTTP inference service hosting the trained model.
// Every call goes through a circuit breaker so that an unavailable service
// fails requests fast instead of stacking up timeouts. Calls are never retried.
type RemotePredictor struct {
	baseURL     string
	client      *http.Client
	cb          *gobreaker.CircuitBreaker[float64]
	name        string
	importances map[string]float64
}

// NewRemotePredictor creates a predictor for the service at baseURL.
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 30 second timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewRemotePredictor(baseURL string, timeout time.Duration) *RemotePredictor {
	cbName := "model-inference"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &RemotePredictor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
		name:    cbName,
	}
}

// Predict implements Predictor.
func (rp *RemotePredictor) Predict(ctx context.Context, f Features) (float64, error) {
	return rp.execute(func() (float64, error) {
		return rp.predict(ctx, f)
	})
}

func (rp *RemotePredictor) predict(ctx context.Context, f Features) (float64, error) {
	body, err := json.Marshal(remoteRequest{
		Year:              f.Year,
		AffiliationCode:   f.AffiliationCode,
		PriorPublications: f.PriorPublications,
		PriorAuthors:      f.PriorAuthors,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode inference request: %w", err)
	}

	var resp remoteResponse
	if err := rp.do(ctx, http.MethodPost, "/predict", body, &resp); err != nil {
		return 0, err
	}
	if resp.Prediction == nil {
		return 0, errors.New("inference response has no prediction")
	}
	return *resp.Prediction, nil
}

// FetchImportances loads the feature importances the inference service
// reports. It is called once at startup.
func (rp *RemotePredictor) FetchImportances(ctx context.Context) error {
	var info remoteModelInfo
	if err := rp.do(ctx, http.MethodGet, "/model", nil, &info); err != nil {
		return err
	}
	rp.importances = info.FeatureImportances
	return nil
}

// FeatureImportances implements Introspector.
func (rp *RemotePredictor) FeatureImportances() map[string]float64 {
	out := make(map[string]float64, len(rp.importances))
	for k, v := range rp.importances {
		out[k] = v
	}
	return out
}

func (rp *RemotePredictor) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rp.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rp.client.Do(req)
	if err != nil {
		return fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode inference response: %w", err)
	}
	return nil
}

// execute wraps an inference call with circuit breaker protection.
func (rp *RemotePredictor) execute(fn func() (float64, error)) (float64, error) {
	result, err := rp.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(rp.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(rp.name, "failure").Inc()
			counts := rp.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(rp.name).Set(float64(counts.ConsecutiveFailures))
		}
		return 0, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(rp.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(rp.name).Set(0)
	return result, nil
}

// State returns the current circuit breaker state.
func (rp *RemotePredictor) State() string {
	return stateToString(rp.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
