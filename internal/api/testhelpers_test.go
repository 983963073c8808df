// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/affiliation"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/config"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/forecast"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/models"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// testModel predicts prior publications plus delta[code]. Codes listed in
// fail return an error.
type testModel struct {
	delta map[int]int
	fail  map[int]bool
}

func (m *testModel) Predict(_ context.Context, _, code, pubs, _ int) (int, error) {
	if m.fail[code] {
		return 0, errors.New("tree evaluation failed")
	}
	return pubs + m.delta[code], nil
}

func (m *testModel) FeatureImportances() map[string]float64 {
	return map[string]float64{"publication_count": 120, "distinct_authors": 80, "affiliation_encoded": 40, "year": 10}
}

// Encoder order: Org A (0), Org B (1), Org C (2), Org/Slash (3), Empty Org (4).
// Empty Org has no observations.
var testNames = []string{"Org A", "Org B", "Org C", "Org/Slash", "Empty Org"}

func testObservations() []series.Observation {
	return []series.Observation{
		{Affiliation: "Org A", Year: 2019, Publications: 10, Authors: 5},
		{Affiliation: "Org A", Year: 2020, Publications: 15, Authors: 5},
		{Affiliation: "Org B", Year: 2020, Publications: 40, Authors: 20},
		{Affiliation: "Org C", Year: 2020, Publications: 7, Authors: 0},
		{Affiliation: "Org/Slash", Year: 2020, Publications: 3, Authors: 1},
	}
}

// newTestEngine builds a ready engine. Growths: Org A +3, Org B -2, Org C +5, Org/Slash +1.
func newTestEngine(t *testing.T, fail map[int]bool) *forecast.Engine {
	t.Helper()
	return forecast.NewEngine(newTestAssets(t, fail))
}

func newTestEngineAssets(t *testing.T) *forecast.Assets {
	t.Helper()
	return newTestAssets(t, nil)
}

func newTestAssets(t *testing.T, fail map[int]bool) *forecast.Assets {
	t.Helper()

	enc, err := affiliation.NewEncoder(testNames)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	store, err := series.NewStore(testObservations())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	model := &testModel{delta: map[int]int{0: 3, 1: -2, 2: 5, 3: 1}, fail: fail}
	assets, err := forecast.NewAssets(enc, store, model, forecast.ModelInfo{
		ModelType:         "LightGBM Regressor",
		TrainingDataRange: "historical data up to 2021",
		TargetVariable:    "publications next year",
		MAE:               2.2,
		RMSE:              4.67,
	})
	if err != nil {
		t.Fatalf("NewAssets: %v", err)
	}
	return assets
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Forecast.DefaultHorizon = 5
	cfg.Forecast.MaxHorizon = 20
	cfg.Forecast.MaxCompare = 3
	return cfg
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(newTestEngine(t, nil), testConfig())
}

func newUnavailableHandler() *Handler {
	engine := forecast.NewEngine(forecast.UnavailableAssets(errors.New("open model.json: no such file or directory")))
	return NewHandler(engine, testConfig())
}

// newTestServer routes through the full middleware stack with rate limiting off.
func newTestServer(h *Handler) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(h, NewChiMiddleware(cfg)).Setup()
}

// envelope mirrors models.APIResponse with a typed payload.
type envelope[T any] struct {
	Status   string           `json:"status"`
	Data     T                `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func doRequest(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		req = httptest.NewRequest(method, target, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func doRawRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Errorf("Expected status %d, got %d (body %s)", status, w.Code, w.Body.String())
	}
	env := decodeEnvelope[json.RawMessage](t, w)
	if env.Status != "error" {
		t.Errorf("Expected status 'error', got %q", env.Status)
	}
	if env.Error == nil {
		t.Fatalf("Expected error payload, got none")
	}
	if env.Error.Code != code {
		t.Errorf("Expected error code %s, got %s", code, env.Error.Code)
	}
}
