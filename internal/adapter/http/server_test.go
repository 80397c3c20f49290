package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/neo-impact-service/internal/adapter/http"
	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	"github.com/couchcryptid/neo-impact-service/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerAllowOrigin = "Access-Control-Allow-Origin"

type mockFeed struct {
	records []domain.AsteroidRecord
	err     error
}

func (m *mockFeed) FetchAsteroids(_ context.Context) ([]domain.AsteroidRecord, error) {
	return m.records, m.err
}

func newTestServer(feed domain.AsteroidFeed, ready bool, origins ...string) *httpadapter.Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg := &config.Config{HTTPAddr: ":0", AllowedOrigins: origins}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	svc := simulation.New(feed, nil, logger, metrics)
	svc.SetReady(ready)
	return httpadapter.NewServer(cfg, svc, svc, metrics, logger)
}

func do(srv *httpadapter.Server, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetAsteroids(t *testing.T) {
	feed := &mockFeed{records: []domain.AsteroidRecord{
		{ID: "2465633", Name: "465633 (2009 JR5)", DiameterM: 15, VelocityKmS: 18.127, MissDistanceKm: 45290298.2, CloseApproachDate: "2024-04-26"},
		{ID: "3542519", Name: "(2010 PK9)", DiameterM: 200, VelocityKmS: 20.5, MissDistanceKm: 7480000.25, Hazardous: true},
	}}
	srv := newTestServer(feed, true)

	rec := do(srv, http.MethodGet, "/api/get_asteroids", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody[[]map[string]any](t, rec)
	require.Len(t, body, 2)
	assert.Equal(t, "2465633", body[0]["id"])
	assert.Equal(t, "465633 (2009 JR5)", body[0]["name"])
	assert.InDelta(t, 15, body[0]["diameter_m"], 0)
	assert.InDelta(t, 18.127, body[0]["velocity_km_s"], 0)
	assert.InDelta(t, 45290298.2, body[0]["miss_distance_km"], 0)
	assert.Equal(t, true, body[1]["hazardous"])
}

func TestGetAsteroids_EmptyFeedIsArray(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodGet, "/api/get_asteroids", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetAsteroids_UpstreamFailure(t *testing.T) {
	srv := newTestServer(&mockFeed{err: errors.New("neo feed request: connection refused")}, true)

	rec := do(srv, http.MethodGet, "/api/get_asteroids", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body["error"], "could not fetch near-earth objects")
	assert.Contains(t, body["error"], "connection refused")
}

func TestCalculateImpact(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodPost, "/api/calculate_impact", `{"diameter":100,"velocity":20}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.InDelta(t, 75.09, body["energy_megatons"], 1e-9)
	assert.InDelta(t, 8.8, body["seismic_magnitude"], 1e-9)
	assert.Contains(t, body, "crater_diameter_km")
}

func TestCalculateImpact_ZeroDiameter(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodPost, "/api/calculate_impact", `{"diameter":0,"velocity":20}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"energy_megatons":0,"crater_diameter_km":0,"seismic_magnitude":null}`, rec.Body.String())
}

func TestCalculateImpact_BadRequests(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed JSON", `{"diameter":`, http.StatusBadRequest},
		{"missing velocity", `{"diameter":100}`, http.StatusBadRequest},
		{"wrong type", `{"diameter":"big","velocity":20}`, http.StatusBadRequest},
		{"negative diameter", `{"diameter":-100,"velocity":20}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, http.MethodPost, "/api/calculate_impact", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["error"])
		})
	}
}

func TestCalculateDeflection(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodPost, "/api/calculate_deflection", `{"miss_distance":10000,"velocity":15,"delta_v":0.01}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"new_miss_distance_km":10000.01,"clears_earth":true}`, rec.Body.String())
}

func TestCalculateDeflection_ZeroVelocity(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodPost, "/api/calculate_deflection", `{"miss_distance":10000,"velocity":0,"delta_v":0.01}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "velocity")
}

func TestCalculateDeflection_MissingField(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodPost, "/api/calculate_deflection", `{"miss_distance":10000,"velocity":15}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrongMethodRejected(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodGet, "/api/calculate_impact", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		srv := newTestServer(&mockFeed{}, true)
		rec := do(srv, http.MethodGet, "/api/get_asteroids", "")
		assert.Equal(t, "*", rec.Header().Get(headerAllowOrigin))
	})

	t.Run("preflight", func(t *testing.T) {
		srv := newTestServer(&mockFeed{}, true)
		rec := do(srv, http.MethodOptions, "/api/calculate_impact", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("allowlist echoes known origin", func(t *testing.T) {
		srv := newTestServer(&mockFeed{}, true, "https://neo.example.com", "http://localhost:3000")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/get_asteroids", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		srv.ServeHTTP(rec, req)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get(headerAllowOrigin))

		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/get_asteroids", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		srv.ServeHTTP(rec, req)
		assert.Equal(t, "https://neo.example.com", rec.Header().Get(headerAllowOrigin))
	})
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockFeed{}, false)

	rec := do(srv, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	rec := do(newTestServer(&mockFeed{}, true), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(newTestServer(&mockFeed{}, false), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockFeed{}, true)

	rec := do(srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
