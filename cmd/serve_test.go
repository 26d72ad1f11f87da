package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{"simulation_time": 300, "packet_length": 1, "generation_constant": 1.0,
"queue_constant": 0.4, "lambda_on": 0.1, "lambda_off": 0.2, "streams_number": 3, "dropped_streams": 1, "seed": 5}`

func TestServe_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(defaultServeLimits()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServe_Simulate_ReturnsReport(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/simulations", strings.NewReader(validBody))
	newRouter(defaultServeLimits()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.SimulationParams.Streams)
	assert.GreaterOrEqual(t, report.AvgLoadQ1, 0.0)
}

func TestServe_Simulate_WithTrace(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/simulations?trace=decisions", strings.NewReader(validBody))
	newRouter(defaultServeLimits()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Contains(t, decoded, "trace")
	assert.Contains(t, decoded, "packets_passed_Q1")
}

func TestServe_Simulate_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"too many dropped", "/v1/simulations", `{"streams_number": 1, "dropped_streams": 1}`},
		{"unknown field", "/v1/simulations", `{"streams": 2}`},
		{"malformed", "/v1/simulations", `{`},
		{"bad trace level", "/v1/simulations?trace=verbose", validBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(defaultServeLimits()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestServe_WrongMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(defaultServeLimits()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/simulations", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// endlessBody asks for far more events than any test can afford.
const endlessBody = `{"simulation_time": 1e12, "packet_length": 1, "generation_constant": 0.01,
"queue_constant": 0.01, "lambda_on": 0.001, "lambda_off": 1, "streams_number": 2, "dropped_streams": 0, "seed": 1}`

func TestServe_Simulate_HorizonAboveLimit_Rejected(t *testing.T) {
	limits := defaultServeLimits()
	limits.MaxHorizon = 100

	rec := httptest.NewRecorder()
	newRouter(limits).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/simulations", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exceeds the server limit")
}

func TestServe_Simulate_OversizedBody_Rejected(t *testing.T) {
	body := `{"seed": 1` + strings.Repeat(" ", maxRequestBytes) + `}`

	rec := httptest.NewRecorder()
	newRouter(defaultServeLimits()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/simulations", strings.NewReader(body)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServe_Simulate_ClientGone_StopsRun(t *testing.T) {
	// GIVEN a request whose client has already disconnected
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	limits := defaultServeLimits()
	limits.MaxHorizon = 1e12
	req := httptest.NewRequest(http.MethodPost, "/v1/simulations", strings.NewReader(endlessBody)).WithContext(ctx)

	// WHEN served
	rec := httptest.NewRecorder()
	newRouter(limits).ServeHTTP(rec, req)

	// THEN the run is abandoned instead of simulated to its horizon
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "interrupted")
}

func TestServe_Simulate_Timeout_StopsRun(t *testing.T) {
	// GIVEN a permissive horizon limit and a short wall-clock budget
	limits := serveLimits{MaxHorizon: 1e12, Timeout: 100 * time.Millisecond}
	req := httptest.NewRequest(http.MethodPost, "/v1/simulations", strings.NewReader(endlessBody))

	// WHEN an effectively endless simulation is posted
	rec := httptest.NewRecorder()
	started := time.Now()
	newRouter(limits).ServeHTTP(rec, req)

	// THEN the handler gives up soon after the budget
	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "deadline exceeded")
}
