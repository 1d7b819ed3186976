package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpulse/internal/analysis"
	"hrpulse/internal/config"
	"hrpulse/internal/services"
)

func TestHealthCheck(t *testing.T) {
	logger := testLogger()
	cfg := config.AnalysisConfig{PreviewRows: 3, SessionTTL: time.Hour}
	analysisService := services.NewAnalysisService(cfg, analysis.NewAnalyzer(logger), logger)
	healthService := services.NewHealthService("test", config.PathsConfig{ReportsDir: t.TempDir()}, analysisService, logger)
	handler := NewHealthHandler(healthService, logger)

	rec := httptest.NewRecorder()
	handler.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "test", status.Version)
}

func TestLivenessCheck(t *testing.T) {
	handler := NewHealthHandler(nil, testLogger())

	rec := httptest.NewRecorder()
	handler.LivenessCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}
