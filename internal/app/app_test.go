package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumberbarons/sun2000-poller/internal/config"
	"github.com/lumberbarons/sun2000-poller/internal/inverter"
)

func testApplication() *Application {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.InverterPoller.HTTPPort = 8080
	cfg.InverterPoller.Inverter.Name = "test"

	session := inverter.NewSession("test", nil, nil, nil,
		inverter.ScannerOptions{}, inverter.SessionOptions{}, nil)

	return NewApplication(cfg, session)
}

func TestStatusEndpoint(t *testing.T) {
	app := testApplication()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/inverter/status", nil)
	app.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var snapshot inverter.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.False(t, snapshot.Connected)
	assert.Zero(t, snapshot.PollOk)
}

func TestMetricsEndpoint(t *testing.T) {
	app := testApplication()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	app.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
