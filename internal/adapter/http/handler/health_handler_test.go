package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealthChecker struct {
	err error
}

func (s stubHealthChecker) Health(context.Context) error {
	return s.err
}

func serveHealth(t *testing.T, h *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)

	req, _ := http.NewRequest("GET", path, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy when no dependencies", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(nil, nil, nil), "/health")

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "not configured", status.Components["database"])
		assert.Equal(t, "not configured", status.Components["redis"])
		assert.Equal(t, "not configured", status.Components["moderation_service"])
	})

	t.Run("reports moderation service ok", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(nil, nil, stubHealthChecker{}), "/health")

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "ok", status.Components["moderation_service"])
	})

	t.Run("unreachable moderation service stays healthy", func(t *testing.T) {
		checker := stubHealthChecker{err: errors.New("connection refused")}
		w := serveHealth(t, NewHealthHandler(nil, nil, checker), "/health")

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "error: connection refused", status.Components["moderation_service"])
	})
}

func TestHealthHandler_Ready(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ready when no dependencies", func(t *testing.T) {
		w := serveHealth(t, NewHealthHandler(nil, nil, nil), "/ready")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ready")
	})

	t.Run("not ready when moderation service is down", func(t *testing.T) {
		checker := stubHealthChecker{err: errors.New("status 502")}
		w := serveHealth(t, NewHealthHandler(nil, nil, checker), "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "moderation service unreachable")
	})
}
