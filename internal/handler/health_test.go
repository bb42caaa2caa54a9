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

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func serveHealth(t *testing.T, h *HealthHandler) (int, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", h.Health)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthHandler_NoPool(t *testing.T) {
	t.Run("missing database reports unhealthy", func(t *testing.T) {
		code, resp := serveHealth(t, NewHealthHandler(nil, nil))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", resp["status"])
		assert.Equal(t, "disconnected", resp["database"])
	})
}

func TestHealthHandler_Cache(t *testing.T) {
	t.Run("database and cache up", func(t *testing.T) {
		code, resp := serveHealth(t, NewHealthHandler(stubPinger{}, stubPinger{}))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "connected", resp["cache"])
	})

	t.Run("cache down", func(t *testing.T) {
		code, resp := serveHealth(t, NewHealthHandler(stubPinger{}, stubPinger{err: errors.New("refused")}))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "connected", resp["database"])
		assert.Equal(t, "disconnected", resp["cache"])
	})

	t.Run("no cache backend omits the field", func(t *testing.T) {
		_, resp := serveHealth(t, NewHealthHandler(stubPinger{}, nil))
		_, ok := resp["cache"]
		assert.False(t, ok)
	})
}

// Integration test: requires running database
func TestHealthHandler_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pool := getTestPool(t)
	if pool == nil {
		t.Skip("no database available")
	}
	defer pool.Close()

	code, resp := serveHealth(t, NewHealthHandler(pool, nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "connected", resp["database"])
}
