package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/agency-platform/internal/dto"
	"github.com/anyulbade/agency-platform/internal/middleware"
	"github.com/anyulbade/agency-platform/internal/model"
)

func setupSettingsRouter(t *testing.T) (*gin.Engine, *memSettingsStore) {
	t.Helper()
	svc, store := newTestPaymentService()
	h := NewSettingsHandler(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	api := router.Group("/api/v1")
	api.GET("/settings/payment-methods", h.GetPaymentMethods)
	api.PUT("/settings/payment-methods", h.PutPaymentMethods)
	api.GET("/settings/payment-global", h.GetGlobalSettings)
	api.PUT("/settings/payment-global", h.PutGlobalSettings)
	return router, store
}

func put(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSettingsHandler_PaymentMethods(t *testing.T) {
	t.Run("read current configuration", func(t *testing.T) {
		router, _ := setupSettingsRouter(t)
		w := get(router, "/api/v1/settings/payment-methods")
		require.Equal(t, http.StatusOK, w.Code)

		var state model.PaymentMethodsState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.Equal(t, 10.0, state.Pix.DiscountPercentage)
	})

	t.Run("replace configuration", func(t *testing.T) {
		router, store := setupSettingsRouter(t)
		body := `{
		  "pix": {"enabled": false, "discount_percentage": 0},
		  "mbway": {"enabled": true, "discount_percentage": 2.5},
		  "credit_card": {"enabled": true, "min_installment_value": 50, "interest_mode": "absorbed"}
		}`
		w := put(router, "/api/v1/settings/payment-methods", body)
		require.Equal(t, http.StatusOK, w.Code)

		saved, ok := store.saved["payment_methods"].(*model.PaymentMethodsState)
		require.True(t, ok)
		assert.False(t, saved.Pix.Enabled)
		assert.Equal(t, 2.5, saved.MBWay.DiscountPercentage)
		assert.Equal(t, model.InterestAbsorbed, saved.CreditCard.InterestMode)
	})

	t.Run("schema violations are listed", func(t *testing.T) {
		router, store := setupSettingsRouter(t)
		body := `{
		  "pix": {"enabled": true, "discount_percentage": -5},
		  "mbway": {"enabled": true, "discount_percentage": 0},
		  "credit_card": {"enabled": true, "min_installment_value": 50, "interest_mode": "absorbed"}
		}`
		w := put(router, "/api/v1/settings/payment-methods", body)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "pix.discount_percentage", resp.Errors[0].Field)
		assert.Empty(t, store.saved)
	})

	t.Run("malformed json", func(t *testing.T) {
		router, _ := setupSettingsRouter(t)
		w := put(router, "/api/v1/settings/payment-methods", `{"pix":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not configured yet", func(t *testing.T) {
		router, store := setupSettingsRouter(t)
		store.methods = nil
		w := get(router, "/api/v1/settings/payment-methods")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSettingsHandler_GlobalSettings(t *testing.T) {
	t.Run("defaults when never saved", func(t *testing.T) {
		router, _ := setupSettingsRouter(t)
		w := get(router, "/api/v1/settings/payment-global")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"manual_approval_enabled": false}`, w.Body.String())
	})

	t.Run("toggle manual approval", func(t *testing.T) {
		router, store := setupSettingsRouter(t)
		w := put(router, "/api/v1/settings/payment-global", `{"manual_approval_enabled": true}`)
		require.Equal(t, http.StatusOK, w.Code)

		saved, ok := store.saved["payment_global_settings"].(*model.GlobalPaymentSettings)
		require.True(t, ok)
		assert.True(t, saved.ManualApprovalEnabled)
	})

	t.Run("wrong type", func(t *testing.T) {
		router, _ := setupSettingsRouter(t)
		w := put(router, "/api/v1/settings/payment-global", `{"manual_approval_enabled": 1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
