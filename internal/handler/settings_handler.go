package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/agency-platform/internal/dto"
	"github.com/anyulbade/agency-platform/internal/model"
	"github.com/anyulbade/agency-platform/internal/service"
)

type SettingsHandler struct {
	svc           *service.PaymentService
	methodsSchema *dto.SchemaValidator
	globalSchema  *dto.SchemaValidator
}

func NewSettingsHandler(svc *service.PaymentService) *SettingsHandler {
	return &SettingsHandler{
		svc:           svc,
		methodsSchema: dto.NewPaymentMethodsValidator(),
		globalSchema:  dto.NewGlobalSettingsValidator(),
	}
}

func (h *SettingsHandler) GetPaymentMethods(c *gin.Context) {
	state, err := h.svc.PaymentMethods(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment methods not configured"})
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SettingsHandler) PutPaymentMethods(c *gin.Context) {
	var state model.PaymentMethodsState
	if !h.decodeValidated(c, h.methodsSchema, &state) {
		return
	}
	if err := h.svc.SavePaymentMethods(c.Request.Context(), &state); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SettingsHandler) GetGlobalSettings(c *gin.Context) {
	settings, err := h.svc.GlobalSettings(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if settings == nil {
		settings = &model.GlobalPaymentSettings{}
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) PutGlobalSettings(c *gin.Context) {
	var settings model.GlobalPaymentSettings
	if !h.decodeValidated(c, h.globalSchema, &settings) {
		return
	}
	if err := h.svc.SaveGlobalSettings(c.Request.Context(), &settings); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) decodeValidated(c *gin.Context, v *dto.SchemaValidator, dest any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "failed to read body"})
		return false
	}

	violations, err := v.Validate(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "invalid JSON document"})
		return false
	}
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "settings validation failed",
			Errors: violations,
		})
		return false
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "invalid JSON document"})
		return false
	}
	return true
}
