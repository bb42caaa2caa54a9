package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/agency-platform/internal/dto"
	"github.com/anyulbade/agency-platform/internal/model"
	"github.com/anyulbade/agency-platform/internal/service"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) AvailableMethods(c *gin.Context) {
	var req dto.EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	ref, ok := clientRef(c, req.ClientID, req.Client)
	if !ok {
		return
	}

	methods, err := h.svc.AvailableMethods(c.Request.Context(), ref, req.OrderValue)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.EligibilityResponse{
		OrderValue: req.OrderValue,
		Methods:    methods,
	})
}

func (h *PaymentHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	ref, ok := clientRef(c, req.ClientID, req.Client)
	if !ok {
		return
	}

	quote, err := h.svc.Quote(c.Request.Context(), ref, model.PaymentMethodID(req.MethodID), req.BaseValue)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func clientRef(c *gin.Context, clientID string, inline *dto.InlineClient) (service.ClientRef, bool) {
	switch {
	case clientID != "" && inline != nil:
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "validation failed",
			Errors: []dto.ValidationError{{Field: "client", Message: "provide client_id or client, not both"}},
		})
		return service.ClientRef{}, false
	case clientID != "":
		return service.ClientRef{ID: clientID}, true
	case inline != nil:
		return service.ClientRef{Inline: &model.Client{
			Country:      model.ParseCountry(inline.Country),
			PaymentScore: inline.PaymentScore,
		}}, true
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "validation failed",
			Errors: []dto.ValidationError{{Field: "client", Message: "client_id or client is required"}},
		})
		return service.ClientRef{}, false
	}
}
