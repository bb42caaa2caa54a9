package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/agency-platform/internal/auth"
	"github.com/anyulbade/agency-platform/internal/dto"
	"github.com/anyulbade/agency-platform/internal/service"
)

type ClientHandler struct {
	svc *service.PaymentService
}

func NewClientHandler(svc *service.PaymentService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) UpdatePaymentScore(c *gin.Context) {
	var uri dto.ClientURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	var req dto.PaymentScoreRequest
	// An empty body clears the score.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{Error: "validation failed: " + err.Error()})
		return
	}

	client, err := h.svc.SetClientScore(c.Request.Context(), uri.ID, req.PaymentScore)
	if err != nil {
		_ = c.Error(err)
		return
	}

	log.Info().
		Str("actor", auth.ActorFromContext(c.Request.Context())).
		Str("client_id", client.ID).
		Bool("cleared", req.PaymentScore == nil).
		Msg("payment score updated")
	c.JSON(http.StatusOK, client)
}
