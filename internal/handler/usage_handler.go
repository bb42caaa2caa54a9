package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/agency-platform/internal/dto"
	"github.com/anyulbade/agency-platform/internal/model"
)

type UsageLogLister interface {
	List(ctx context.Context, serviceName string, limit, offset int) ([]model.APIUsageLog, int, error)
}

type UsageHandler struct {
	logs UsageLogLister
}

func NewUsageHandler(logs UsageLogLister) *UsageHandler {
	return &UsageHandler{logs: logs}
}

func (h *UsageHandler) List(c *gin.Context) {
	serviceName := c.Query("service_name")
	p := dto.ParsePagination(c)

	logs, total, err := h.logs.List(c.Request.Context(), serviceName, p.PageSize, p.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list usage logs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UsageLogListResponse{
		Data:       logs,
		Pagination: dto.NewPagination(p.Page, p.PageSize, total),
	})
}
