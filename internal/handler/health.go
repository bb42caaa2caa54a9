package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler takes the database and, when reports are cached outside
// Postgres, the cache backend. cache may be nil.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{"status": "healthy", "database": "connected"}
	status := http.StatusOK

	if h.db == nil || h.db.Ping(c.Request.Context()) != nil {
		resp["database"] = "disconnected"
		resp["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		resp["cache"] = "connected"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			resp["cache"] = "disconnected"
			resp["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, resp)
}
