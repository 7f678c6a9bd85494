package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/application/ingestion"
)

// StatusProvider reports the ingestion state of a shop
type StatusProvider interface {
	GetStatus(ctx context.Context, domain string) (*ingestion.IngestionStatus, error)
}

// StatusHandler serves the operator status endpoint
type StatusHandler struct {
	BaseHandler
	status StatusProvider
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(status StatusProvider) *StatusHandler {
	return &StatusHandler{status: status}
}

// GetStatus handles GET /ingestion/status?shop=<domain>
func (h *StatusHandler) GetStatus(c *gin.Context) {
	shop := strings.TrimSpace(c.Query("shop"))
	if shop == "" {
		h.BadRequest(c, "Query parameter shop is required")
		return
	}
	status, err := h.status.GetStatus(c.Request.Context(), shop)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
