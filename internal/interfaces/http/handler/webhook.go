package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/application/ingestion"
)

// DeliveryProcessor processes one inbound webhook delivery
type DeliveryProcessor interface {
	Handle(ctx context.Context, d ingestion.Delivery) (*ingestion.DeliveryResult, error)
}

// WebhookHeaders names the request headers a delivery is read from
type WebhookHeaders struct {
	Signature  string
	Topic      string
	ShopDomain string
	DeliveryID string
}

// WebhookHandler is the HTTP boundary of the ingestion pipeline
type WebhookHandler struct {
	BaseHandler
	processor DeliveryProcessor
	headers   WebhookHeaders
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(processor DeliveryProcessor, headers WebhookHeaders) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		headers:   headers,
	}
}

// Receive accepts a platform webhook. The raw body is kept byte for byte
// because the signature covers it.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	delivery := ingestion.Delivery{
		Topic:      c.GetHeader(h.headers.Topic),
		ShopDomain: c.GetHeader(h.headers.ShopDomain),
		Signature:  c.GetHeader(h.headers.Signature),
		Body:       body,
	}
	if h.headers.DeliveryID != "" {
		delivery.DeliveryID = c.GetHeader(h.headers.DeliveryID)
	}

	if _, err := h.processor.Handle(c.Request.Context(), delivery); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}
