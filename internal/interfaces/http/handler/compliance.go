package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/application/ingestion"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ComplianceTopics maps the compliance route names to platform topics
var ComplianceTopics = map[string]string{
	"customers-data-request": "customers/data_request",
	"customers-redact":       "customers/redact",
	"shop-redact":            "shop/redact",
}

// ComplianceHandler acknowledges the mandatory privacy webhooks.
// Executing exports or erasure happens elsewhere.
type ComplianceHandler struct {
	BaseHandler
	verifier ingestion.SignatureVerifier
	headers  WebhookHeaders
}

// NewComplianceHandler creates a new ComplianceHandler
func NewComplianceHandler(verifier ingestion.SignatureVerifier, headers WebhookHeaders) *ComplianceHandler {
	return &ComplianceHandler{
		verifier: verifier,
		headers:  headers,
	}
}

// Receive returns a handler for one compliance topic
func (h *ComplianceHandler) Receive(topic string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := h.readBody(c)
		if !ok {
			return
		}
		shop := c.GetHeader(h.headers.ShopDomain)
		log := logger.L(c.Request.Context()).With(
			zap.String("topic", topic),
			zap.String("shop", shop))

		if !h.verifier.Verify(body, c.GetHeader(h.headers.Signature)) {
			log.Warn("Rejected compliance request with invalid signature")
			h.Unauthorized(c)
			return
		}
		log.Info("Compliance request received", zap.Int("bytes", len(body)))
		h.OK(c)
	}
}
