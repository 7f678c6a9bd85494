// Package middleware provides HTTP middleware for the ingestion service.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MaxRequestIDLength is the maximum length for request IDs to prevent DoS via large headers.
	MaxRequestIDLength = 128
	// MaxShopDomainLength bounds the shop header copied into span attributes.
	MaxShopDomainLength = 255
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
	// ShopDomainHeader names the header whose value is recorded as shop.domain.
	ShopDomainHeader string
	// TopicHeader names the header whose value is recorded as webhook.topic.
	TopicHeader string
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:      "shopsight-backend",
		Enabled:          true,
		ShopDomainHeader: "X-Shop-Domain",
		TopicHeader:      "X-Event-Topic",
	}
}

// Tracing returns the otelgin middleware followed by attribute enrichment
// and error marking. The span name is "METHOD route".
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	return []gin.HandlerFunc{
		otelgin.Middleware(cfg.ServiceName),
		TracingAttributeInjector(cfg),
		SpanErrorMarker(),
	}
}

// TracingAttributeInjector enriches the request span with the request id and
// the webhook headers. It must run after otelgin and RequestID.
func TracingAttributeInjector(cfg TracingConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := c.GetString(logger.GinRequestIDKey); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if cfg.ShopDomainHeader != "" {
				if shop := truncate(c.GetHeader(cfg.ShopDomainHeader), MaxShopDomainLength); shop != "" {
					span.SetAttributes(attribute.String("shop.domain", shop))
				}
			}
			if cfg.TopicHeader != "" {
				if topic := truncate(c.GetHeader(cfg.TopicHeader), MaxShopDomainLength); topic != "" {
					span.SetAttributes(attribute.String("webhook.topic", topic))
				}
			}
		}
		c.Next()
	}
}

// SpanErrorMarker returns a middleware that marks server spans failed for
// 4xx responses. otelgin already marks 5xx spans and clears any description,
// so those only get the status code attribute.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
		if statusCode >= http.StatusInternalServerError {
			return
		}
		var errorMessage string
		switch {
		case statusCode == http.StatusUnauthorized:
			errorMessage = "Unauthorized"
		case statusCode == http.StatusNotFound:
			errorMessage = "Not Found"
		case statusCode == http.StatusUnprocessableEntity:
			errorMessage = "Unprocessable Entity"
		default:
			errorMessage = "Client Error"
		}
		span.SetStatus(codes.Error, errorMessage)
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
