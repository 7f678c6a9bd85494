package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/interfaces/http/handler"
	"github.com/shopsight/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the endpoint handlers the service exposes
type Handlers struct {
	Webhook    *handler.WebhookHandler
	Compliance *handler.ComplianceHandler
	Status     *handler.StatusHandler
	Health     *handler.HealthHandler
}

// EngineConfig configures the HTTP engine
type EngineConfig struct {
	Logger      *zap.Logger
	MaxBodySize int64
	AdminToken  string
	Tracing     middleware.TracingConfig
	// Metrics is prepended to the chain when set
	Metrics gin.HandlerFunc
}

// NewEngine assembles the middleware chain and every route:
//
//	POST /webhooks
//	POST /webhooks/compliance/{customers-data-request,customers-redact,shop-redact}
//	GET  /api/v1/ingestion/status
//	GET  /health, /health/ready
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics)
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	r := NewRouter(engine)

	health := NewRouteGroup("/health").
		GET("", h.Health.Health).
		GET("/ready", h.Health.Ready)
	r.RegisterRoot(health)

	webhooks := NewRouteGroup("/webhooks").
		Use(middleware.BodyLimit(cfg.MaxBodySize)).
		POST("", h.Webhook.Receive)
	compliance := webhooks.Group("/compliance")
	for route, topic := range handler.ComplianceTopics {
		compliance.POST("/"+route, h.Compliance.Receive(topic))
	}
	r.RegisterRoot(webhooks)

	ingestion := NewRouteGroup("/ingestion").
		Use(middleware.AdminToken(cfg.AdminToken)).
		GET("/status", h.Status.GetStatus)
	r.Register(ingestion)

	r.Setup()
	for _, ri := range engine.Routes() {
		log.Debug("Route registered", zap.String("method", ri.Method), zap.String("path", ri.Path))
	}
	return engine
}
