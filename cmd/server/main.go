package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/application/ingestion"
	"github.com/shopsight/backend/internal/domain/commerce"
	domainingestion "github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopsight/backend/internal/infrastructure/cache"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/ecommerce"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/persistence"
	"github.com/shopsight/backend/internal/infrastructure/storage"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
	"github.com/shopsight/backend/internal/interfaces/http/handler"
	"github.com/shopsight/backend/internal/interfaces/http/middleware"
	"github.com/shopsight/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	otelProviders, err := telemetry.Setup(ctx, telemetry.Settings{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsInterval:   cfg.Telemetry.MetricsExportInterval,
		Logs:              cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = otelProviders.Bridge(log, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopSight ingestion service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	poolMetrics, err := telemetry.RegisterDBPoolMetrics(otelProviders.Meter("shopsight/db"), db.Stats)
	if err != nil {
		log.Fatal("Failed to register database pool metrics", zap.Error(err))
	}
	defer func() { _ = poolMetrics.Unregister() }()

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	dbTracing.DBName = cfg.Database.DBName
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	webhookMetrics, err := telemetry.NewWebhookMetrics(otelProviders.Meter("shopsight/ingestion"))
	if err != nil {
		log.Fatal("Failed to create webhook metrics", zap.Error(err))
	}

	dedup, err := newIdempotencyStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	if dedup != nil {
		defer func() { _ = dedup.Close() }()
	}

	archive, err := newPayloadArchive(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create payload archive", zap.Error(err))
	}

	precedence, err := commerce.ParseStatusPrecedence(cfg.Ingestion.StatusPrecedence)
	if err != nil {
		log.Fatal("Invalid status precedence", zap.Error(err))
	}

	// Repositories and services
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	logRepo := persistence.NewGormProcessingLogRepository(db.DB)
	repos := persistence.NewRepositories(db.DB)

	verifier := ecommerce.NewSignatureVerifier(cfg.Webhook.Secret)
	if !verifier.Configured() {
		if cfg.IsProduction() {
			log.Fatal("Webhook secret is required in production")
		}
		log.Warn("Webhook secret is empty, every delivery will be rejected")
	}

	upsertEngine := ingestion.NewUpsertEngine(
		persistence.NewGormTransactionScope(db.DB),
		ingestion.WithStatusPolicy(commerce.StatusPolicy{Precedence: precedence}),
		ingestion.WithUpsertMetrics(webhookMetrics),
	)
	webhookService := ingestion.NewWebhookService(ingestion.WebhookServiceConfig{
		Verifier:          verifier,
		Resolver:          ingestion.NewTenantResolver(tenantRepo),
		Logs:              ingestion.NewProcessingLogService(logRepo, cfg.Ingestion.MaxErrorLength),
		Router:            ingestion.NewEventRouter(upsertEngine, webhookMetrics),
		Idempotency:       dedup,
		DedupTTL:          cfg.Ingestion.DedupTTL,
		Archive:           archive,
		Metrics:           webhookMetrics,
		ProcessingTimeout: cfg.Ingestion.ProcessingTimeout,
	})
	statusService := ingestion.NewStatusService(tenantRepo, repos, logRepo)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	httpMetrics, err := middleware.HTTPMetrics(otelProviders.Meter("shopsight/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	headers := handler.WebhookHeaders{
		Signature:  cfg.Webhook.SignatureHeader,
		Topic:      cfg.Webhook.TopicHeader,
		ShopDomain: cfg.Webhook.DomainHeader,
		DeliveryID: cfg.Webhook.DeliveryIDHeader,
	}
	readyChecks := map[string]handler.HealthCheck{}
	if rc, ok := dedup.(*cache.RedisIdempotencyStore); ok {
		readyChecks["redis"] = rc.Ping
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger:      log,
		MaxBodySize: cfg.Webhook.MaxBodySize,
		AdminToken:  cfg.Admin.Token,
		Metrics:     httpMetrics,
		Tracing: middleware.TracingConfig{
			ServiceName:      cfg.Telemetry.ServiceName,
			Enabled:          cfg.Telemetry.Enabled,
			ShopDomainHeader: cfg.Webhook.DomainHeader,
			TopicHeader:      cfg.Webhook.TopicHeader,
		},
	}, router.Handlers{
		Webhook:    handler.NewWebhookHandler(webhookService, headers),
		Compliance: handler.NewComplianceHandler(verifier, headers),
		Status:     handler.NewStatusHandler(statusService),
		Health:     handler.NewHealthHandler(db.Ping, readyChecks),
	})
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := otelProviders.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newIdempotencyStore returns nil when delivery de-duplication is disabled
func newIdempotencyStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Ingestion.DedupEnabled {
		log.Info("Delivery de-duplication disabled")
		return nil, nil
	}
	factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	return factory.CreateStore(ctx, cfg.Ingestion.DedupBackend)
}

func newPayloadArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (domainingestion.PayloadArchive, error) {
	if !cfg.Archive.Enabled {
		return storage.NoopArchive{}, nil
	}
	archive, err := storage.NewS3PayloadArchive(ctx, &cfg.Archive, storage.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("s3 archive: %w", err)
	}
	log.Info("Raw payload archive enabled", zap.String("bucket", archive.Bucket()))
	return archive, nil
}
