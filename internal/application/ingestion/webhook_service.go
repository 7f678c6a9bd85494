package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultProcessingTimeout bounds one delivery when no timeout is configured
const DefaultProcessingTimeout = 30 * time.Second

// SignatureVerifier authenticates raw webhook bodies
type SignatureVerifier interface {
	Verify(body []byte, signature string) bool
}

// Delivery is one inbound webhook request
type Delivery struct {
	Topic      string
	ShopDomain string
	DeliveryID string
	Signature  string
	Body       []byte
}

// Outcome is how a delivery that was not rejected ended
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
)

// DeliveryResult is returned for accepted deliveries
type DeliveryResult struct {
	Outcome  Outcome
	TenantID uuid.UUID
	LogID    uuid.UUID
	Route    RouteResult
}

// WebhookService runs the ingestion pipeline for one delivery:
// verify, resolve tenant, open log, route, close log.
type WebhookService struct {
	verifier          SignatureVerifier
	resolver          *TenantResolver
	logs              *ProcessingLogService
	router            *EventRouter
	dedup             shared.IdempotencyStore
	dedupTTL          time.Duration
	archive           ingestion.PayloadArchive
	metrics           *telemetry.WebhookMetrics
	processingTimeout time.Duration
	now               func() time.Time
}

// WebhookServiceConfig holds the collaborators of a WebhookService.
// Idempotency, Archive and Metrics are optional.
type WebhookServiceConfig struct {
	Verifier          SignatureVerifier
	Resolver          *TenantResolver
	Logs              *ProcessingLogService
	Router            *EventRouter
	Idempotency       shared.IdempotencyStore
	DedupTTL          time.Duration
	Archive           ingestion.PayloadArchive
	Metrics           *telemetry.WebhookMetrics
	ProcessingTimeout time.Duration
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	timeout := cfg.ProcessingTimeout
	if timeout <= 0 {
		timeout = DefaultProcessingTimeout
	}
	ttl := cfg.DedupTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &WebhookService{
		verifier:          cfg.Verifier,
		resolver:          cfg.Resolver,
		logs:              cfg.Logs,
		router:            cfg.Router,
		dedup:             cfg.Idempotency,
		dedupTTL:          ttl,
		archive:           cfg.Archive,
		metrics:           cfg.Metrics,
		processingTimeout: timeout,
		now:               time.Now,
	}
}

// Handle processes one delivery. Rejections are reported as errors:
// shared.ErrUnauthorized, shared.ErrTenantNotFound and shared.ErrInvalidPayload
// classify with errors.Is; anything else is a processing failure.
// Once a log entry is open, processing no longer follows the cancellation
// of ctx and is bounded by the processing timeout instead.
func (s *WebhookService) Handle(ctx context.Context, d Delivery) (*DeliveryResult, error) {
	start := s.now()
	topic := ingestion.ParseTopic(d.Topic)
	outcome := telemetry.OutcomeFailed
	defer func() {
		s.metrics.RecordDelivery(ctx, topic.Raw, outcome, s.now().Sub(start))
	}()

	ctx, span := telemetry.StartSpan(ctx, "ingestion.webhook",
		telemetry.SpanAttrTopic.String(topic.Raw),
		telemetry.SpanAttrShopDomain.String(d.ShopDomain),
		telemetry.SpanAttrDeliveryID.String(d.DeliveryID),
	)
	defer span.End()

	ctx = logger.WithFields(ctx, zap.String("topic", topic.Raw), zap.String("shop", d.ShopDomain))
	if traceID := telemetry.TraceID(ctx); traceID != "" {
		ctx = logger.WithFields(ctx, zap.String("trace_id", traceID))
	}

	if !s.verifier.Verify(d.Body, d.Signature) {
		outcome = telemetry.OutcomeUnauthorized
		logger.L(ctx).Warn("Rejected webhook with invalid signature")
		telemetry.RecordError(span, shared.ErrUnauthorized)
		return nil, shared.ErrUnauthorized
	}

	tenant, err := s.resolver.Resolve(ctx, d.ShopDomain)
	if err != nil {
		if errors.Is(err, shared.ErrTenantNotFound) {
			outcome = telemetry.OutcomeUnknownShop
			logger.L(ctx).Warn("Dropping webhook for unknown shop", zap.Error(err))
		} else {
			logger.L(ctx).Error("Tenant lookup failed", zap.Error(err))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	ctx = logger.WithTenantID(ctx, tenant.ID.String())
	span.SetAttributes(telemetry.SpanAttrTenantID.String(tenant.ID.String()))

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.processingTimeout)
	defer cancel()

	entry, err := s.logs.Open(pctx, tenant.ID, topic.Raw, d.DeliveryID, d.Body)
	if err != nil {
		logger.L(ctx).Error("Failed to open processing log", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}
	pctx = logger.WithFields(pctx, zap.String("log_id", entry.ID.String()))
	span.SetAttributes(telemetry.SpanAttrLogID.String(entry.ID.String()))

	result := &DeliveryResult{TenantID: tenant.ID, LogID: entry.ID}
	s.archivePayload(pctx, entry, d.Body)

	if s.alreadyProcessed(pctx, d.DeliveryID) {
		s.logs.Complete(pctx, entry.ID)
		outcome = telemetry.OutcomeDuplicate
		result.Outcome = OutcomeDuplicate
		logger.L(pctx).Info("Skipping redelivered webhook", zap.String("delivery_id", d.DeliveryID))
		telemetry.SetOK(span)
		return result, nil
	}

	route, err := s.process(pctx, tenant.ID, topic, entry.ID, d.Body)
	if err != nil {
		s.logs.Fail(pctx, entry.ID, err)
		logger.L(pctx).Error("Webhook processing failed", zap.Error(err))
		telemetry.RecordError(span, err)
		return result, err
	}
	s.logs.Complete(pctx, entry.ID)
	s.markProcessed(pctx, d.DeliveryID)

	result.Route = route
	if route.Ignored {
		outcome = telemetry.OutcomeIgnored
		result.Outcome = OutcomeIgnored
	} else {
		outcome = telemetry.OutcomeProcessed
		result.Outcome = OutcomeProcessed
	}
	logger.L(pctx).Info("Webhook processed",
		zap.String("outcome", string(result.Outcome)),
		zap.Bool("created", route.Created),
		zap.Duration("elapsed", s.now().Sub(start)))
	telemetry.SetOK(span)
	return result, nil
}

func (s *WebhookService) process(ctx context.Context, tenantID uuid.UUID, topic ingestion.Topic, logID uuid.UUID, body []byte) (RouteResult, error) {
	s.logs.Start(ctx, logID)
	if !topic.IsRoutable() {
		return s.router.Route(ctx, tenantID, topic, nil)
	}
	payload, err := DecodePayload(body)
	if err != nil {
		return RouteResult{Resource: topic.Resource}, err
	}
	route, err := s.router.Route(ctx, tenantID, topic, payload)
	if err != nil {
		return route, fmt.Errorf("%s: %w", topic.Raw, err)
	}
	return route, nil
}

// alreadyProcessed fails open: a broken store lets the delivery through
func (s *WebhookService) alreadyProcessed(ctx context.Context, deliveryID string) bool {
	if s.dedup == nil || deliveryID == "" {
		return false
	}
	seen, err := s.dedup.IsProcessed(ctx, deliveryID)
	if err != nil {
		logger.L(ctx).Warn("Idempotency lookup failed, processing anyway", zap.Error(err))
		return false
	}
	return seen
}

func (s *WebhookService) markProcessed(ctx context.Context, deliveryID string) {
	if s.dedup == nil || deliveryID == "" {
		return
	}
	if _, err := s.dedup.MarkProcessed(ctx, deliveryID, s.dedupTTL); err != nil {
		logger.L(ctx).Warn("Failed to record processed delivery", zap.Error(err))
	}
}

func (s *WebhookService) archivePayload(ctx context.Context, entry *ingestion.ProcessingLogEntry, body []byte) {
	if s.archive == nil {
		return
	}
	key, err := s.archive.Store(ctx, entry, body)
	if err != nil {
		logger.L(ctx).Warn("Failed to archive webhook payload", zap.Error(err))
		return
	}
	if key != "" {
		trace.SpanFromContext(ctx).SetAttributes(telemetry.SpanAttrArchiveKey.String(key))
	}
}
