package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrTopic   = attribute.Key("topic")
	AttrOutcome = attribute.Key("outcome")
	AttrEntity  = attribute.Key("entity")
	AttrResult  = attribute.Key("result")
)

// Delivery outcomes
const (
	OutcomeProcessed    = "processed"
	OutcomeIgnored      = "ignored"
	OutcomeDuplicate    = "duplicate"
	OutcomeFailed       = "failed"
	OutcomeUnauthorized = "unauthorized"
	OutcomeUnknownShop  = "unknown_shop"
)

// Upsert results
const (
	ResultCreated = "created"
	ResultUpdated = "updated"
	ResultSkipped = "skipped"
)

// WebhookMetrics records ingestion pipeline metrics
type WebhookMetrics struct {
	deliveries *Counter
	duration   *Histogram
	upserts    *Counter
}

// NewWebhookMetrics registers the ingestion instruments on meter
func NewWebhookMetrics(meter metric.Meter) (*WebhookMetrics, error) {
	deliveries, err := NewCounter(meter,
		"webhook.deliveries",
		"Webhook deliveries received, by topic and outcome",
		"{delivery}")
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "webhook.processing.duration",
		Description: "Time spent processing a webhook delivery",
		Unit:        "s",
		Boundaries:  []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
	if err != nil {
		return nil, err
	}

	upserts, err := NewCounter(meter,
		"ingestion.upserts",
		"Entity writes performed by the upsert engine",
		"{row}")
	if err != nil {
		return nil, err
	}

	return &WebhookMetrics{
		deliveries: deliveries,
		duration:   duration,
		upserts:    upserts,
	}, nil
}

// RecordDelivery counts one delivery and its processing time
func (m *WebhookMetrics) RecordDelivery(ctx context.Context, topic, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrTopic.String(topic), AttrOutcome.String(outcome)}
	m.deliveries.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, elapsed, attrs...)
}

// RecordUpsert counts one entity write
func (m *WebhookMetrics) RecordUpsert(ctx context.Context, entity, result string) {
	if m == nil {
		return
	}
	m.upserts.Inc(ctx, AttrEntity.String(entity), AttrResult.String(result))
}
