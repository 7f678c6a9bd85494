package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for ingestion spans
const TracerName = "shopsight-backend"

// Span attribute keys used by the ingestion pipeline
var (
	SpanAttrTenantID   = attribute.Key("tenant.id")
	SpanAttrShopDomain = attribute.Key("shop.domain")
	SpanAttrTopic      = attribute.Key("webhook.topic")
	SpanAttrDeliveryID = attribute.Key("webhook.delivery_id")
	SpanAttrLogID      = attribute.Key("webhook.log_id")
	SpanAttrArchiveKey = attribute.Key("webhook.archive_key")
	SpanAttrEntity     = attribute.Key("upsert.entity")
	SpanAttrExternalID = attribute.Key("upsert.external_id")
	SpanAttrCreated    = attribute.Key("upsert.created")
	SpanAttrItemCount  = attribute.Key("order.item_count")
)

// StartSpan starts an internal span on the global tracer provider. The
// caller ends it.
//
//	ctx, span := telemetry.StartSpan(ctx, "ingestion.upsert_order", telemetry.SpanAttrEntity.String("order"))
//	defer span.End()
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks it failed
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span as successful
func SetOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// TraceID returns the trace id of the span in ctx, or "" when ctx carries
// no sampled span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
