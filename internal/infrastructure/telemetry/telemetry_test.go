package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// setupTestTracer installs an in-memory span recorder as the global provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return recorder
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Settings{Enabled: false, Logs: true}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.TracingEnabled())
	assert.False(t, p.LogsEnabled())
	assert.NotNil(t, p.Meter("test"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_ShutdownFlushesAll(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	p := &Providers{
		tracer: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)),
		meter:  sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		logs:   sdklog.NewLoggerProvider(sdklog.WithProcessor(&recordingProcessor{})),
		logger: zap.NewNop(),
	}
	assert.True(t, p.TracingEnabled())
	assert.True(t, p.LogsEnabled())

	_, span := p.tracer.Tracer("test").Start(context.Background(), "pending")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Len(t, recorder.Ended(), 1)
	assert.Error(t, reader.Collect(context.Background(), &metricdata.ResourceMetrics{}), "reader is closed after shutdown")
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased")
}

func TestStartSpan(t *testing.T) {
	recorder := setupTestTracer(t)

	ctx, span := StartSpan(context.Background(), "ingestion.test",
		SpanAttrTopic.String("orders/create"),
		SpanAttrItemCount.Int(3),
	)
	assert.Len(t, TraceID(ctx), 32)
	span.SetAttributes(SpanAttrCreated.Bool(true))
	RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "ingestion.test", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Contains(t, s.Attributes(), SpanAttrTopic.String("orders/create"))
	assert.Contains(t, s.Attributes(), SpanAttrItemCount.Int(3))
	assert.Contains(t, s.Attributes(), SpanAttrCreated.Bool(true))
}

func TestSetOK(t *testing.T) {
	recorder := setupTestTracer(t)
	_, span := StartSpan(context.Background(), "ok")
	SetOK(span)
	span.End()
	assert.Equal(t, codes.Ok, recorder.Ended()[0].Status().Code)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestWebhookMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewWebhookMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDelivery(ctx, "orders/create", OutcomeProcessed, 30*time.Millisecond)
	m.RecordDelivery(ctx, "orders/create", OutcomeProcessed, 10*time.Millisecond)
	m.RecordDelivery(ctx, "orders/delete", OutcomeIgnored, time.Millisecond)
	m.RecordUpsert(ctx, "order", ResultCreated)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}

	deliveries := byName["webhook.deliveries"].Data.(metricdata.Sum[int64])
	var processed int64
	for _, dp := range deliveries.DataPoints {
		if v, ok := dp.Attributes.Value(AttrOutcome); ok && v.AsString() == OutcomeProcessed {
			processed = dp.Value
		}
	}
	assert.Equal(t, int64(2), processed)

	hist := byName["webhook.processing.duration"].Data.(metricdata.Histogram[float64])
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)

	upserts := byName["ingestion.upserts"].Data.(metricdata.Sum[int64])
	require.Len(t, upserts.DataPoints, 1)
	assert.Equal(t, int64(1), upserts.DataPoints[0].Value)
}

func TestWebhookMetrics_NilIsSafe(t *testing.T) {
	var m *WebhookMetrics
	assert.NotPanics(t, func() {
		m.RecordDelivery(context.Background(), "x", OutcomeFailed, time.Second)
		m.RecordUpsert(context.Background(), "order", ResultSkipped)
	})
}

type recordingProcessor struct {
	records []sdklog.Record
}

func (p *recordingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.records = append(p.records, r.Clone())
	return nil
}
func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }
func (p *recordingProcessor) Shutdown(context.Context) error                          { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error                        { return nil }

func TestBridge(t *testing.T) {
	processor := &recordingProcessor{}
	p := &Providers{
		logs:        sdklog.NewLoggerProvider(sdklog.WithProcessor(processor)),
		serviceName: "test",
		logger:      zap.NewNop(),
	}
	defer p.Shutdown(context.Background())

	baseCore, logs := observer.New(zapcore.DebugLevel)
	logger := p.Bridge(zap.New(baseCore), zapcore.InfoLevel)

	logger.Debug("debug only locally")
	logger.With(zap.String("tenant_id", "t-1")).Info("webhook processed", zap.String("topic", "orders/create"))

	assert.Equal(t, 2, logs.Len())
	require.Len(t, processor.records, 1)
	assert.Equal(t, "webhook processed", processor.records[0].Body().AsString())
}

func TestBridge_WithoutLogPipeline(t *testing.T) {
	baseCore, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(baseCore)
	logger := (&Providers{}).Bridge(base, zapcore.InfoLevel)
	assert.Same(t, base, logger)
	logger.Info("local")
	assert.Equal(t, 1, logs.Len())
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	reg, err := RegisterDBPoolMetrics(provider.Meter("test"), func() sql.DBStats {
		return sql.DBStats{MaxOpenConnections: 20, OpenConnections: 5, InUse: 2, Idle: 3, WaitCount: 7}
	})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	states := map[string]int64{}
	for _, dp := range byName["db.pool.connections"].Data.(metricdata.Gauge[int64]).DataPoints {
		v, _ := dp.Attributes.Value(AttrPoolState)
		states[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"idle": 3, "in_use": 2, "open": 5}, states)
	assert.Equal(t, int64(20), byName["db.pool.connections.max"].Data.(metricdata.Gauge[int64]).DataPoints[0].Value)
	assert.Equal(t, int64(7), byName["db.pool.wait_count"].Data.(metricdata.Sum[int64]).DataPoints[0].Value)

	require.NoError(t, reg.Unregister())
}
