package ingestion

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RouteResult describes what an event did
type RouteResult struct {
	Resource ingestion.Resource
	// Ignored is true for topics that carry no entity snapshot
	Ignored      bool
	EntityID     uuid.UUID
	Created      bool
	SkippedItems int
}

// EventRouter dispatches an event to the upserter for its topic's resource
type EventRouter struct {
	upserter Upserter
	metrics  *telemetry.WebhookMetrics
}

// NewEventRouter creates a new EventRouter. metrics may be nil.
func NewEventRouter(upserter Upserter, metrics *telemetry.WebhookMetrics) *EventRouter {
	return &EventRouter{upserter: upserter, metrics: metrics}
}

// Route maps the payload for the topic and upserts it. Topics for unknown
// resources, deletions and compliance requests are ignored without error.
func (r *EventRouter) Route(ctx context.Context, tenantID uuid.UUID, topic ingestion.Topic, payload Payload) (RouteResult, error) {
	res := RouteResult{Resource: topic.Resource}
	if !topic.IsRoutable() {
		res.Ignored = true
		logger.L(ctx).Info("Ignoring webhook topic", zap.String("topic", topic.Raw))
		return res, nil
	}

	entity := payload.Unwrap(topic.WrapperKey())
	switch topic.Resource {
	case ingestion.ResourceCustomers:
		u, err := MapCustomer(entity)
		if err != nil {
			return res, err
		}
		out, err := r.upserter.UpsertCustomer(ctx, tenantID, u)
		if err != nil {
			return res, err
		}
		res.EntityID, res.Created = out.ID, out.Created

	case ingestion.ResourceProducts:
		u, err := MapProduct(entity)
		if err != nil {
			return res, err
		}
		out, err := r.upserter.UpsertProduct(ctx, tenantID, u)
		if err != nil {
			return res, err
		}
		res.EntityID, res.Created = out.ID, out.Created

	case ingestion.ResourceOrders:
		m, err := MapOrder(entity)
		if err != nil {
			return res, err
		}
		if m.CustomerErr != nil {
			logger.L(ctx).Warn("Embedded customer could not be mapped, storing guest order", zap.Error(m.CustomerErr))
		}
		for _, skipped := range m.Skipped {
			logger.L(ctx).Warn("Skipping line item",
				zap.Int("index", skipped.Index),
				zap.Error(skipped.Err))
			r.metrics.RecordUpsert(ctx, "order_item", telemetry.ResultSkipped)
		}
		out, err := r.upserter.UpsertOrder(ctx, tenantID, m.Update)
		if err != nil {
			return res, err
		}
		res.EntityID, res.Created = out.ID, out.Created
		res.SkippedItems = len(m.Skipped)
	}
	return res, nil
}
