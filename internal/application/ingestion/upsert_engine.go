package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Entity names used in metrics, spans and logs
const (
	EntityCustomer = "customer"
	EntityProduct  = "product"
	EntityOrder    = "order"
)

// createAttempts bounds the find-or-insert loop. A lost insert race is
// retried once as an update.
const createAttempts = 2

// UpsertResult identifies the row an upsert wrote
type UpsertResult struct {
	ID      uuid.UUID
	Created bool
}

// OrderResult extends UpsertResult with what the order cascade wrote
type OrderResult struct {
	UpsertResult
	CustomerID    *uuid.UUID
	ItemsReplaced bool
	ItemCount     int
}

// Upserter applies mapped entity updates for a tenant
type Upserter interface {
	UpsertCustomer(ctx context.Context, tenantID uuid.UUID, u commerce.CustomerUpdate) (UpsertResult, error)
	UpsertProduct(ctx context.Context, tenantID uuid.UUID, u commerce.ProductUpdate) (UpsertResult, error)
	UpsertOrder(ctx context.Context, tenantID uuid.UUID, u commerce.OrderUpdate) (OrderResult, error)
}

// UpsertEngine writes customers, products and orders idempotently.
// Every top-level upsert runs in its own transaction.
type UpsertEngine struct {
	txScope commerce.TransactionScope
	policy  commerce.StatusPolicy
	metrics *telemetry.WebhookMetrics
}

// UpsertEngineOption configures an UpsertEngine
type UpsertEngineOption func(*UpsertEngine)

// WithStatusPolicy sets the order status policy
func WithStatusPolicy(policy commerce.StatusPolicy) UpsertEngineOption {
	return func(e *UpsertEngine) {
		e.policy = policy
	}
}

// WithUpsertMetrics records created/updated counts
func WithUpsertMetrics(m *telemetry.WebhookMetrics) UpsertEngineOption {
	return func(e *UpsertEngine) {
		e.metrics = m
	}
}

// NewUpsertEngine creates a new UpsertEngine
func NewUpsertEngine(txScope commerce.TransactionScope, opts ...UpsertEngineOption) *UpsertEngine {
	e := &UpsertEngine{
		txScope: txScope,
		policy:  commerce.DefaultStatusPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UpsertCustomer creates or updates a customer keyed by external id, else email
func (e *UpsertEngine) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, u commerce.CustomerUpdate) (UpsertResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ingestion.upsert_customer",
		telemetry.SpanAttrTenantID.String(tenantID.String()),
		telemetry.SpanAttrEntity.String(EntityCustomer),
	)
	defer span.End()

	var res UpsertResult
	err := e.txScope.Execute(ctx, func(ctx context.Context, repos commerce.Repositories) error {
		var err error
		res, err = e.upsertCustomer(ctx, repos.Customers(), tenantID, u)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return UpsertResult{}, err
	}
	span.SetAttributes(telemetry.SpanAttrCreated.Bool(res.Created))
	telemetry.SetOK(span)
	e.recordUpsert(ctx, EntityCustomer, res.Created)
	return res, nil
}

// UpsertProduct creates or updates a product keyed by external id
func (e *UpsertEngine) UpsertProduct(ctx context.Context, tenantID uuid.UUID, u commerce.ProductUpdate) (UpsertResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ingestion.upsert_product",
		telemetry.SpanAttrTenantID.String(tenantID.String()),
		telemetry.SpanAttrEntity.String(EntityProduct),
		telemetry.SpanAttrExternalID.String(u.ExternalID),
	)
	defer span.End()

	var res UpsertResult
	err := e.txScope.Execute(ctx, func(ctx context.Context, repos commerce.Repositories) error {
		var err error
		res, err = e.upsertProduct(ctx, repos.Products(), tenantID, u)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return UpsertResult{}, err
	}
	span.SetAttributes(telemetry.SpanAttrCreated.Bool(res.Created))
	telemetry.SetOK(span)
	e.recordUpsert(ctx, EntityProduct, res.Created)
	return res, nil
}

// UpsertOrder writes the embedded customer, the order row, the referenced
// products and the order's items in one transaction. Items are replaced only
// when the payload carried a line_items array.
func (e *UpsertEngine) UpsertOrder(ctx context.Context, tenantID uuid.UUID, u commerce.OrderUpdate) (OrderResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ingestion.upsert_order",
		telemetry.SpanAttrTenantID.String(tenantID.String()),
		telemetry.SpanAttrEntity.String(EntityOrder),
		telemetry.SpanAttrExternalID.String(u.ExternalID),
	)
	defer span.End()

	if err := u.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return OrderResult{}, err
	}

	var (
		res      OrderResult
		written  []string
		customer *UpsertResult
	)
	err := e.txScope.Execute(ctx, func(ctx context.Context, repos commerce.Repositories) error {
		res, written, customer = OrderResult{}, nil, nil

		if u.Customer != nil {
			c, err := e.embeddedCustomer(ctx, repos.Customers(), tenantID, *u.Customer)
			if err != nil {
				return err
			}
			if c != nil {
				customer = c
				id := c.ID
				res.CustomerID = &id
			}
		}

		order, err := e.upsertOrderRow(ctx, repos.Orders(), tenantID, u, res.CustomerID)
		if err != nil {
			return err
		}
		res.UpsertResult = order

		if !u.HasLineItems {
			return nil
		}
		items := make([]commerce.OrderItem, 0, len(u.LineItems))
		for _, li := range u.LineItems {
			var productID *uuid.UUID
			if li.ProductExternalID != "" {
				p, err := e.upsertProduct(ctx, repos.Products(), tenantID, li.ProductUpdate())
				if err != nil {
					return fmt.Errorf("line item product %s: %w", li.ProductExternalID, err)
				}
				id := p.ID
				productID = &id
				written = append(written, resultName(p.Created))
			}
			items = append(items, commerce.NewOrderItem(order.ID, productID, li))
		}
		if err := repos.Orders().ReplaceItems(ctx, order.ID, items); err != nil {
			return fmt.Errorf("replace order items: %w", err)
		}
		res.ItemsReplaced = true
		res.ItemCount = len(items)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return OrderResult{}, err
	}

	span.SetAttributes(
		telemetry.SpanAttrCreated.Bool(res.Created),
		telemetry.SpanAttrItemCount.Int(res.ItemCount),
	)
	telemetry.SetOK(span)

	if customer != nil {
		e.recordUpsert(ctx, EntityCustomer, customer.Created)
	}
	for _, r := range written {
		e.metrics.RecordUpsert(ctx, EntityProduct, r)
	}
	e.recordUpsert(ctx, EntityOrder, res.Created)
	return res, nil
}

// embeddedCustomer upserts the customer of an order. A customer without any
// usable key makes the order a guest order and returns nil.
func (e *UpsertEngine) embeddedCustomer(ctx context.Context, repo commerce.CustomerRepository, tenantID uuid.UUID, u commerce.CustomerUpdate) (*UpsertResult, error) {
	res, err := e.upsertCustomer(ctx, repo, tenantID, u)
	if errors.Is(err, shared.ErrInvalidPayload) {
		logger.L(ctx).Warn("Embedded customer has no usable key, storing guest order", zap.Error(err))
		e.metrics.RecordUpsert(ctx, EntityCustomer, telemetry.ResultSkipped)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("embedded customer: %w", err)
	}
	return &res, nil
}

func (e *UpsertEngine) upsertCustomer(ctx context.Context, repo commerce.CustomerRepository, tenantID uuid.UUID, u commerce.CustomerUpdate) (UpsertResult, error) {
	key, err := u.Key()
	if err != nil {
		return UpsertResult{}, err
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		existing, err := findCustomer(ctx, repo, tenantID, key)
		switch {
		case err == nil:
			existing.Apply(u)
			if err := repo.Update(ctx, existing); err != nil {
				return UpsertResult{}, fmt.Errorf("update customer %s: %w", key, err)
			}
			return UpsertResult{ID: existing.ID}, nil
		case !errors.Is(err, shared.ErrNotFound):
			return UpsertResult{}, fmt.Errorf("find customer %s: %w", key, err)
		}

		c, err := commerce.NewCustomer(tenantID, u)
		if err != nil {
			return UpsertResult{}, err
		}
		created, err := repo.Create(ctx, c)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("create customer %s: %w", key, err)
		}
		if created {
			return UpsertResult{ID: c.ID, Created: true}, nil
		}
		logger.L(ctx).Debug("Customer insert lost a race, retrying as update", zap.Stringer("key", key))
	}
	return UpsertResult{}, fmt.Errorf("customer %s: %w", key, shared.ErrConcurrencyConflict)
}

// findCustomer resolves a key. An external id that is not stored yet adopts
// an email-only row of the same tenant.
func findCustomer(ctx context.Context, repo commerce.CustomerRepository, tenantID uuid.UUID, key commerce.CustomerKey) (*commerce.Customer, error) {
	if !key.ByExternalID() {
		return repo.FindByEmail(ctx, tenantID, key.Email)
	}
	c, err := repo.FindByExternalID(ctx, tenantID, key.ExternalID)
	if err == nil || !errors.Is(err, shared.ErrNotFound) || key.Email == "" {
		return c, err
	}
	return repo.FindUnlinkedByEmail(ctx, tenantID, key.Email)
}

func (e *UpsertEngine) upsertProduct(ctx context.Context, repo commerce.ProductRepository, tenantID uuid.UUID, u commerce.ProductUpdate) (UpsertResult, error) {
	if err := u.Validate(); err != nil {
		return UpsertResult{}, err
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		existing, err := repo.FindByExternalID(ctx, tenantID, u.ExternalID)
		switch {
		case err == nil:
			existing.Apply(u)
			if err := repo.Update(ctx, existing); err != nil {
				return UpsertResult{}, fmt.Errorf("update product %s: %w", u.ExternalID, err)
			}
			return UpsertResult{ID: existing.ID}, nil
		case !errors.Is(err, shared.ErrNotFound):
			return UpsertResult{}, fmt.Errorf("find product %s: %w", u.ExternalID, err)
		}

		p, err := commerce.NewProduct(tenantID, u)
		if err != nil {
			return UpsertResult{}, err
		}
		created, err := repo.Create(ctx, p)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("create product %s: %w", u.ExternalID, err)
		}
		if created {
			return UpsertResult{ID: p.ID, Created: true}, nil
		}
		logger.L(ctx).Debug("Product insert lost a race, retrying as update", zap.String("external_id", u.ExternalID))
	}
	return UpsertResult{}, fmt.Errorf("product %s: %w", u.ExternalID, shared.ErrConcurrencyConflict)
}

func (e *UpsertEngine) upsertOrderRow(ctx context.Context, repo commerce.OrderRepository, tenantID uuid.UUID, u commerce.OrderUpdate, customerID *uuid.UUID) (UpsertResult, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		existing, err := repo.FindByExternalID(ctx, tenantID, u.ExternalID)
		switch {
		case err == nil:
			existing.Apply(u, e.policy)
			if customerID != nil {
				existing.LinkCustomer(*customerID)
			}
			if err := repo.Update(ctx, existing); err != nil {
				return UpsertResult{}, fmt.Errorf("update order %s: %w", u.ExternalID, err)
			}
			return UpsertResult{ID: existing.ID}, nil
		case !errors.Is(err, shared.ErrNotFound):
			return UpsertResult{}, fmt.Errorf("find order %s: %w", u.ExternalID, err)
		}

		o, err := commerce.NewOrder(tenantID, u, e.policy)
		if err != nil {
			return UpsertResult{}, err
		}
		if customerID != nil {
			o.LinkCustomer(*customerID)
		}
		created, err := repo.Create(ctx, o)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("create order %s: %w", u.ExternalID, err)
		}
		if created {
			return UpsertResult{ID: o.ID, Created: true}, nil
		}
		logger.L(ctx).Debug("Order insert lost a race, retrying as update", zap.String("external_id", u.ExternalID))
	}
	return UpsertResult{}, fmt.Errorf("order %s: %w", u.ExternalID, shared.ErrConcurrencyConflict)
}

func (e *UpsertEngine) recordUpsert(ctx context.Context, entity string, created bool) {
	e.metrics.RecordUpsert(ctx, entity, resultName(created))
}

func resultName(created bool) string {
	if created {
		return telemetry.ResultCreated
	}
	return telemetry.ResultUpdated
}
