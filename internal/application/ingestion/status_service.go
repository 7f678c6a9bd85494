package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/ingestion"
)

const (
	statusRecentLogs   = 5
	statusRecentOrders = 3
)

// TenantSummary is the tenant part of an ingestion status report
type TenantSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	StoreDomain string    `json:"store_domain"`
	Active      bool      `json:"active"`
	Installed   bool      `json:"installed"`
}

// EntityCounts are per-tenant row counts
type EntityCounts struct {
	Customers      int64 `json:"customers"`
	Products       int64 `json:"products"`
	Orders         int64 `json:"orders"`
	ProcessingLogs int64 `json:"processing_logs"`
}

// LogSummary is one processing log entry without its payload
type LogSummary struct {
	ID           uuid.UUID `json:"id"`
	Topic        string    `json:"topic"`
	DeliveryID   string    `json:"delivery_id,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	ReceivedAt   time.Time `json:"received_at"`
}

// OrderSummary is one recently ingested order
type OrderSummary struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"external_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	TotalPrice  string    `json:"total_price"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

// IngestionStatus reports what has been ingested for a tenant
type IngestionStatus struct {
	Tenant       TenantSummary  `json:"tenant"`
	Counts       EntityCounts   `json:"counts"`
	RecentLogs   []LogSummary   `json:"recent_logs"`
	RecentOrders []OrderSummary `json:"recent_orders"`
}

// StatusService builds ingestion status reports for operators
type StatusService struct {
	tenants identity.TenantRepository
	repos   commerce.Repositories
	logs    ingestion.ProcessingLogRepository
}

// NewStatusService creates a new StatusService
func NewStatusService(tenants identity.TenantRepository, repos commerce.Repositories, logs ingestion.ProcessingLogRepository) *StatusService {
	return &StatusService{tenants: tenants, repos: repos, logs: logs}
}

// GetStatus reports on the tenant owning domain, active or not.
// Returns shared.ErrNotFound for unknown domains.
func (s *StatusService) GetStatus(ctx context.Context, domain string) (*IngestionStatus, error) {
	normalized, err := identity.NormalizeStoreDomain(domain)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByStoreDomain(ctx, normalized)
	if err != nil {
		return nil, err
	}

	status := &IngestionStatus{
		Tenant: TenantSummary{
			ID:          tenant.ID,
			Name:        tenant.Name,
			StoreDomain: tenant.Domain(),
			Active:      tenant.IsActive(),
			Installed:   tenant.AccessToken != nil,
		},
	}

	if status.Counts, err = s.counts(ctx, tenant.ID); err != nil {
		return nil, err
	}

	entries, err := s.logs.FindRecent(ctx, tenant.ID, statusRecentLogs)
	if err != nil {
		return nil, fmt.Errorf("recent processing logs: %w", err)
	}
	status.RecentLogs = make([]LogSummary, len(entries))
	for i, e := range entries {
		status.RecentLogs[i] = LogSummary{
			ID:           e.ID,
			Topic:        e.EventTopic,
			DeliveryID:   e.DeliveryID,
			Status:       string(e.Status),
			ErrorMessage: e.ErrorMessage,
			ReceivedAt:   e.CreatedAt,
		}
	}

	orders, err := s.repos.Orders().FindRecent(ctx, tenant.ID, statusRecentOrders)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	status.RecentOrders = make([]OrderSummary, len(orders))
	for i, o := range orders {
		ext := ""
		if o.ExternalOrderID != nil {
			ext = *o.ExternalOrderID
		}
		status.RecentOrders[i] = OrderSummary{
			ID:          o.ID,
			ExternalID:  ext,
			OrderNumber: o.OrderNumber,
			Status:      string(o.Status),
			TotalPrice:  o.TotalPrice.StringFixed(2),
			Currency:    o.Currency,
			CreatedAt:   o.CreatedAt,
		}
	}
	return status, nil
}

func (s *StatusService) counts(ctx context.Context, tenantID uuid.UUID) (EntityCounts, error) {
	var (
		c   EntityCounts
		err error
	)
	if c.Customers, err = s.repos.Customers().CountByTenant(ctx, tenantID); err != nil {
		return c, fmt.Errorf("count customers: %w", err)
	}
	if c.Products, err = s.repos.Products().CountByTenant(ctx, tenantID); err != nil {
		return c, fmt.Errorf("count products: %w", err)
	}
	if c.Orders, err = s.repos.Orders().CountByTenant(ctx, tenantID); err != nil {
		return c, fmt.Errorf("count orders: %w", err)
	}
	if c.ProcessingLogs, err = s.logs.CountByTenant(ctx, tenantID); err != nil {
		return c, fmt.Errorf("count processing logs: %w", err)
	}
	return c, nil
}
