package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByStoreDomain finds a tenant by its normalized store domain regardless of state
	FindByStoreDomain(ctx context.Context, domain string) (*Tenant, error)

	// FindActiveByStoreDomain finds an active tenant by store domain.
	// Inactive tenants are reported as shared.ErrNotFound.
	FindActiveByStoreDomain(ctx context.Context, domain string) (*Tenant, error)

	// FindAll lists every tenant ordered by name
	FindAll(ctx context.Context) ([]Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error
}
