package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/shared"
)

// TenantResolver maps a store domain header to the active tenant that owns it
type TenantResolver struct {
	repo identity.TenantRepository
}

// NewTenantResolver creates a new TenantResolver
func NewTenantResolver(repo identity.TenantRepository) *TenantResolver {
	return &TenantResolver{repo: repo}
}

// Resolve returns the active tenant for domain. Unknown, malformed and
// deactivated domains all yield shared.ErrTenantNotFound; storage failures
// are returned as is.
func (r *TenantResolver) Resolve(ctx context.Context, domain string) (*identity.Tenant, error) {
	normalized, err := identity.NormalizeStoreDomain(domain)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeTenantNotFound, "store domain is not valid", err)
	}
	t, err := r.repo.FindActiveByStoreDomain(ctx, normalized)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.WrapDomainError(shared.CodeTenantNotFound, "no active tenant for "+normalized, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tenant %s: %w", normalized, err)
	}
	return t, nil
}
