package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantService manages storefront installations. It is the writer side of
// the tenant rows that webhook resolution reads.
type TenantService struct {
	tenantRepo identity.TenantRepository
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo identity.TenantRepository, logger *zap.Logger) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{
		tenantRepo: tenantRepo,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

// InstallTenantInput contains input for installing a store
type InstallTenantInput struct {
	Domain      string `validate:"required,hostname_rfc1123"`
	Name        string `validate:"max=200"`
	AccessToken string `validate:"max=512"`
}

// TenantDTO represents tenant data transfer object
type TenantDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	StoreDomain string    `json:"store_domain,omitempty"`
	Active      bool      `json:"active"`
	Installed   bool      `json:"installed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Install creates the tenant for a domain or reactivates the existing one,
// replacing its access token. Name defaults to the domain.
func (s *TenantService) Install(ctx context.Context, input InstallTenantInput) (*TenantDTO, error) {
	domain, err := identity.NormalizeStoreDomain(input.Domain)
	if err != nil {
		return nil, err
	}
	input.Domain = domain
	if err := s.validate.Struct(input); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "invalid install input", err)
	}

	tenant, err := s.tenantRepo.FindByStoreDomain(ctx, domain)
	switch {
	case err == nil:
		tenant.Install(input.AccessToken)
		if input.Name != "" {
			tenant.Name = input.Name
		}
	case errors.Is(err, shared.ErrNotFound):
		tenant, err = identity.NewInstalledTenant(domain, input.Name, input.AccessToken)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("find tenant %s: %w", domain, err)
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("save tenant %s: %w", domain, err)
	}
	s.logger.Info("Tenant installed",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("store_domain", domain))
	return toTenantDTO(tenant), nil
}

// Deactivate revokes the installation of a domain
func (s *TenantService) Deactivate(ctx context.Context, domain string) (*TenantDTO, error) {
	normalized, err := identity.NormalizeStoreDomain(domain)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.FindByStoreDomain(ctx, normalized)
	if err != nil {
		return nil, err
	}
	tenant.Deactivate()
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, fmt.Errorf("save tenant %s: %w", normalized, err)
	}
	s.logger.Info("Tenant deactivated",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("store_domain", normalized))
	return toTenantDTO(tenant), nil
}

// List returns every tenant ordered by name
func (s *TenantService) List(ctx context.Context) ([]TenantDTO, error) {
	tenants, err := s.tenantRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TenantDTO, len(tenants))
	for i := range tenants {
		out[i] = *toTenantDTO(&tenants[i])
	}
	return out, nil
}

func toTenantDTO(t *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:          t.ID,
		Name:        t.Name,
		StoreDomain: t.Domain(),
		Active:      t.IsActive(),
		Installed:   t.AccessToken != nil,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
