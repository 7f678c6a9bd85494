package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/shared"
)

const maxStoreDomainLength = 255

// Tenant is an isolated merchant account. Customers, products, orders and
// processing logs are all owned by exactly one tenant.
type Tenant struct {
	shared.BaseEntity
	Name        string
	StoreDomain *string // unique when set; join key for inbound webhooks
	AccessToken *string
	Active      bool
}

// NewTenant creates an active tenant without a connected store
func NewTenant(name string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
	}, nil
}

// NewInstalledTenant creates a tenant connected to a storefront
func NewInstalledTenant(storeDomain, name, accessToken string) (*Tenant, error) {
	domain, err := NormalizeStoreDomain(storeDomain)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = domain
	}
	t, err := NewTenant(name)
	if err != nil {
		return nil, err
	}
	t.StoreDomain = &domain
	t.Install(accessToken)
	return t, nil
}

// Install records a (re)installation: the token is replaced and the tenant reactivated
func (t *Tenant) Install(accessToken string) {
	if accessToken != "" {
		token := accessToken
		t.AccessToken = &token
	}
	t.Active = true
	t.Touch()
}

// SetStoreDomain connects the tenant to a storefront domain
func (t *Tenant) SetStoreDomain(storeDomain string) error {
	domain, err := NormalizeStoreDomain(storeDomain)
	if err != nil {
		return err
	}
	t.StoreDomain = &domain
	t.Touch()
	return nil
}

// Deactivate revokes the installation. Webhooks for the domain stop resolving.
func (t *Tenant) Deactivate() {
	t.Active = false
	t.AccessToken = nil
	t.Touch()
}

// IsActive returns true if the tenant accepts inbound events
func (t *Tenant) IsActive() bool {
	return t.Active
}

// Domain returns the store domain or an empty string
func (t *Tenant) Domain() string {
	if t.StoreDomain == nil {
		return ""
	}
	return *t.StoreDomain
}

// GetTenantID returns the tenant ID
func (t *Tenant) GetTenantID() uuid.UUID {
	return t.ID
}

// NormalizeStoreDomain lower-cases a store domain and strips a scheme or
// trailing slash. Matching is exact on the normalized form.
func NormalizeStoreDomain(raw string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimSuffix(d, "/")
	if d == "" {
		return "", shared.NewDomainError("INVALID_STORE_DOMAIN", "Store domain cannot be empty")
	}
	if len(d) > maxStoreDomainLength {
		return "", shared.NewDomainError("INVALID_STORE_DOMAIN", "Store domain is too long")
	}
	if strings.ContainsAny(d, " /\t\n") {
		return "", shared.NewDomainError("INVALID_STORE_DOMAIN", "Store domain contains invalid characters")
	}
	return d, nil
}
