package commerce

import (
	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	DefaultProductTitle  = "Untitled"
	DefaultProductStatus = "active"
)

// Product is a catalog entry keyed per tenant by external product id
type Product struct {
	shared.TenantEntity
	ExternalProductID *string
	Title             string
	Handle            string
	Description       string
	Price             decimal.Decimal
	SKU               string
	Vendor            string
	Status            string
}

// ProductUpdate is a partial product snapshot
type ProductUpdate struct {
	ExternalID  string
	Title       shared.Field[string]
	Handle      shared.Field[string]
	Description shared.Field[string]
	Price       shared.Field[decimal.Decimal]
	SKU         shared.Field[string]
	Vendor      shared.Field[string]
	Status      shared.Field[string]
}

// Validate checks the update carries a key
func (u ProductUpdate) Validate() error {
	if u.ExternalID == "" {
		return shared.NewInvalidPayloadError("product payload has no id")
	}
	return nil
}

// NewProduct creates a product from an update
func NewProduct(tenantID uuid.UUID, u ProductUpdate) (*Product, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	id := u.ExternalID
	p := &Product{
		TenantEntity:      shared.NewTenantEntity(tenantID),
		ExternalProductID: &id,
		Title:             DefaultProductTitle,
		Price:             decimal.Zero,
		Status:            DefaultProductStatus,
	}
	p.Apply(u)
	return p, nil
}

// Apply merges a partial update into the product
func (p *Product) Apply(u ProductUpdate) {
	if t, ok := u.Title.Value(); ok && t != "" {
		p.Title = t
	}
	u.Handle.ApplyClearable(&p.Handle)
	u.Description.ApplyClearable(&p.Description)
	u.Price.ApplyTo(&p.Price)
	u.SKU.ApplyClearable(&p.SKU)
	u.Vendor.ApplyClearable(&p.Vendor)
	if s, ok := u.Status.Value(); ok && s != "" {
		p.Status = s
	}
	p.Touch()
}
