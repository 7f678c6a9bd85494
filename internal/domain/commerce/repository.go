package commerce

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository persists customers. All lookups are tenant-scoped.
type CustomerRepository interface {
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Customer, error)

	// FindByEmail returns the oldest customer of the tenant with the email
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Customer, error)

	// FindUnlinkedByEmail returns an email-keyed customer that has no external id yet
	FindUnlinkedByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Customer, error)

	// Create inserts the customer. It returns false without error when a row
	// with the same natural key already exists.
	Create(ctx context.Context, customer *Customer) (bool, error)

	Update(ctx context.Context, customer *Customer) error

	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ProductRepository persists products
type ProductRepository interface {
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Product, error)

	// Create inserts the product, returning false on a natural key conflict
	Create(ctx context.Context, product *Product) (bool, error)

	Update(ctx context.Context, product *Product) error

	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// OrderRepository persists orders and their items
type OrderRepository interface {
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Order, error)

	// Create inserts the order, returning false on a natural key conflict
	Create(ctx context.Context, order *Order) (bool, error)

	Update(ctx context.Context, order *Order) error

	// ReplaceItems deletes every item of the order and inserts items in their place
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []OrderItem) error

	FindItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// FindRecent returns the newest orders of a tenant
	FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]Order, error)
}

// Repositories groups the commerce repositories bound to one unit of work
type Repositories interface {
	Customers() CustomerRepository
	Products() ProductRepository
	Orders() OrderRepository
}

// TransactionScope runs fn with repositories bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
