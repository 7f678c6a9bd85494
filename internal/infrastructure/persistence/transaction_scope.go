package persistence

import (
	"context"

	"github.com/shopsight/backend/internal/domain/commerce"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repositories handed to fn share the transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos commerce.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// gormRepositories binds the commerce repositories to one *gorm.DB
type gormRepositories struct {
	db *gorm.DB
}

// NewRepositories returns commerce repositories bound to db
func NewRepositories(db *gorm.DB) commerce.Repositories {
	return &gormRepositories{db: db}
}

// Customers returns the customer repository
func (r *gormRepositories) Customers() commerce.CustomerRepository {
	return NewGormCustomerRepository(r.db)
}

// Products returns the product repository
func (r *gormRepositories) Products() commerce.ProductRepository {
	return NewGormProductRepository(r.db)
}

// Orders returns the order repository
func (r *gormRepositories) Orders() commerce.OrderRepository {
	return NewGormOrderRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ commerce.TransactionScope = (*GormTransactionScope)(nil)
