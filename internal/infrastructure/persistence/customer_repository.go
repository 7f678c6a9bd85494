package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/infrastructure/persistence/models"
	"github.com/shopsight/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByExternalID finds a customer by the platform's customer id
func (r *GormCustomerRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("external_customer_id = ?", externalID).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail returns the oldest customer of the tenant with the email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*commerce.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("email = ?", email).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindUnlinkedByEmail returns the email-keyed customer without an external id
func (r *GormCustomerRepository) FindUnlinkedByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*commerce.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("email = ? AND external_customer_id IS NULL", email).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts the customer. A conflicting natural key leaves the existing
// row untouched and reports false.
func (r *GormCustomerRepository) Create(ctx context.Context, c *commerce.Customer) (bool, error) {
	model := models.CustomerModelFromDomain(c)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Update writes every mutable column of the customer
func (r *GormCustomerRepository) Update(ctx context.Context, c *commerce.Customer) error {
	model := models.CustomerModelFromDomain(c)
	return r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(tenant.Owned(c.TenantID, c.ID)).
		Updates(model.UpdateColumns()).Error
}

// CountByTenant counts the customers of a tenant
func (r *GormCustomerRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error
	return count, err
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ commerce.CustomerRepository = (*GormCustomerRepository)(nil)
