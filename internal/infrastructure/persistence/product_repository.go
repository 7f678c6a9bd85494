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

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByExternalID finds a product by the platform's product id
func (r *GormProductRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("external_product_id = ?", externalID).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts the product, returning false on a natural key conflict
func (r *GormProductRepository) Create(ctx context.Context, p *commerce.Product) (bool, error) {
	model := models.ProductModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Update writes every mutable column of the product
func (r *GormProductRepository) Update(ctx context.Context, p *commerce.Product) error {
	model := models.ProductModelFromDomain(p)
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(tenant.Owned(p.TenantID, p.ID)).
		Updates(model.UpdateColumns()).Error
}

// CountByTenant counts the products of a tenant
func (r *GormProductRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error
	return count, err
}

// Ensure GormProductRepository implements ProductRepository
var _ commerce.ProductRepository = (*GormProductRepository)(nil)
