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

const orderItemBatchSize = 100

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByExternalID finds an order by the platform's order id
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*commerce.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("external_order_id = ?", externalID).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts the order, returning false on a natural key conflict
func (r *GormOrderRepository) Create(ctx context.Context, o *commerce.Order) (bool, error) {
	model := models.OrderModelFromDomain(o)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Update writes every mutable column of the order
func (r *GormOrderRepository) Update(ctx context.Context, o *commerce.Order) error {
	model := models.OrderModelFromDomain(o)
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(tenant.Owned(o.TenantID, o.ID)).
		Updates(model.UpdateColumns()).Error
}

// ReplaceItems deletes the order's items and inserts items in their place.
// Runs as a nested transaction (a savepoint) when called inside one.
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []commerce.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		rows := make([]*models.OrderItemModel, len(items))
		for i, item := range items {
			item.OrderID = orderID
			rows[i] = models.OrderItemModelFromDomain(item)
		}
		return tx.CreateInBatches(rows, orderItemBatchSize).Error
	})
}

// FindItems returns the items of an order
func (r *GormOrderRepository) FindItems(ctx context.Context, orderID uuid.UUID) ([]commerce.OrderItem, error) {
	var rows []models.OrderItemModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("title ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]commerce.OrderItem, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// CountByTenant counts the orders of a tenant
func (r *GormOrderRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error
	return count, err
}

// FindRecent returns the newest orders of a tenant
func (r *GormOrderRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]commerce.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]commerce.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
