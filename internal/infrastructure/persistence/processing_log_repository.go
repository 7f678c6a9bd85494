package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/ingestion"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopsight/backend/internal/infrastructure/persistence/models"
	"github.com/shopsight/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormProcessingLogRepository implements ProcessingLogRepository using GORM
type GormProcessingLogRepository struct {
	db *gorm.DB
}

// NewGormProcessingLogRepository creates a new GormProcessingLogRepository
func NewGormProcessingLogRepository(db *gorm.DB) *GormProcessingLogRepository {
	return &GormProcessingLogRepository{db: db}
}

// Create inserts a new log entry
func (r *GormProcessingLogRepository) Create(ctx context.Context, entry *ingestion.ProcessingLogEntry) error {
	return r.db.WithContext(ctx).Create(models.ProcessingLogModelFromDomain(entry)).Error
}

// UpdateStatus moves an entry to status. A nil errorMessage clears the column.
func (r *GormProcessingLogRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status ingestion.LogStatus, errorMessage *string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProcessingLogModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"error_message": errorMessage,
			"updated_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a log entry by its ID
func (r *GormProcessingLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*ingestion.ProcessingLogEntry, error) {
	var model models.ProcessingLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindRecent returns the newest entries of a tenant
func (r *GormProcessingLogRepository) FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]ingestion.ProcessingLogEntry, error) {
	var rows []models.ProcessingLogModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]ingestion.ProcessingLogEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// CountByTenant counts the entries of a tenant
func (r *GormProcessingLogRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProcessingLogModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error
	return count, err
}

// Ensure GormProcessingLogRepository implements ProcessingLogRepository
var _ ingestion.ProcessingLogRepository = (*GormProcessingLogRepository)(nil)
