// Package tenant provides tenant scoping helpers for GORM queries.
//
// Every commerce table is partitioned by tenant_id; repositories compose
// these scopes instead of writing the predicate by hand so no query can
// forget it.
//
//	db.Scopes(tenant.Scope(tenantID)).Find(&orders)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a tenant-scoped query is built without a tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Scope applies tenant filtering to GORM queries.
// A nil tenant id adds an error to the statement instead of running unscoped.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// Owned scopes a query to one row of a tenant
func Owned(tenantID, id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Scope(tenantID)(db).Where("id = ?", id)
	}
}
