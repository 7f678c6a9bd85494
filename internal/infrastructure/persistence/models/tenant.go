package models

import (
	"github.com/shopsight/backend/internal/domain/identity"
)

// TenantModel is the persistence model for tenants
type TenantModel struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);not null"`
	StoreDomain *string `gorm:"type:varchar(255);uniqueIndex"`
	AccessToken *string `gorm:"type:varchar(500)"`
	Active      bool    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		StoreDomain: m.StoreDomain,
		AccessToken: m.AccessToken,
		Active:      m.Active,
	}
}

// TenantModelFromDomain creates a persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{
		Name:        t.Name,
		StoreDomain: t.StoreDomain,
		AccessToken: t.AccessToken,
		Active:      t.Active,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}
