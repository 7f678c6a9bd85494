package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	BaseModel
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_customers_tenant_external,priority:1;uniqueIndex:idx_customers_tenant_email_unlinked,priority:1"`
	ExternalCustomerID *string         `gorm:"type:varchar(64);uniqueIndex:idx_customers_tenant_external,priority:2"`
	Email              string          `gorm:"type:varchar(320);index;uniqueIndex:idx_customers_tenant_email_unlinked,priority:2,where:external_customer_id IS NULL"`
	FirstName          string          `gorm:"type:varchar(200)"`
	LastName           string          `gorm:"type:varchar(200)"`
	Phone              string          `gorm:"type:varchar(50)"`
	TotalSpent         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OrdersCount        int             `gorm:"not null"`
	LastOrderDate      *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *commerce.Customer {
	return &commerce.Customer{
		TenantEntity:       tenantEntity(m.BaseModel, m.TenantID),
		ExternalCustomerID: m.ExternalCustomerID,
		Email:              m.Email,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Phone:              m.Phone,
		TotalSpent:         m.TotalSpent,
		OrdersCount:        m.OrdersCount,
		LastOrderDate:      m.LastOrderDate,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *commerce.Customer) *CustomerModel {
	m := &CustomerModel{
		TenantID:           c.TenantID,
		ExternalCustomerID: c.ExternalCustomerID,
		Email:              c.Email,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		Phone:              c.Phone,
		TotalSpent:         c.TotalSpent,
		OrdersCount:        c.OrdersCount,
		LastOrderDate:      c.LastOrderDate,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// UpdateColumns returns every mutable column, zero values included
func (m *CustomerModel) UpdateColumns() map[string]any {
	return map[string]any{
		"external_customer_id": m.ExternalCustomerID,
		"email":                m.Email,
		"first_name":           m.FirstName,
		"last_name":            m.LastName,
		"phone":                m.Phone,
		"total_spent":          m.TotalSpent,
		"orders_count":         m.OrdersCount,
		"last_order_date":      m.LastOrderDate,
		"updated_at":           m.UpdatedAt,
	}
}

// ProductModel is the persistence model for products
type ProductModel struct {
	BaseModel
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_tenant_external,priority:1"`
	ExternalProductID *string         `gorm:"type:varchar(64);uniqueIndex:idx_products_tenant_external,priority:2"`
	Title             string          `gorm:"type:varchar(500);not null"`
	Handle            string          `gorm:"type:varchar(255)"`
	Description       string          `gorm:"type:text"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SKU               string          `gorm:"column:sku;type:varchar(100);index"`
	Vendor            string          `gorm:"type:varchar(255)"`
	Status            string          `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *commerce.Product {
	return &commerce.Product{
		TenantEntity:      tenantEntity(m.BaseModel, m.TenantID),
		ExternalProductID: m.ExternalProductID,
		Title:             m.Title,
		Handle:            m.Handle,
		Description:       m.Description,
		Price:             m.Price,
		SKU:               m.SKU,
		Vendor:            m.Vendor,
		Status:            m.Status,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *commerce.Product) *ProductModel {
	m := &ProductModel{
		TenantID:          p.TenantID,
		ExternalProductID: p.ExternalProductID,
		Title:             p.Title,
		Handle:            p.Handle,
		Description:       p.Description,
		Price:             p.Price,
		SKU:               p.SKU,
		Vendor:            p.Vendor,
		Status:            p.Status,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// UpdateColumns returns every mutable column, zero values included
func (m *ProductModel) UpdateColumns() map[string]any {
	return map[string]any{
		"title":       m.Title,
		"handle":      m.Handle,
		"description": m.Description,
		"price":       m.Price,
		"sku":         m.SKU,
		"vendor":      m.Vendor,
		"status":      m.Status,
		"updated_at":  m.UpdatedAt,
	}
}

// OrderModel is the persistence model for orders
type OrderModel struct {
	BaseModel
	TenantID        uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_tenant_external,priority:1"`
	ExternalOrderID *string              `gorm:"type:varchar(64);uniqueIndex:idx_orders_tenant_external,priority:2"`
	OrderNumber     string               `gorm:"type:varchar(100)"`
	Email           string               `gorm:"type:varchar(320)"`
	TotalPrice      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Currency        string               `gorm:"type:varchar(10);not null"`
	Status          commerce.OrderStatus `gorm:"type:varchar(20);not null;index"`
	ProcessedAt     *time.Time
	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *commerce.Order {
	return &commerce.Order{
		TenantEntity:    tenantEntity(m.BaseModel, m.TenantID),
		ExternalOrderID: m.ExternalOrderID,
		OrderNumber:     m.OrderNumber,
		Email:           m.Email,
		TotalPrice:      m.TotalPrice,
		Currency:        m.Currency,
		Status:          m.Status,
		ProcessedAt:     m.ProcessedAt,
		CustomerID:      m.CustomerID,
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *commerce.Order) *OrderModel {
	m := &OrderModel{
		TenantID:        o.TenantID,
		ExternalOrderID: o.ExternalOrderID,
		OrderNumber:     o.OrderNumber,
		Email:           o.Email,
		TotalPrice:      o.TotalPrice,
		Currency:        o.Currency,
		Status:          o.Status,
		ProcessedAt:     o.ProcessedAt,
		CustomerID:      o.CustomerID,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// UpdateColumns returns every mutable column, zero values included
func (m *OrderModel) UpdateColumns() map[string]any {
	return map[string]any{
		"order_number": m.OrderNumber,
		"email":        m.Email,
		"total_price":  m.TotalPrice,
		"currency":     m.Currency,
		"status":       m.Status,
		"processed_at": m.ProcessedAt,
		"customer_id":  m.CustomerID,
		"created_at":   m.CreatedAt,
		"updated_at":   m.UpdatedAt,
	}
}

// OrderItemModel is the persistence model for order line items
type OrderItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  *uuid.UUID      `gorm:"type:uuid;index"`
	Title      string          `gorm:"type:varchar(500);not null"`
	SKU        string          `gorm:"column:sku;type:varchar(100)"`
	Quantity   int             `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() commerce.OrderItem {
	return commerce.OrderItem{
		ID:         m.ID,
		OrderID:    m.OrderID,
		ProductID:  m.ProductID,
		Title:      m.Title,
		SKU:        m.SKU,
		Quantity:   m.Quantity,
		Price:      m.Price,
		TotalPrice: m.TotalPrice,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain OrderItem
func OrderItemModelFromDomain(i commerce.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:         i.ID,
		OrderID:    i.OrderID,
		ProductID:  i.ProductID,
		Title:      i.Title,
		SKU:        i.SKU,
		Quantity:   i.Quantity,
		Price:      i.Price,
		TotalPrice: i.TotalPrice,
	}
}
