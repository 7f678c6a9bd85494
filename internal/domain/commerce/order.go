package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus is the internal lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

const (
	DefaultCurrency      = "USD"
	DefaultLineItemTitle = "Item"
)

// Order is a storefront order keyed per tenant by external order id.
// CreatedAt carries the platform's creation time, not the row insert time.
type Order struct {
	shared.TenantEntity
	ExternalOrderID *string
	OrderNumber     string
	Email           string
	TotalPrice      decimal.Decimal
	Currency        string
	Status          OrderStatus
	ProcessedAt     *time.Time
	CustomerID      *uuid.UUID
}

// OrderItem is one line of an order. Items are replaced wholesale on each update.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ProductID  *uuid.UUID
	Title      string
	SKU        string
	Quantity   int
	Price      decimal.Decimal
	TotalPrice decimal.Decimal
}

// LineItemInput is a validated line item from a payload
type LineItemInput struct {
	ProductExternalID string
	Title             string
	SKU               string
	Quantity          int
	Price             decimal.Decimal
	// HasPrice is false when the line carried no price; Price is then zero
	// for totals but never written to the product.
	HasPrice bool
}

// LineTotal is price times quantity rounded half away from zero to cents
func (li LineItemInput) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))).Round(2)
}

// ProductUpdate synthesizes the minimal product payload a line item implies
func (li LineItemInput) ProductUpdate() ProductUpdate {
	u := ProductUpdate{ExternalID: li.ProductExternalID}
	if li.HasPrice {
		u.Price = shared.Some(li.Price)
	}
	if li.Title != "" {
		u.Title = shared.Some(li.Title)
	}
	if li.SKU != "" {
		u.SKU = shared.Some(li.SKU)
	}
	return u
}

// NewOrderItem builds the persisted item for an order
func NewOrderItem(orderID uuid.UUID, productID *uuid.UUID, li LineItemInput) OrderItem {
	title := li.Title
	if title == "" {
		title = DefaultLineItemTitle
	}
	return OrderItem{
		ID:         uuid.New(),
		OrderID:    orderID,
		ProductID:  productID,
		Title:      title,
		SKU:        li.SKU,
		Quantity:   li.Quantity,
		Price:      li.Price,
		TotalPrice: li.LineTotal(),
	}
}

// OrderUpdate is a partial order snapshot
type OrderUpdate struct {
	ExternalID  string
	OrderNumber shared.Field[string]
	Email       shared.Field[string]
	TotalPrice  shared.Field[decimal.Decimal]
	Currency    shared.Field[string]
	ProcessedAt shared.Field[time.Time]
	CreatedAt   shared.Field[time.Time]
	Signals     StatusSignals

	// Customer is set when the payload embeds a customer object
	Customer *CustomerUpdate

	// HasLineItems is true when the payload carried a line_items array,
	// even an empty one. Items are only replaced in that case.
	HasLineItems bool
	LineItems    []LineItemInput
}

// Validate checks the update carries a key
func (u OrderUpdate) Validate() error {
	if u.ExternalID == "" {
		return shared.NewInvalidPayloadError("order payload has no id")
	}
	return nil
}

// NewOrder creates an order from an update
func NewOrder(tenantID uuid.UUID, u OrderUpdate, policy StatusPolicy) (*Order, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	id := u.ExternalID
	o := &Order{
		TenantEntity:    shared.NewTenantEntity(tenantID),
		ExternalOrderID: &id,
		OrderNumber:     id,
		TotalPrice:      decimal.Zero,
		Currency:        DefaultCurrency,
		Status:          policy.Derive(u.Signals),
	}
	o.Apply(u, policy)
	return o, nil
}

// Apply merges a partial update into the order. The status is only
// re-derived when the payload carried at least one status signal.
func (o *Order) Apply(u OrderUpdate, policy StatusPolicy) {
	if n, ok := u.OrderNumber.Value(); ok && n != "" {
		o.OrderNumber = n
	}
	normalizeEmailField(u.Email).ApplyClearable(&o.Email)
	u.TotalPrice.ApplyTo(&o.TotalPrice)
	if c, ok := u.Currency.Value(); ok && c != "" {
		o.Currency = c
	}
	u.ProcessedAt.ApplyToPtr(&o.ProcessedAt)
	u.CreatedAt.ApplyTo(&o.CreatedAt)
	if u.Signals.Seen {
		o.Status = policy.Derive(u.Signals)
	}
	o.Touch()
}

// LinkCustomer sets the weak reference to a customer
func (o *Order) LinkCustomer(customerID uuid.UUID) {
	id := customerID
	o.CustomerID = &id
}
