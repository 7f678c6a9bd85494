package commerce

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer is a storefront shopper, keyed per tenant by external id or,
// when the platform did not supply one, by email.
type Customer struct {
	shared.TenantEntity
	ExternalCustomerID *string
	Email              string
	FirstName          string
	LastName           string
	Phone              string
	TotalSpent         decimal.Decimal
	OrdersCount        int
	LastOrderDate      *time.Time
}

// CustomerKey is the natural key an inbound customer resolves to
type CustomerKey struct {
	ExternalID string
	Email      string
}

// ByExternalID reports whether the key uses the platform id
func (k CustomerKey) ByExternalID() bool {
	return k.ExternalID != ""
}

// String renders the key for logs
func (k CustomerKey) String() string {
	if k.ByExternalID() {
		return "external_id=" + k.ExternalID
	}
	return "email=" + k.Email
}

// CustomerUpdate is a partial customer snapshot from an inbound payload.
// Absent fields leave stored values untouched.
type CustomerUpdate struct {
	ExternalID    string
	Email         shared.Field[string]
	FirstName     shared.Field[string]
	LastName      shared.Field[string]
	Phone         shared.Field[string]
	TotalSpent    shared.Field[decimal.Decimal]
	OrdersCount   shared.Field[int]
	LastOrderDate shared.Field[time.Time]
}

// Key resolves the natural key, falling back to email
func (u CustomerUpdate) Key() (CustomerKey, error) {
	if u.ExternalID != "" {
		email, _ := u.Email.Value()
		return CustomerKey{ExternalID: u.ExternalID, Email: NormalizeEmail(email)}, nil
	}
	if email, ok := u.Email.Value(); ok && NormalizeEmail(email) != "" {
		return CustomerKey{Email: NormalizeEmail(email)}, nil
	}
	return CustomerKey{}, shared.NewInvalidPayloadError("customer payload has neither id nor email")
}

// NewCustomer creates a customer from an update, using defaults for absent fields
func NewCustomer(tenantID uuid.UUID, u CustomerUpdate) (*Customer, error) {
	key, err := u.Key()
	if err != nil {
		return nil, err
	}
	c := &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Email:        key.Email,
		TotalSpent:   decimal.Zero,
	}
	if key.ByExternalID() {
		id := key.ExternalID
		c.ExternalCustomerID = &id
	}
	c.Apply(u)
	return c, nil
}

// Apply merges a partial update into the customer
func (c *Customer) Apply(u CustomerUpdate) {
	if c.ExternalCustomerID == nil && u.ExternalID != "" {
		id := u.ExternalID
		c.ExternalCustomerID = &id
	}
	normalizeEmailField(u.Email).ApplyClearable(&c.Email)
	u.FirstName.ApplyClearable(&c.FirstName)
	u.LastName.ApplyClearable(&c.LastName)
	u.Phone.ApplyClearable(&c.Phone)
	u.TotalSpent.ApplyTo(&c.TotalSpent)
	u.OrdersCount.ApplyTo(&c.OrdersCount)
	u.LastOrderDate.ApplyToPtr(&c.LastOrderDate)
	c.Touch()
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeEmailField(f shared.Field[string]) shared.Field[string] {
	if v, ok := f.Value(); ok {
		return shared.Some(NormalizeEmail(v))
	}
	return f
}
