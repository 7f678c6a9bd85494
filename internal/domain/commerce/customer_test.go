package commerce

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerUpdate_Key(t *testing.T) {
	t.Run("external id wins", func(t *testing.T) {
		key, err := CustomerUpdate{ExternalID: "42", Email: shared.Some("A@B.com")}.Key()
		require.NoError(t, err)
		assert.True(t, key.ByExternalID())
		assert.Equal(t, "42", key.ExternalID)
		assert.Equal(t, "a@b.com", key.Email)
	})

	t.Run("falls back to normalized email", func(t *testing.T) {
		key, err := CustomerUpdate{Email: shared.Some("  Jane@Example.COM ")}.Key()
		require.NoError(t, err)
		assert.False(t, key.ByExternalID())
		assert.Equal(t, "jane@example.com", key.Email)
		assert.Equal(t, "email=jane@example.com", key.String())
	})

	t.Run("no id and no email is invalid", func(t *testing.T) {
		_, err := CustomerUpdate{FirstName: shared.Some("Jane")}.Key()
		assert.True(t, errors.Is(err, shared.ErrInvalidPayload))

		_, err = CustomerUpdate{Email: shared.Some("  ")}.Key()
		assert.True(t, errors.Is(err, shared.ErrInvalidPayload))
	})
}

func TestNewCustomer_Defaults(t *testing.T) {
	tenantID := uuid.New()
	c, err := NewCustomer(tenantID, CustomerUpdate{ExternalID: "7"})
	require.NoError(t, err)

	assert.Equal(t, tenantID, c.TenantID)
	require.NotNil(t, c.ExternalCustomerID)
	assert.Equal(t, "7", *c.ExternalCustomerID)
	assert.Equal(t, "", c.Email)
	assert.True(t, c.TotalSpent.IsZero())
	assert.Equal(t, 0, c.OrdersCount)
	assert.Nil(t, c.LastOrderDate)
}

func TestCustomer_ApplyPartial(t *testing.T) {
	lastOrder := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c, err := NewCustomer(uuid.New(), CustomerUpdate{
		ExternalID:    "7",
		Email:         shared.Some("jane@example.com"),
		FirstName:     shared.Some("Jane"),
		Phone:         shared.Some("+100"),
		TotalSpent:    shared.Some(decimal.RequireFromString("120.50")),
		OrdersCount:   shared.Some(3),
		LastOrderDate: shared.Some(lastOrder),
	})
	require.NoError(t, err)

	c.Apply(CustomerUpdate{ExternalID: "7", OrdersCount: shared.Some(4), Phone: shared.Null[string]()})

	assert.Equal(t, "jane@example.com", c.Email)
	assert.Equal(t, "Jane", c.FirstName)
	assert.Equal(t, "", c.Phone)
	assert.Equal(t, 4, c.OrdersCount)
	assert.True(t, c.TotalSpent.Equal(decimal.RequireFromString("120.5")))
	require.NotNil(t, c.LastOrderDate)
	assert.True(t, c.LastOrderDate.Equal(lastOrder))

	t.Run("null total spent is ignored", func(t *testing.T) {
		c.Apply(CustomerUpdate{TotalSpent: shared.Null[decimal.Decimal]()})
		assert.True(t, c.TotalSpent.Equal(decimal.RequireFromString("120.5")))
	})
}

func TestCustomer_ApplyAttachesExternalID(t *testing.T) {
	c, err := NewCustomer(uuid.New(), CustomerUpdate{Email: shared.Some("guest@example.com")})
	require.NoError(t, err)
	assert.Nil(t, c.ExternalCustomerID)

	c.Apply(CustomerUpdate{ExternalID: "99"})
	require.NotNil(t, c.ExternalCustomerID)
	assert.Equal(t, "99", *c.ExternalCustomerID)
}
