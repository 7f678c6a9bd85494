package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopic(t *testing.T) {
	tests := []struct {
		raw      string
		resource Resource
		action   string
		routable bool
	}{
		{"orders/create", ResourceOrders, "create", true},
		{"orders/updated", ResourceOrders, "updated", true},
		{"ORDERS/Paid", ResourceOrders, "paid", true},
		{"customers/update", ResourceCustomers, "update", true},
		{"products/create", ResourceProducts, "create", true},
		{"products/delete", ResourceProducts, "delete", false},
		{"customers/redact", ResourceCustomers, "redact", false},
		{"customers/data_request", ResourceCustomers, "data_request", false},
		{"shop/redact", ResourceUnknown, "redact", false},
		{"app/uninstalled", ResourceUnknown, "uninstalled", false},
		{"orders", ResourceOrders, "", true},
		{"", ResourceUnknown, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			topic := ParseTopic(tt.raw)
			assert.Equal(t, tt.resource, topic.Resource)
			assert.Equal(t, tt.action, topic.Action)
			assert.Equal(t, tt.routable, topic.IsRoutable())
			assert.Equal(t, tt.raw, topic.String())
		})
	}
}

func TestTopic_WrapperKey(t *testing.T) {
	assert.Equal(t, "order", ParseTopic("orders/create").WrapperKey())
	assert.Equal(t, "customer", ParseTopic("customers/create").WrapperKey())
	assert.Equal(t, "product", ParseTopic("products/update").WrapperKey())
}

func TestTruncateMessage(t *testing.T) {
	assert.Equal(t, "short", TruncateMessage("short", 10))

	long := strings.Repeat("é", 20)
	got := TruncateMessage(long, 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, DefaultMaxErrorLength, len([]rune(TruncateMessage(strings.Repeat("x", 5000), 0))))
}

func TestLogStatus_IsTerminal(t *testing.T) {
	assert.False(t, LogStatusReceived.IsTerminal())
	assert.False(t, LogStatusProcessing.IsTerminal())
	assert.True(t, LogStatusCompleted.IsTerminal())
	assert.True(t, LogStatusFailed.IsTerminal())
}
