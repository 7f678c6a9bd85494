package ingestion

import (
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid", `{"title": "Café"}`, `{"title": "Café"}`},
		{"invalid byte", "caf\xe9", "caf�"},
		{"nul", "a\x00b", "ab"},
		{"both", "\xff\x00\xfe", "��"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestNewProcessingLogEntry(t *testing.T) {
	tenantID := uuid.New()
	e := NewProcessingLogEntry(tenantID, "orders/create", "d\x00-1", []byte("{\"id\": 1, \"note\": \"\xff\"}\x00"))

	assert.Equal(t, LogStatusReceived, e.Status)
	assert.Equal(t, tenantID, e.TenantID)
	assert.Equal(t, "d-1", e.DeliveryID)
	assert.Equal(t, "{\"id\": 1, \"note\": \"�\"}", e.RawPayload)
	assert.Nil(t, e.ErrorMessage)
}
