package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTenantNotFound, http.StatusNotFound},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInvalidPayload, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unauthorized", shared.ErrUnauthorized, ErrCodeUnauthorized},
		{"tenant wrapped", shared.WrapDomainError(shared.CodeTenantNotFound, "no tenant for x", shared.ErrNotFound), ErrCodeTenantNotFound},
		{"not found", fmt.Errorf("find: %w", shared.ErrNotFound), ErrCodeNotFound},
		{"invalid payload", fmt.Errorf("route orders/create: %w", shared.NewInvalidPayloadError("id is required")), ErrCodeInvalidPayload},
		{"storage", errors.New("pq: connection refused"), ErrCodeInternal},
		{"conflict", shared.ErrConcurrencyConflict, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := Classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
			assert.NotContains(t, msg, "pq:")
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	raw, err := json.Marshal(NewOKResponse())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	raw, err = json.Marshal(NewErrorResponseWithRequestID(ErrCodeUnauthorized, MsgUnauthorized, "req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false,"error":{"code":"ERR_UNAUTHORIZED","message":"Invalid or missing signature","request_id":"req-1"}}`, string(raw))

	raw, err = json.Marshal(NewErrorResponse(ErrCodeInternal, MsgInternal))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "request_id")
}
