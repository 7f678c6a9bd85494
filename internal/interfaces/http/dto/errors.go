package dto

import (
	"errors"
	"net/http"

	"github.com/shopsight/backend/internal/domain/shared"
)

// Error code constants
// Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal       = "ERR_INTERNAL"
	ErrCodeUnauthorized   = "ERR_UNAUTHORIZED"
	ErrCodeTenantNotFound = "ERR_TENANT_NOT_FOUND"
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeInvalidPayload = "ERR_INVALID_PAYLOAD"
	ErrCodeBadRequest     = "ERR_BAD_REQUEST"
	ErrCodeTooLarge       = "ERR_REQUEST_TOO_LARGE"
)

// Fixed client-facing messages. Internal detail never reaches a response body.
const (
	MsgInternal       = "Internal server error"
	MsgUnauthorized   = "Invalid or missing signature"
	MsgTenantNotFound = "Unknown shop"
	MsgNotFound       = "Resource not found"
	MsgInvalidPayload = "Payload could not be processed"
	MsgTooLarge       = "Request body exceeds maximum allowed size"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTenantNotFound: http.StatusNotFound,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeInvalidPayload: http.StatusUnprocessableEntity,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeTooLarge:       http.StatusRequestEntityTooLarge,
}

var errorCodeMessage = map[string]string{
	ErrCodeInternal:       MsgInternal,
	ErrCodeUnauthorized:   MsgUnauthorized,
	ErrCodeTenantNotFound: MsgTenantNotFound,
	ErrCodeNotFound:       MsgNotFound,
	ErrCodeInvalidPayload: MsgInvalidPayload,
	ErrCodeTooLarge:       MsgTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Classify maps an error to its response code and fixed message.
// Anything not recognized is reported as internal.
func Classify(err error) (code, message string) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		code = ErrCodeUnauthorized
	case errors.Is(err, shared.ErrTenantNotFound):
		code = ErrCodeTenantNotFound
	case errors.Is(err, shared.ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, shared.ErrInvalidPayload):
		code = ErrCodeInvalidPayload
	default:
		code = ErrCodeInternal
	}
	return code, errorCodeMessage[code]
}
