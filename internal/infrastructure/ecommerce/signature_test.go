package ecommerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureVerifier_Verify(t *testing.T) {
	verifier := NewSignatureVerifier("shpss_test_secret")
	body := []byte(`{"id":450789469,"email":"bob@example.com"}`)
	valid := verifier.Sign(body)

	tests := []struct {
		name      string
		verifier  *SignatureVerifier
		body      []byte
		signature string
		want      bool
	}{
		{"valid signature", verifier, body, valid, true},
		{"surrounding whitespace is tolerated", verifier, body, " " + valid + "\n", true},
		{"missing signature", verifier, body, "", false},
		{"malformed base64", verifier, body, "not base64!!", false},
		{"wrong secret", NewSignatureVerifier("other"), body, valid, false},
		{"missing secret", NewSignatureVerifier(""), body, valid, false},
		{"tampered body", verifier, []byte(`{"id":450789469,"email":"bob@example.org"}`), valid, false},
		{"re-serialized body", verifier, []byte(`{"email":"bob@example.com","id":450789469}`), valid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.verifier.Verify(tt.body, tt.signature))
		})
	}
}

func TestSignatureVerifier_SingleByteFlip(t *testing.T) {
	verifier := NewSignatureVerifier("secret")
	body := []byte(`{"id":1}`)
	signature := verifier.Sign(body)

	for i := range body {
		tampered := append([]byte(nil), body...)
		tampered[i] ^= 0x01
		assert.False(t, verifier.Verify(tampered, signature), "flip at %d", i)
	}
}

func TestSignatureVerifier_KnownVector(t *testing.T) {
	// echo -n 'hello' | openssl dgst -sha256 -hmac 'key' -binary | base64
	verifier := NewSignatureVerifier("key")
	assert.Equal(t, "kwezuRXvtRcf8U2MtV+8x5jGwO8UVtZt7RpqpyOli3s=", verifier.Sign([]byte("hello")))
	assert.True(t, verifier.Configured())
	assert.False(t, NewSignatureVerifier("").Configured())
}
