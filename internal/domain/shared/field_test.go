package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField_States(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var f Field[string]
		assert.True(t, f.IsAbsent())
		assert.False(t, f.IsPresent())
		assert.False(t, f.IsNull())
		assert.Equal(t, FieldAbsent, f.State())
	})

	t.Run("some carries value", func(t *testing.T) {
		f := Some("x")
		v, ok := f.Value()
		assert.True(t, ok)
		assert.Equal(t, "x", v)
		assert.Equal(t, "x", f.OrElse("y"))
	})

	t.Run("null has no value", func(t *testing.T) {
		f := Null[int]()
		_, ok := f.Value()
		assert.False(t, ok)
		assert.True(t, f.IsNull())
		assert.Equal(t, 7, f.OrElse(7))
	})
}

func TestField_Apply(t *testing.T) {
	t.Run("absent leaves destination unchanged", func(t *testing.T) {
		dst := "keep"
		Absent[string]().ApplyTo(&dst)
		Absent[string]().ApplyClearable(&dst)
		assert.Equal(t, "keep", dst)
	})

	t.Run("null only clears with ApplyClearable", func(t *testing.T) {
		dst := "keep"
		Null[string]().ApplyTo(&dst)
		assert.Equal(t, "keep", dst)

		Null[string]().ApplyClearable(&dst)
		assert.Equal(t, "", dst)
	})

	t.Run("pointer destination", func(t *testing.T) {
		var dst *int
		Some(3).ApplyToPtr(&dst)
		if assert.NotNil(t, dst) {
			assert.Equal(t, 3, *dst)
		}

		Absent[int]().ApplyToPtr(&dst)
		assert.NotNil(t, dst)

		Null[int]().ApplyToPtr(&dst)
		assert.Nil(t, dst)
	})
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("upsert order: %w", NewInvalidPayloadError("order payload has no id"))

	assert.True(t, errors.Is(err, ErrInvalidPayload))
	assert.False(t, errors.Is(err, ErrNotFound))

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, CodeInvalidPayload, de.Code)
	assert.Equal(t, "order payload has no id", de.Error())
}

func TestDomainError_Wrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDomainError(CodeNotFound, "lookup failed", cause)

	assert.Equal(t, "lookup failed: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrNotFound))
}
