package shared

// FieldState describes whether an inbound attribute was sent, sent as null, or omitted
type FieldState uint8

const (
	FieldAbsent FieldState = iota
	FieldNull
	FieldPresent
)

// Field is a tri-state optional value used for partial updates.
// The zero value is Absent.
type Field[T any] struct {
	state FieldState
	value T
}

// Some returns a present field holding v
func Some[T any](v T) Field[T] {
	return Field[T]{state: FieldPresent, value: v}
}

// Null returns a field that was explicitly sent as null
func Null[T any]() Field[T] {
	return Field[T]{state: FieldNull}
}

// Absent returns a field that was not sent at all
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// State returns the field state
func (f Field[T]) State() FieldState {
	return f.state
}

// IsPresent reports whether the field carries a value
func (f Field[T]) IsPresent() bool {
	return f.state == FieldPresent
}

// IsNull reports whether the field was explicitly null
func (f Field[T]) IsNull() bool {
	return f.state == FieldNull
}

// IsAbsent reports whether the field was omitted
func (f Field[T]) IsAbsent() bool {
	return f.state == FieldAbsent
}

// Value returns the value and whether it is present
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == FieldPresent
}

// OrElse returns the value when present, otherwise def
func (f Field[T]) OrElse(def T) T {
	if f.state == FieldPresent {
		return f.value
	}
	return def
}

// ApplyTo overwrites *dst when the field is present. Null and absent leave it alone.
func (f Field[T]) ApplyTo(dst *T) {
	if f.state == FieldPresent {
		*dst = f.value
	}
}

// ApplyClearable overwrites *dst when present and resets it to the zero value when null.
func (f Field[T]) ApplyClearable(dst *T) {
	switch f.state {
	case FieldPresent:
		*dst = f.value
	case FieldNull:
		var zero T
		*dst = zero
	}
}

// ApplyToPtr sets *dst to a copy of the value when present and to nil when null.
func (f Field[T]) ApplyToPtr(dst **T) {
	switch f.state {
	case FieldPresent:
		v := f.value
		*dst = &v
	case FieldNull:
		*dst = nil
	}
}
