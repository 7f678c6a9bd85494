// Package ingestion turns verified storefront webhooks into tenant-scoped
// customer, product and order rows.
package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payload is a loosely typed JSON object as delivered by the platform.
// Numbers are kept as json.Number so ids and money never pass through float64.
type Payload map[string]any

// DecodePayload parses a webhook body. The top level must be a JSON object.
func DecodePayload(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidPayload, "body is not valid JSON", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, shared.NewInvalidPayloadError("body has trailing data after the JSON value")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, shared.NewInvalidPayloadError("body is not a JSON object")
	}
	return Payload(obj), nil
}

// Unwrap returns the object under key when the payload is a wrapper such as
// {"order": {...}}. A bare entity (one with its own "id") is returned as is.
func (p Payload) Unwrap(key string) Payload {
	if key == "" {
		return p
	}
	if _, hasID := p["id"]; hasID {
		return p
	}
	if inner, ok := p.Object(key); ok {
		return inner
	}
	return p
}

// Has reports whether key is present, including an explicit null
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// HasValue reports whether key is present and not null
func (p Payload) HasValue(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Object returns a nested object
func (p Payload) Object(key string) (Payload, bool) {
	obj, ok := p[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Payload(obj), true
}

// Array returns a nested array. ok is false when the key is absent or not an array.
func (p Payload) Array(key string) ([]any, bool) {
	arr, ok := p[key].([]any)
	return arr, ok
}

// ID returns an identifier as a string. Numeric ids are rendered exactly
// as sent; string ids are trimmed. Empty strings count as missing.
func (p Payload) ID(key string) string {
	switch v := p[key].(type) {
	case json.Number:
		return v.String()
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}

// String reads a text attribute. Numbers and booleans are rendered as text;
// objects and arrays are treated as absent.
func (p Payload) String(key string) shared.Field[string] {
	v, ok := p[key]
	if !ok {
		return shared.Absent[string]()
	}
	switch t := v.(type) {
	case nil:
		return shared.Null[string]()
	case string:
		return shared.Some(t)
	case json.Number:
		return shared.Some(t.String())
	case bool:
		return shared.Some(strconv.FormatBool(t))
	default:
		return shared.Absent[string]()
	}
}

// NonEmptyString is String with "" treated as absent
func (p Payload) NonEmptyString(key string) shared.Field[string] {
	f := p.String(key)
	if v, ok := f.Value(); ok && strings.TrimSpace(v) == "" {
		return shared.Absent[string]()
	}
	return f
}

// Decimal reads a money attribute sent as a decimal string or a JSON number.
// An empty string reads as null.
func (p Payload) Decimal(key string) (shared.Field[decimal.Decimal], error) {
	v, ok := p[key]
	if !ok {
		return shared.Absent[decimal.Decimal](), nil
	}
	var text string
	switch t := v.(type) {
	case nil:
		return shared.Null[decimal.Decimal](), nil
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
		if text == "" {
			return shared.Null[decimal.Decimal](), nil
		}
	default:
		return shared.Absent[decimal.Decimal](), shared.NewInvalidPayloadError("%s is not a decimal", key)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return shared.Absent[decimal.Decimal](), shared.WrapDomainError(shared.CodeInvalidPayload, key+" is not a decimal", err)
	}
	return shared.Some(d), nil
}

var (
	minInt = decimal.NewFromInt(math.MinInt)
	maxInt = decimal.NewFromInt(math.MaxInt)
)

// Int reads a whole number sent as a JSON number or a numeric string
func (p Payload) Int(key string) (shared.Field[int], error) {
	v, ok := p[key]
	if !ok {
		return shared.Absent[int](), nil
	}
	var text string
	switch t := v.(type) {
	case nil:
		return shared.Null[int](), nil
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
		if text == "" {
			return shared.Null[int](), nil
		}
	default:
		return shared.Absent[int](), shared.NewInvalidPayloadError("%s is not an integer", key)
	}
	if n, err := strconv.Atoi(text); err == nil {
		return shared.Some(n), nil
	}
	// "3.0" is accepted, "2.5" is not
	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() {
		return shared.Absent[int](), shared.NewInvalidPayloadError("%s is not an integer", key)
	}
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return shared.Absent[int](), shared.NewInvalidPayloadError("%s is out of range", key)
	}
	return shared.Some(int(d.IntPart())), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time reads a timestamp. RFC 3339 is expected; a bare date is accepted as UTC midnight.
func (p Payload) Time(key string) (shared.Field[time.Time], error) {
	v, ok := p[key]
	if !ok {
		return shared.Absent[time.Time](), nil
	}
	switch t := v.(type) {
	case nil:
		return shared.Null[time.Time](), nil
	case string:
		text := strings.TrimSpace(t)
		if text == "" {
			return shared.Null[time.Time](), nil
		}
		ts, err := parseTime(text)
		if err != nil {
			return shared.Absent[time.Time](), shared.WrapDomainError(shared.CodeInvalidPayload, key+" is not a timestamp", err)
		}
		return shared.Some(ts), nil
	default:
		return shared.Absent[time.Time](), shared.NewInvalidPayloadError("%s is not a timestamp", key)
	}
}

func parseTime(text string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		ts, err := time.Parse(layout, text)
		if err == nil {
			return ts.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
