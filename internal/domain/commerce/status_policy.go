package commerce

import (
	"fmt"
	"strings"
)

// StatusPrecedence selects which platform signal wins when an order is both
// paid and fulfilled. Cancellation always wins.
type StatusPrecedence string

const (
	// PrecedenceFinancialFirst: cancelled, then paid, then shipped, then pending
	PrecedenceFinancialFirst StatusPrecedence = "financial_first"
	// PrecedenceFulfillmentFirst: cancelled, then shipped, then paid, then pending
	PrecedenceFulfillmentFirst StatusPrecedence = "fulfillment_first"
)

// ParseStatusPrecedence parses a configured precedence name. Empty means financial_first.
func ParseStatusPrecedence(s string) (StatusPrecedence, error) {
	switch StatusPrecedence(strings.ToLower(strings.TrimSpace(s))) {
	case "", PrecedenceFinancialFirst:
		return PrecedenceFinancialFirst, nil
	case PrecedenceFulfillmentFirst:
		return PrecedenceFulfillmentFirst, nil
	default:
		return "", fmt.Errorf("unknown status precedence %q", s)
	}
}

// StatusSignals are the platform fields an order status is derived from
type StatusSignals struct {
	Cancelled         bool
	FinancialStatus   string
	FulfillmentStatus string
	// Seen is true when the payload carried any of the status fields
	Seen bool
}

var (
	paidFinancialStatuses = map[string]bool{
		"paid":               true,
		"partially_paid":     true,
		"partially_refunded": true,
		"refunded":           true,
	}
	shippedFulfillmentStatuses = map[string]bool{
		"fulfilled":           true,
		"shipped":             true,
		"partial":             true,
		"partially_fulfilled": true,
	}
)

// IsCancelled reports the cancellation signal, including statuses that mention it
func (s StatusSignals) IsCancelled() bool {
	return s.Cancelled ||
		strings.Contains(strings.ToLower(s.FinancialStatus), "cancel") ||
		strings.Contains(strings.ToLower(s.FulfillmentStatus), "cancel")
}

// IsPaid reports whether the financial status indicates payment
func (s StatusSignals) IsPaid() bool {
	return paidFinancialStatuses[strings.ToLower(strings.TrimSpace(s.FinancialStatus))]
}

// IsShipped reports whether the fulfillment status indicates shipment
func (s StatusSignals) IsShipped() bool {
	return shippedFulfillmentStatuses[strings.ToLower(strings.TrimSpace(s.FulfillmentStatus))]
}

// StatusPolicy derives an internal order status from platform signals
type StatusPolicy struct {
	Precedence StatusPrecedence
}

// DefaultStatusPolicy returns the financial-first policy
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{Precedence: PrecedenceFinancialFirst}
}

// Derive computes the status. The result depends only on the signals and the precedence.
func (p StatusPolicy) Derive(s StatusSignals) OrderStatus {
	if s.IsCancelled() {
		return OrderStatusCancelled
	}
	if p.Precedence == PrecedenceFulfillmentFirst {
		if s.IsShipped() {
			return OrderStatusShipped
		}
		if s.IsPaid() {
			return OrderStatusConfirmed
		}
		return OrderStatusPending
	}
	if s.IsPaid() {
		return OrderStatusConfirmed
	}
	if s.IsShipped() {
		return OrderStatusShipped
	}
	return OrderStatusPending
}
