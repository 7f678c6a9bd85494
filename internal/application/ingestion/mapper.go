package ingestion

import (
	"fmt"
	"time"

	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SkippedLineItem records a line item dropped during mapping
type SkippedLineItem struct {
	Index int
	Err   error
}

// OrderMapping is a mapped order plus the line items that could not be mapped
type OrderMapping struct {
	Update  commerce.OrderUpdate
	Skipped []SkippedLineItem
	// CustomerErr is set when an embedded customer could not be mapped.
	// The order is then stored as a guest order.
	CustomerErr error
}

// MapCustomer maps a customer object. Key validation happens in the upsert.
func MapCustomer(p Payload) (commerce.CustomerUpdate, error) {
	u := commerce.CustomerUpdate{
		ExternalID: p.ID("id"),
		Email:      p.String("email"),
		FirstName:  p.String("first_name"),
		LastName:   p.String("last_name"),
		Phone:      p.String("phone"),
	}

	var err error
	if u.TotalSpent, err = p.Decimal("total_spent"); err != nil {
		return u, err
	}
	if u.OrdersCount, err = p.Int("orders_count"); err != nil {
		return u, err
	}
	if u.LastOrderDate, err = lastOrderDate(p); err != nil {
		return u, err
	}
	return u, nil
}

// lastOrderDate prefers last_order.created_at and falls back to last_order_date
func lastOrderDate(p Payload) (shared.Field[time.Time], error) {
	if p.Has("last_order") {
		if lo, ok := p.Object("last_order"); ok {
			return lo.Time("created_at")
		}
		if !p.HasValue("last_order") {
			return shared.Null[time.Time](), nil
		}
	}
	return p.Time("last_order_date")
}

// MapProduct maps a product object. Price and SKU come from the first
// variant, falling back to top-level attributes.
func MapProduct(p Payload) (commerce.ProductUpdate, error) {
	u := commerce.ProductUpdate{
		ExternalID:  p.ID("id"),
		Title:       p.String("title"),
		Handle:      p.String("handle"),
		Description: p.String("body_html"),
		Vendor:      p.String("vendor"),
		Status:      p.String("status"),
	}
	if err := u.Validate(); err != nil {
		return u, err
	}

	var err error
	variant, hasVariant := firstVariant(p)
	if hasVariant {
		if u.Price, err = variant.Decimal("price"); err != nil {
			return u, err
		}
		u.SKU = variant.String("sku")
	}
	if u.Price.IsAbsent() {
		if u.Price, err = p.Decimal("price"); err != nil {
			return u, err
		}
	}
	if u.SKU.IsAbsent() {
		u.SKU = p.String("sku")
	}
	return u, nil
}

func firstVariant(p Payload) (Payload, bool) {
	variants, ok := p.Array("variants")
	if !ok || len(variants) == 0 {
		return nil, false
	}
	v, ok := variants[0].(map[string]any)
	if !ok {
		return nil, false
	}
	return Payload(v), true
}

// MapOrder maps an order object with its embedded customer and line items.
// Line items that fail to map are reported in Skipped and left out.
func MapOrder(p Payload) (OrderMapping, error) {
	u := commerce.OrderUpdate{
		ExternalID: p.ID("id"),
		Email:      p.String("email"),
		Currency:   p.NonEmptyString("currency"),
	}
	if err := u.Validate(); err != nil {
		return OrderMapping{Update: u}, err
	}

	u.OrderNumber = p.NonEmptyString("name")
	if u.OrderNumber.IsAbsent() {
		u.OrderNumber = p.NonEmptyString("order_number")
	}

	var err error
	if u.TotalPrice, err = p.Decimal("total_price"); err != nil {
		return OrderMapping{Update: u}, err
	}
	if u.ProcessedAt, err = p.Time("processed_at"); err != nil {
		return OrderMapping{Update: u}, err
	}
	if u.CreatedAt, err = p.Time("created_at"); err != nil {
		return OrderMapping{Update: u}, err
	}
	u.Signals = MapStatusSignals(p)

	m := OrderMapping{}
	if c, ok := p.Object("customer"); ok {
		cu, err := MapCustomer(c)
		if err != nil {
			m.CustomerErr = fmt.Errorf("customer: %w", err)
		} else {
			u.Customer = &cu
		}
	}

	if items, ok := p.Array("line_items"); ok {
		u.HasLineItems = true
		u.LineItems = make([]commerce.LineItemInput, 0, len(items))
		for i, raw := range items {
			obj, ok := raw.(map[string]any)
			if !ok {
				m.Skipped = append(m.Skipped, SkippedLineItem{Index: i, Err: shared.NewInvalidPayloadError("line item is not an object")})
				continue
			}
			li, err := MapLineItem(Payload(obj))
			if err != nil {
				m.Skipped = append(m.Skipped, SkippedLineItem{Index: i, Err: err})
				continue
			}
			u.LineItems = append(u.LineItems, li)
		}
	}
	m.Update = u
	return m, nil
}

// MapLineItem maps one order line. Quantity defaults to 1 and a missing
// price counts as 0 toward the line total.
// An untitled line keeps an empty title; the stored item falls back to "Item".
func MapLineItem(p Payload) (commerce.LineItemInput, error) {
	li := commerce.LineItemInput{
		ProductExternalID: p.ID("product_id"),
		Quantity:          1,
		Price:             decimal.Zero,
	}

	if title, ok := p.NonEmptyString("name").Value(); ok {
		li.Title = title
	} else if title, ok := p.NonEmptyString("title").Value(); ok {
		li.Title = title
	}
	if sku, ok := p.String("sku").Value(); ok {
		li.SKU = sku
	}

	qty, err := p.Int("quantity")
	if err != nil {
		return li, err
	}
	if n, ok := qty.Value(); ok {
		if n < 0 {
			return li, shared.NewInvalidPayloadError("line item quantity %d is negative", n)
		}
		li.Quantity = n
	}

	price, err := p.Decimal("price")
	if err != nil {
		return li, err
	}
	if v, ok := price.Value(); ok {
		li.Price = v
		li.HasPrice = true
	}
	return li, nil
}

var statusSignalKeys = []string{"cancelled_at", "cancel_reason", "financial_status", "fulfillment_status"}

// MapStatusSignals extracts the order status signals. Keys sent as null do
// not count as signals.
func MapStatusSignals(p Payload) commerce.StatusSignals {
	s := commerce.StatusSignals{}
	for _, key := range statusSignalKeys {
		if p.HasValue(key) {
			s.Seen = true
		}
	}
	if at, ok := p.NonEmptyString("cancelled_at").Value(); ok && at != "" {
		s.Cancelled = true
	}
	s.FinancialStatus, _ = p.String("financial_status").Value()
	s.FulfillmentStatus, _ = p.String("fulfillment_status").Value()
	return s
}
