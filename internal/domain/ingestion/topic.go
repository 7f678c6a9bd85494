package ingestion

import "strings"

// Resource is the entity family a topic refers to
type Resource string

const (
	ResourceCustomers Resource = "customers"
	ResourceProducts  Resource = "products"
	ResourceOrders    Resource = "orders"
	ResourceUnknown   Resource = ""
)

// Topic is a parsed "<resource>/<action>" event topic
type Topic struct {
	Raw      string
	Resource Resource
	Action   string
}

// actions that never carry an entity snapshot
var ignoredActions = map[string]bool{
	"delete":       true,
	"data_request": true,
	"redact":       true,
}

// ParseTopic splits a topic on its first slash. The resource prefix is
// matched case-insensitively; anything unrecognized maps to ResourceUnknown.
func ParseTopic(raw string) Topic {
	t := Topic{Raw: raw}
	lower := strings.ToLower(strings.TrimSpace(raw))
	prefix, action, _ := strings.Cut(lower, "/")
	t.Action = action

	switch Resource(prefix) {
	case ResourceCustomers, ResourceProducts, ResourceOrders:
		t.Resource = Resource(prefix)
	default:
		t.Resource = ResourceUnknown
	}
	return t
}

// IsRoutable reports whether the event should reach an upserter
func (t Topic) IsRoutable() bool {
	return t.Resource != ResourceUnknown && !ignoredActions[t.Action]
}

// WrapperKey is the singular key a payload may be wrapped in, e.g. "order"
func (t Topic) WrapperKey() string {
	return strings.TrimSuffix(string(t.Resource), "s")
}

// String returns the raw topic
func (t Topic) String() string {
	return t.Raw
}
