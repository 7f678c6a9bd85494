package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers webhook delivery ids that were already applied.
// Entries expire after a TTL, after which the same id is treated as new.
type IdempotencyStore interface {
	// MarkProcessed records a delivery id. Returns false when it was already recorded.
	MarkProcessed(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a delivery id is recorded and not expired
	IsProcessed(ctx context.Context, deliveryID string) (bool, error)

	Close() error
}

// IdempotencyConfig controls delivery de-duplication
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultIdempotencyConfig returns the default de-duplication settings
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Enabled: true,
		TTL:     48 * time.Hour,
	}
}
