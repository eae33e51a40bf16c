package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys so a retried
// create request is not posted twice.
type IdempotencyStore interface {
	// Claim records key with a TTL. It returns false when the key was
	// already claimed and has not expired.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets key, allowing a failed request to be retried.
	Release(ctx context.Context, key string) error

	Close() error
}
