package ports

import (
	"context"
	"time"
)

// SessionCache maps a user id to the single token currently valid for it.
// Implementations are scoped to one principal population.
type SessionCache interface {
	// Get returns the cached token and whether one exists. It does not touch the TTL.
	Get(ctx context.Context, userID int64) (string, bool, error)
	// Set overwrites the entry unconditionally and resets its TTL.
	Set(ctx context.Context, userID int64, token string, ttl time.Duration) error
}
