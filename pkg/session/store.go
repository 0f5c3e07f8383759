package session

import (
	"context"
	"time"
)

// Store persists flow records under store generated keys.
//
// Get returns ErrNotFound for missing and expired records. Delete of an
// absent key is not an error.
type Store interface {
	Put(ctx context.Context, rec Record, ttl time.Duration) (string, error)
	Get(ctx context.Context, key string) (*Record, error)
	Delete(ctx context.Context, key string) error
}
