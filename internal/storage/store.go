package storage

import (
	"context"
	"errors"
)

// Store is the durable key-value surface the whole engine persists
// through: string keys, serialized JSON values. It survives restarts
// but is scoped to one profile, so there is no cross-key transaction
// discipline beyond "mutate in memory, then persist".
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Incr atomically increments the counter stored at key and returns
	// the new value. Backs monotonic order-number generation.
	Incr(ctx context.Context, key string) (int64, error)
}

var ErrKeyNotFound = errors.New("key not found")
