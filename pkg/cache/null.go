package cache

import (
	"context"
	"time"
)

// NullCache misses every read and discards every write. It backs
// --no-cache runs and keeps the pipeline free of nil checks.
type NullCache struct{}

// NewNullCache creates a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always reports a miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
