package cache

import (
	"context"
	"time"
)

// Store represents a shared cache interface used across the application.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes every key matching the supplied glob pattern and
	// returns the number of keys removed.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Stats is a point-in-time snapshot of the backing store's own bookkeeping.
type Stats struct {
	Keys           int64 `json:"keys"`
	MemoryBytes    int64 `json:"memory_bytes"`
	KeyspaceHits   int64 `json:"keyspace_hits"`
	KeyspaceMisses int64 `json:"keyspace_misses"`
}

// HitRatio returns the server-side keyspace hit ratio, or 0 when no lookups were recorded.
func (s Stats) HitRatio() float64 {
	total := s.KeyspaceHits + s.KeyspaceMisses
	if total == 0 {
		return 0
	}
	return float64(s.KeyspaceHits) / float64(total)
}
