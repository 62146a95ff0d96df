package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/trackit-app/trackit/pkg/logger"
)

// Outcome classifies the result of a cache read. A Failed outcome means the
// store misbehaved (connection loss, corrupt payload) and is distinct from a
// plain Miss, so callers and metrics never confuse "not cached" with "cache
// broken". A cached JSON null decodes as a Hit.
type Outcome int

const (
	// Miss means the key was not present.
	Miss Outcome = iota
	// Hit means the key was present and the value decoded successfully.
	Hit
	// Failed means the store returned an error; callers should treat it as a
	// miss and proceed to the source of truth.
	Failed
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Failed:
		return "failed"
	default:
		return "miss"
	}
}

// Service is the application-facing cache facade. It wraps a Store with JSON
// serialisation, TTL policy, per-process counters, and a log-and-degrade error
// posture: store failures are logged and absorbed, never propagated, so a
// broken cache only costs latency.
type Service struct {
	store    Store
	ttl      TTLPolicy
	counters *Counters
	log      *zap.Logger
}

// NewService wires a Service around a Store.
func NewService(store Store, ttl TTLPolicy) *Service {
	if ttl.Default <= 0 {
		ttl.Default = 5 * time.Minute
	}
	return &Service{
		store:    store,
		ttl:      ttl,
		counters: NewCounters(),
		log:      logger.WithModule("cache"),
	}
}

// Enabled reports whether a backing store is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.store != nil
}

// Store exposes the underlying store for components that need raw access,
// such as the rate limiter.
func (s *Service) Store() Store {
	if s == nil {
		return nil
	}
	return s.store
}

// TTL returns the configured TTL policy.
func (s *Service) TTL() TTLPolicy {
	if s == nil {
		return TTLPolicy{}
	}
	return s.ttl
}

// Counters exposes the per-process hit/miss counters.
func (s *Service) Counters() *Counters {
	if s == nil {
		return nil
	}
	return s.counters
}

// Get reads a key and decodes it into dest. dest may be nil when only the
// raw outcome matters.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) Outcome {
	if !s.Enabled() {
		return Miss
	}

	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.counters.RecordFailure()
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return Failed
	}
	if !found {
		s.counters.RecordMiss()
		return Miss
	}

	if dest != nil {
		if err := json.Unmarshal(value, dest); err != nil {
			s.counters.RecordFailure()
			s.log.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
			_ = s.store.Delete(ctx, key)
			return Failed
		}
	}

	s.counters.RecordHit()
	return Hit
}

// GetRaw reads a key without decoding. The returned bytes are owned by the
// caller.
func (s *Service) GetRaw(ctx context.Context, key string) ([]byte, Outcome) {
	if !s.Enabled() {
		return nil, Miss
	}

	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		s.counters.RecordFailure()
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, Failed
	}
	if !found {
		s.counters.RecordMiss()
		return nil, Miss
	}

	s.counters.RecordHit()
	return value, Hit
}

// Set encodes value as JSON and stores it under key. A non-positive ttl falls
// back to the policy default. Returns false when the write did not happen.
func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	if !s.Enabled() {
		return false
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("cache value not serialisable", zap.String("key", key), zap.Error(err))
		return false
	}
	return s.SetRaw(ctx, key, payload, ttl)
}

// SetRaw stores pre-encoded bytes under key.
func (s *Service) SetRaw(ctx context.Context, key string, payload []byte, ttl time.Duration) bool {
	if !s.Enabled() {
		return false
	}
	if ttl <= 0 {
		ttl = s.ttl.Default
	}

	if err := s.store.Set(ctx, key, payload, ttl); err != nil {
		s.counters.RecordFailure()
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Delete removes specific keys.
func (s *Service) Delete(ctx context.Context, keys ...string) {
	if !s.Enabled() || len(keys) == 0 {
		return
	}
	if err := s.store.Delete(ctx, keys...); err != nil {
		s.counters.RecordFailure()
		s.log.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// DeleteByPattern removes every key matching the glob pattern and returns the
// number removed.
func (s *Service) DeleteByPattern(ctx context.Context, pattern string) int64 {
	if !s.Enabled() {
		return 0
	}
	removed, err := s.store.DeleteByPattern(ctx, pattern)
	if err != nil {
		s.counters.RecordFailure()
		s.log.Warn("cache pattern delete failed", zap.String("pattern", pattern), zap.Error(err))
	}
	return removed
}

// Exists reports whether key is cached. Store errors read as absent.
func (s *Service) Exists(ctx context.Context, key string) bool {
	if !s.Enabled() {
		return false
	}
	found, err := s.store.Exists(ctx, key)
	if err != nil {
		s.counters.RecordFailure()
		s.log.Warn("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

// FlushResource drops every entity key and derived query key for a resource.
// It returns the total number of entries removed.
func (s *Service) FlushResource(ctx context.Context, resource string) int64 {
	if !s.Enabled() {
		return 0
	}
	removed := s.DeleteByPattern(ctx, ResourcePattern(resource))
	removed += s.DeleteByPattern(ctx, QueryPattern(resource))
	return removed
}

// FlushAll drops the entire namespace.
func (s *Service) FlushAll(ctx context.Context) int64 {
	if !s.Enabled() {
		return 0
	}
	return s.DeleteByPattern(ctx, "*")
}

// Ping verifies the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.store.Ping(ctx)
}

// Stats returns the backing store's own bookkeeping.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if !s.Enabled() {
		return Stats{}, nil
	}
	return s.store.Stats(ctx)
}
