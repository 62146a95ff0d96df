package cache

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// memoryStore is a minimal in-process Store used by tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	fail    bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string]memoryEntry{}}
}

var errStoreDown = errors.New("store down")

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, false, errStoreDown
	}
	entry, ok := s.entries[key]
	if !ok || entry.expired() {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *memoryStore) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, errStoreDown
	}
	var removed int64
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, found, err := s.Get(ctx, key)
	return found, err
}

func (s *memoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, 0, errStoreDown
	}
	entry, ok := s.entries[key]
	count := int64(1)
	if ok && !entry.expired() {
		count = int64(entry.value[0]) + 1
	}
	s.entries[key] = memoryEntry{value: []byte{byte(count)}, expiresAt: time.Now().Add(window)}
	return count, window, nil
}

func (s *memoryStore) Ping(context.Context) error {
	if s.fail {
		return errStoreDown
	}
	return nil
}

func (s *memoryStore) Stats(context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return Stats{}, errStoreDown
	}
	return Stats{Keys: int64(len(s.entries))}, nil
}

func (s *memoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newTestService(store Store) *Service {
	return NewService(store, TTLPolicy{Default: time.Minute, Item: time.Minute, List: time.Minute, Search: time.Minute})
}

func TestServiceGetSetRoundTrip(t *testing.T) {
	svc := newTestService(newMemoryStore())
	ctx := context.Background()

	type task struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	require.Equal(t, Miss, svc.Get(ctx, "tasks:1", nil))
	require.True(t, svc.Set(ctx, "tasks:1", task{ID: "1", Title: "write release notes"}, 0))

	var got task
	require.Equal(t, Hit, svc.Get(ctx, "tasks:1", &got))
	require.Equal(t, "write release notes", got.Title)
}

func TestServiceCachedNullIsAHit(t *testing.T) {
	svc := newTestService(newMemoryStore())
	ctx := context.Background()

	require.True(t, svc.Set(ctx, "tasks:absent", nil, 0))

	var dest *string
	require.Equal(t, Hit, svc.Get(ctx, "tasks:absent", &dest))
	require.Nil(t, dest)
}

func TestServiceStoreFailureIsFailedNotMiss(t *testing.T) {
	store := newMemoryStore()
	store.fail = true
	svc := newTestService(store)

	require.Equal(t, Failed, svc.Get(context.Background(), "tasks:1", nil))
	require.False(t, svc.Set(context.Background(), "tasks:1", "value", 0))

	snap := svc.Counters().Snapshot()
	require.EqualValues(t, 0, snap.Hits)
	require.EqualValues(t, 0, snap.Misses)
	require.EqualValues(t, 2, snap.Failures)
}

func TestServiceCorruptEntryEvicted(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "tasks:1", []byte("{not json"), 0))

	var dest map[string]interface{}
	require.Equal(t, Failed, svc.Get(ctx, "tasks:1", &dest))
	require.Equal(t, 0, store.len())
}

func TestServiceFlushResource(t *testing.T) {
	svc := newTestService(newMemoryStore())
	ctx := context.Background()

	svc.Set(ctx, ResourceKey("tasks", "1"), "a", 0)
	svc.Set(ctx, ResourceKey("tasks", "2"), "b", 0)
	svc.Set(ctx, QueryKey("tasks", "list", "all"), "c", 0)
	svc.Set(ctx, ResourceKey("comments", "9"), "keep", 0)

	require.EqualValues(t, 3, svc.FlushResource(ctx, "tasks"))
	require.Equal(t, Hit, svc.Get(ctx, ResourceKey("comments", "9"), nil))
	require.Equal(t, Miss, svc.Get(ctx, ResourceKey("tasks", "1"), nil))
}

func TestServiceFlushAll(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	svc.Set(ctx, "tasks:1", "a", 0)
	svc.Set(ctx, "q:v1:tasks:list:abc", "b", 0)

	require.EqualValues(t, 2, svc.FlushAll(ctx))
	require.Equal(t, 0, store.len())
}

func TestServiceDisabledDegradesToMiss(t *testing.T) {
	svc := NewService(nil, TTLPolicy{})
	ctx := context.Background()

	require.False(t, svc.Enabled())
	require.Equal(t, Miss, svc.Get(ctx, "tasks:1", nil))
	require.False(t, svc.Set(ctx, "tasks:1", "v", 0))
	require.EqualValues(t, 0, svc.FlushAll(ctx))
	require.NoError(t, svc.Ping(ctx))
}

func TestServiceTTLExpiry(t *testing.T) {
	svc := newTestService(newMemoryStore())
	ctx := context.Background()

	require.True(t, svc.Set(ctx, "tasks:1", "v", 10*time.Millisecond))
	time.Sleep(25 * time.Millisecond)
	require.Equal(t, Miss, svc.Get(ctx, "tasks:1", nil))
}
