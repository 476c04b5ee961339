package store

import (
	"context"
	"sync"
	"time"
)

// Counter counts hits per key within a fixed window that starts at the first
// hit. Implementations must be safe for concurrent use.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type bucket struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is a process-local Counter. Counts are not shared between
// replicas; use RedisStore for that.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	// sweep expired buckets every sweepEvery increments
	sweepEvery int
	ops        int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets:    make(map[string]*bucket),
		now:        time.Now,
		sweepEvery: 1024,
	}
}

func (m *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.ops++
	if m.ops >= m.sweepEvery {
		m.sweepLocked(now)
	}
	b, ok := m.buckets[key]
	if !ok || !now.Before(b.expiresAt) {
		b = &bucket{expiresAt: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

// Len reports the number of live buckets.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	m.ops = 0
	for k, b := range m.buckets {
		if !now.Before(b.expiresAt) {
			delete(m.buckets, k)
		}
	}
}
