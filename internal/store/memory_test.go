package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IncrWithinWindow(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := m.Incr(ctx, "1.2.3.4", time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, n)
	}
	n, err := m.Incr(ctx, "5.6.7.8", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestMemoryStore_WindowResets(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = m.Incr(ctx, "k", time.Minute)
	n, _ := m.Incr(ctx, "k", time.Minute)
	require.Equal(t, int64(2), n)

	now = now.Add(time.Minute)
	n, _ = m.Incr(ctx, "k", time.Minute)
	require.Equal(t, int64(1), n)
}

func TestMemoryStore_SweepsExpiredBuckets(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }
	m.sweepEvery = 3
	ctx := context.Background()

	_, _ = m.Incr(ctx, "a", time.Second)
	_, _ = m.Incr(ctx, "b", time.Second)
	require.Equal(t, 2, m.Len())

	now = now.Add(2 * time.Second)
	_, _ = m.Incr(ctx, "c", time.Second)
	require.Equal(t, 1, m.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Incr(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	n, err := m.Incr(ctx, "shared", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(51), n)
}
