package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rs := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func TestRedisStore_IncrWithinWindow(t *testing.T) {
	rs, mr := newTestRedisStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := rs.Incr(ctx, "10.0.0.1", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	ttl := mr.TTL(redisKeyPrefix + "10.0.0.1")
	require.Greater(t, ttl, time.Duration(0))
	require.LessOrEqual(t, ttl, time.Minute)

	n, err := rs.Incr(ctx, "10.0.0.2", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestRedisStore_WindowResets(t *testing.T) {
	rs, mr := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := rs.Incr(ctx, "client", time.Minute)
		require.NoError(t, err)
	}
	mr.FastForward(time.Minute + time.Millisecond)

	n, err := rs.Incr(ctx, "client", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestRedisStore_RestoresMissingExpiry(t *testing.T) {
	rs, mr := newTestRedisStore(t)
	key := redisKeyPrefix + "client"
	require.NoError(t, mr.Set(key, "7"))
	require.Zero(t, mr.TTL(key))

	n, err := rs.Incr(context.Background(), "client", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(8), n)
	require.Greater(t, mr.TTL(key), time.Duration(0))

	mr.FastForward(time.Minute + time.Millisecond)
	require.False(t, mr.Exists(key))
}

func TestRedisStore_CounterUnavailable(t *testing.T) {
	rs, mr := newTestRedisStore(t)
	mr.Close()

	_, err := rs.Incr(context.Background(), "client", time.Minute)
	require.ErrorContains(t, err, "redis incr")
}

func TestNewRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rs, err := NewRedisStore(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, rs.Close())
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url://")
	require.ErrorContains(t, err, "parse redis url")
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "redis://127.0.0.1:1/0")
	require.ErrorContains(t, err, "ping redis")
}
