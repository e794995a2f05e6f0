package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCalendarCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCalendarCache(rdb, ttl), mr
}

func TestRedisCalendarCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, 2024)
	require.NoError(t, err)
	assert.False(t, ok)

	want := calendar(t, 2024)
	require.NoError(t, cache.Set(ctx, 2024, want))
	assert.True(t, mr.Exists("clearvue:calendar:2024"))
	assert.Equal(t, time.Hour, mr.TTL("clearvue:calendar:2024"))

	got, ok, err := cache.Get(ctx, 2024)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisCalendarCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t, 0)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 2025, calendar(t, 2025)))
	assert.Equal(t, DefaultCacheTTL, mr.TTL(CacheKey(2025)))

	mr.FastForward(DefaultCacheTTL + time.Second)
	_, ok, err := cache.Get(ctx, 2025)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCalendarCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	require.NoError(t, mr.Set(CacheKey(2024), "not json"))

	_, ok, err := cache.Get(context.Background(), 2024)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCalendarCache_InvalidCalendar(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, mr.Set(CacheKey(2026), `[{"label":"January","month":13,"start_date":"2025-12-27","end_date":"2026-01-30","quarter":9}]`))
	_, ok, err := cache.Get(ctx, 2026)
	assert.Error(t, err)
	assert.False(t, ok)

	require.NoError(t, mr.Set(CacheKey(2027), `[]`))
	_, ok, err = cache.Get(ctx, 2027)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCalendarCache_Delete(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 2024, calendar(t, 2024)))
	require.NoError(t, cache.Delete(ctx, 2024))
	assert.False(t, mr.Exists(CacheKey(2024)))
}

func TestRedisCalendarCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t, time.Hour)
	mr.Close()

	_, _, err := cache.Get(context.Background(), 2024)
	assert.Error(t, err)
}
