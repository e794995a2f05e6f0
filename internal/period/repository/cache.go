package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nholding/clearvue/internal/period/domain"
)

// DefaultCacheTTL is used when a cache is created with a non-positive TTL.
const DefaultCacheTTL = 24 * time.Hour

// RedisCalendarCache shares generated calendars between dashboard instances.
// Calendars are stored as JSON arrays under CacheKey(year).
type RedisCalendarCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCalendarCache creates a cache on an existing client.
func NewRedisCalendarCache(rdb *redis.Client, ttl time.Duration) *RedisCalendarCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCalendarCache{rdb: rdb, ttl: ttl}
}

// CacheKey is the redis key holding the calendar of year.
func CacheKey(year int) string {
	return fmt.Sprintf("clearvue:calendar:%d", year)
}

// Get returns the cached calendar. A missing key is reported as ok=false with
// a nil error. An entry that does not decode to a valid twelve month calendar
// is reported as ok=false with an error.
func (c *RedisCalendarCache) Get(ctx context.Context, year int) ([]domain.FiscalPeriod, bool, error) {
	raw, err := c.rdb.Get(ctx, CacheKey(year)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read calendar %d from redis: %w", year, err)
	}

	var periods []domain.FiscalPeriod
	if err := json.Unmarshal(raw, &periods); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached calendar %d: %w", year, err)
	}
	if errs := domain.ValidateCalendar(periods); len(errs) > 0 {
		return nil, false, fmt.Errorf("cached calendar %d is invalid: %w", year, errors.Join(errs...))
	}
	return periods, true, nil
}

// Set stores the calendar with the configured TTL.
func (c *RedisCalendarCache) Set(ctx context.Context, year int, periods []domain.FiscalPeriod) error {
	raw, err := json.Marshal(periods)
	if err != nil {
		return fmt.Errorf("failed to encode calendar %d: %w", year, err)
	}
	if err := c.rdb.Set(ctx, CacheKey(year), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write calendar %d to redis: %w", year, err)
	}
	return nil
}

// Delete evicts the calendar of year.
func (c *RedisCalendarCache) Delete(ctx context.Context, year int) error {
	if err := c.rdb.Del(ctx, CacheKey(year)).Err(); err != nil {
		return fmt.Errorf("failed to evict calendar %d: %w", year, err)
	}
	return nil
}
