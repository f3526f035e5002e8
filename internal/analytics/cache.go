package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"somdev-backend/internal/common/logger"
)

const reportCacheKey = "somdev:analytics:report"

// ReportCache caches the unfiltered analytics report. Filtered reports are
// always computed from the store.
type ReportCache interface {
	Get(ctx context.Context) ([]Row, bool)
	Set(ctx context.Context, rows []Row)
	Invalidate(ctx context.Context)
}

// NoopCache is used when Redis is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context) ([]Row, bool) { return nil, false }
func (NoopCache) Set(context.Context, []Row)        {}
func (NoopCache) Invalidate(context.Context)        {}

// RedisCache stores the serialized report under a single key with a TTL.
// Every cache failure degrades to a store read, never to a request error.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: log}
}

func (c *RedisCache) Get(ctx context.Context) ([]Row, bool) {
	raw, err := c.client.Get(ctx, reportCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("Analytics cache read failed", nil)
		}
		return nil, false
	}
	var rows []Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.logger.WithError(err).Warn("Analytics cache entry is corrupt, dropping it", nil)
		c.Invalidate(ctx)
		return nil, false
	}
	return rows, true
}

func (c *RedisCache) Set(ctx context.Context, rows []Row) {
	raw, err := json.Marshal(rows)
	if err != nil {
		c.logger.WithError(err).Warn("Analytics cache serialization failed", nil)
		return
	}
	if err := c.client.Set(ctx, reportCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("Analytics cache write failed", nil)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, reportCacheKey).Err(); err != nil {
		c.logger.WithError(err).Debug("Analytics cache invalidation failed", nil)
	}
}
