package viewcache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/aggregator"
	"github.com/shine-music/shine-indexer/internal/domain"
	"github.com/shine-music/shine-indexer/internal/logger"
	"github.com/shine-music/shine-indexer/internal/metrics"
)

const keyPrefix = "shine:view"

// Key returns the redis key of a view computed for a limit
func Key(view string, limit int) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, view, limit)
}

// Cache serves aggregator views from redis, computing and storing them on a miss.
// Redis failures fall through to the aggregator.
type Cache struct {
	next  aggregator.Aggregator
	redis adapter.RedisClient
	json  adapter.JSON
	ttl   time.Duration
}

// New wraps an aggregator with a redis view cache
func New(next aggregator.Aggregator, redis adapter.RedisClient, jsonAdapter adapter.JSON, ttl time.Duration) *Cache {
	return &Cache{
		next:  next,
		redis: redis,
		json:  jsonAdapter,
		ttl:   ttl,
	}
}

// RecentlyCollected returns the cached view or computes it
func (c *Cache) RecentlyCollected(ctx context.Context, limit int) []domain.CollectedSong {
	return cached(ctx, c, aggregator.ViewRecentlyCollected, limit, c.next.RecentlyCollected)
}

// MostCollectedArtists returns the cached view or computes it
func (c *Cache) MostCollectedArtists(ctx context.Context, limit int) []domain.CollectedArtist {
	return cached(ctx, c, aggregator.ViewMostCollectedArtists, limit, c.next.MostCollectedArtists)
}

// Refresh recomputes both views for a limit and stores them
func (c *Cache) Refresh(ctx context.Context, limit int) error {
	if err := store(ctx, c, aggregator.ViewRecentlyCollected, limit, c.next.RecentlyCollected(ctx, limit)); err != nil {
		return err
	}
	return store(ctx, c, aggregator.ViewMostCollectedArtists, limit, c.next.MostCollectedArtists(ctx, limit))
}

// Close closes the wrapped aggregator
func (c *Cache) Close() {
	c.next.Close()
}

func cached[T any](ctx context.Context, c *Cache, view string, limit int, compute func(context.Context, int) []T) []T {
	key := Key(view, limit)

	data, found, err := c.redis.Get(ctx, key)
	switch {
	case err != nil:
		logger.WarnCtx(ctx, "Failed to read cached view", zap.String("key", key), zap.Error(err))
		metrics.ViewCacheRequests.WithLabelValues(view, "error").Inc()
	case found:
		var rows []T
		if err := c.json.Unmarshal(data, &rows); err == nil {
			metrics.ViewCacheRequests.WithLabelValues(view, "hit").Inc()
			return rows
		}
		logger.WarnCtx(ctx, "Dropping undecodable cached view", zap.String("key", key))
		metrics.ViewCacheRequests.WithLabelValues(view, "error").Inc()
	default:
		metrics.ViewCacheRequests.WithLabelValues(view, "miss").Inc()
	}

	rows := compute(ctx, limit)
	if err := store(ctx, c, view, limit, rows); err != nil {
		logger.WarnCtx(ctx, "Failed to cache view", zap.String("key", key), zap.Error(err))
	}
	return rows
}

func store[T any](ctx context.Context, c *Cache, view string, limit int, rows []T) error {
	// an empty view is usually a transient failure; let the next request retry
	if len(rows) == 0 {
		return nil
	}

	data, err := c.json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal %s view: %w", view, err)
	}
	if err := c.redis.Set(ctx, Key(view, limit), data, c.ttl); err != nil {
		return fmt.Errorf("failed to store %s view: %w", view, err)
	}
	return nil
}

var _ aggregator.Aggregator = (*Cache)(nil)
