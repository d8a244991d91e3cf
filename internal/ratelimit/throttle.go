package ratelimit

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shine-music/shine-indexer/internal/adapter"
	"github.com/shine-music/shine-indexer/internal/logger"
)

const defaultKeyPrefix = "shine:rpc:limiter:"

// Throttle paces outbound calls per upstream provider
type Throttle interface {
	// Wait blocks until a call to provider may proceed or ctx is done
	Wait(ctx context.Context, provider string) error
}

// Config holds the per-provider pacing settings
type Config struct {
	RequestsPerSecond int
	Burst             int
	// RedisKeyPrefix namespaces the shared counters when a distributed limiter is set
	RedisKeyPrefix string
	// RedisRetryAfter is how long the distributed limiter is bypassed after an error
	RedisRetryAfter time.Duration
}

type throttle struct {
	config      Config
	distributed adapter.RedisRateLimiter
	clock       adapter.Clock

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	redisDown   atomic.Bool
	redisDownMu sync.Mutex
	redisDownAt time.Time
}

// NewThrottle creates a throttle. Every process paces itself with a local token
// bucket; when distributed is non-nil the shared budget in Redis is consulted too,
// so several API replicas stay within one provider quota together.
func NewThrottle(cfg Config, distributed adapter.RedisRateLimiter, clock adapter.Clock) Throttle {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 25
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	if cfg.RedisKeyPrefix == "" {
		cfg.RedisKeyPrefix = defaultKeyPrefix
	}
	if cfg.RedisRetryAfter <= 0 {
		cfg.RedisRetryAfter = 10 * time.Second
	}

	return &throttle{
		config:      cfg,
		distributed: distributed,
		clock:       clock,
		limiters:    make(map[string]*rate.Limiter),
	}
}

func (t *throttle) Wait(ctx context.Context, provider string) error {
	// The local bucket also pre-filters traffic before it reaches Redis
	if err := t.localLimiter(provider).Wait(ctx); err != nil {
		return err
	}

	for t.distributedAvailable() {
		res, err := t.distributed.Allow(ctx, t.config.RedisKeyPrefix+provider, redis_rate.PerSecond(t.config.RequestsPerSecond))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.markRedisDown()
			logger.WarnCtx(ctx, "Distributed rate limiter unavailable, pacing locally",
				zap.String("provider", provider),
				zap.Error(err))
			return nil
		}
		if res.Allowed > 0 {
			return nil
		}

		// Spread retries over 50-150% of the advised delay
		jitter := time.Duration(float64(res.RetryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
		logger.DebugCtx(ctx, "Provider budget exhausted, waiting",
			zap.String("provider", provider),
			zap.Duration("retryAfter", jitter))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.clock.After(jitter):
		}
	}

	return nil
}

func (t *throttle) localLimiter(provider string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.limiters[provider]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(t.config.RequestsPerSecond), t.config.Burst)
		t.limiters[provider] = limiter
	}
	return limiter
}

func (t *throttle) distributedAvailable() bool {
	if t.distributed == nil {
		return false
	}
	if !t.redisDown.Load() {
		return true
	}

	t.redisDownMu.Lock()
	defer t.redisDownMu.Unlock()
	if t.clock.Since(t.redisDownAt) < t.config.RedisRetryAfter {
		return false
	}
	t.redisDown.Store(false)
	logger.Info("Retrying distributed rate limiter")
	return true
}

func (t *throttle) markRedisDown() {
	t.redisDownMu.Lock()
	defer t.redisDownMu.Unlock()
	t.redisDownAt = t.clock.Now()
	t.redisDown.Store(true)
}
