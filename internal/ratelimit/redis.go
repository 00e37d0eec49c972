package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces limiter keys in Redis.
const DefaultKeyPrefix = "ratelimit:"

// RedisLimiter is a fixed window limiter shared by every process using the
// same Redis. Each window is one counter key that expires with the window.
type RedisLimiter struct {
	client    *redis.Client
	cfg       Config
	keyPrefix string
	now       func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a Redis-backed limiter. The client is not closed by
// Close.
func NewRedisLimiter(client *redis.Client, cfg Config) (*RedisLimiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RedisLimiter{
		client:    client,
		cfg:       cfg,
		keyPrefix: DefaultKeyPrefix,
		now:       time.Now,
	}, nil
}

// Allow increments the counter for key's current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	window := now.UnixNano() / int64(l.cfg.Window)
	redisKey := fmt.Sprintf("%s%s:%d", l.keyPrefix, key, window)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.cfg.Window)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	count := int(incr.Val())
	if count > l.cfg.Requests {
		windowEnd := time.Unix(0, (window+1)*int64(l.cfg.Window))
		return &Result{
			Allowed:    false,
			Limit:      l.cfg.Requests,
			RetryAfter: windowEnd.Sub(now),
		}, nil
	}

	return &Result{
		Allowed:   true,
		Limit:     l.cfg.Requests,
		Remaining: l.cfg.Requests - count,
	}, nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (l *RedisLimiter) Close() error {
	return nil
}
