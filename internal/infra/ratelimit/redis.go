package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"tourline/internal/app/policies"
)

// RedisLimiter is a fixed-window limiter keyed in Redis. Each attempt
// INCRs the window counter; the first attempt sets the TTL, so stale
// keys expire on their own and survive process restarts.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.max), nil
}

var _ policies.AttemptLimiter = (*RedisLimiter)(nil)
