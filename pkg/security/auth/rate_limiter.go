package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter limits request rates per key
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int64, resetTime time.Time, err error)
}

// RedisRateLimiter implements a fixed-window rate limiter backed by Redis
type RedisRateLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

// NewRedisRateLimiter creates a new Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, window time.Duration, maxAttempts int64) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:      client,
		window:      window,
		maxAttempts: maxAttempts,
	}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int64, time.Time, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	// First hit in the window starts the expiry clock
	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return false, 0, time.Time{}, err
		}
	}

	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	resetTime := time.Now().Add(ttl)

	remaining := rl.maxAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.maxAttempts, remaining, resetTime, nil
}
