package persistence

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter counts attempts per key in fixed Redis windows. Used to slow
// down credential guessing and reset-email abuse. When Redis is unavailable
// the limiter allows the request; availability wins over throttling here.
type RateLimiter struct {
	redis  *Redis
	prefix string
	limit  int64
	window time.Duration
}

// NewRateLimiter builds a limiter allowing limit attempts per window.
func NewRateLimiter(r *Redis, prefix string, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: r, prefix: prefix, limit: limit, window: window}
}

// Allow records one attempt for key and reports whether it is within limits.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.redis == nil || l.redis.Client == nil {
		return true
	}

	bucket := fmt.Sprintf("%s:%s", l.prefix, key)
	count, err := l.redis.Client.Incr(ctx, bucket).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.redis.Client.Expire(ctx, bucket, l.window)
	}
	return count <= l.limit
}
