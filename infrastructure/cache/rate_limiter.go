package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"
)

// FixedWindowLimiter counts submissions per identity in fixed windows.
// It is advisory: any redis error counts as allowed.
type FixedWindowLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewFixedWindowLimiter(rdb *redis.Client, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{rdb: rdb, limit: int64(limit), window: window}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	windowStart := now.Truncate(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Rate limit counter unavailable, failing open")
		return true, 0, err
	}
	if count == 1 {
		// First hit in the window owns the expiry.
		_ = l.rdb.Expire(ctx, redisKey, l.window).Err()
	}
	if count > l.limit {
		retryAfter := windowStart.Add(l.window).Sub(now)
		return false, retryAfter, nil
	}
	return true, 0, nil
}

var _ repository.IRateLimiter = (*FixedWindowLimiter)(nil)
