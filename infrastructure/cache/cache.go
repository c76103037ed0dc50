package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"post-archiver/infrastructure/logger"
)

// NewCache connects a redis client and verifies the connection with a
// short ping. The client is still returned on ping failure so callers
// can decide how to degrade.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis ping failed")
		return client, err
	}
	return client, nil
}
