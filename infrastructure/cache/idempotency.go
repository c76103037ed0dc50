package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"post-archiver/domain/repository"
)

// IdempotencyStore records the first outcome for a deterministic event
// id so replayed deliveries return it instead of re-applying effects.
type IdempotencyStore struct {
	rdb *redis.Client
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func (s *IdempotencyStore) PutIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	stored, err := s.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if stored {
		return value, true, nil
	}
	existing, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false, err
	}
	return existing, false, nil
}

var _ repository.IIdempotency = (*IdempotencyStore)(nil)
