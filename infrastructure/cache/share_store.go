package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
)

const shareKeyPrefix = "share:record:"

// ShareHotStore is the expiring hot tier for share records.
type ShareHotStore struct {
	rdb *redis.Client
}

func NewShareHotStore(rdb *redis.Client) *ShareHotStore {
	return &ShareHotStore{rdb: rdb}
}

func (s *ShareHotStore) Put(ctx context.Context, rec *model.ShareRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, shareKeyPrefix+rec.ID, data, ttl).Err()
}

func (s *ShareHotStore) Get(ctx context.Context, id string) (*model.ShareRecord, error) {
	data, err := s.rdb.Get(ctx, shareKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, &model.NotFoundError{Resource: "share", ID: id}
	}
	if err != nil {
		return nil, err
	}
	var rec model.ShareRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *ShareHotStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, shareKeyPrefix+id).Err()
}

// Keys scans the hot tier for every share id. SCAN, not KEYS: the sweep
// runs against production traffic.
func (s *ShareHotStore) Keys(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.rdb.Scan(ctx, 0, shareKeyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), shareKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

var _ repository.IShareHotStore = (*ShareHotStore)(nil)
