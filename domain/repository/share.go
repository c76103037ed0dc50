package repository

import (
	"context"
	"time"

	"post-archiver/domain/model"
)

// IShareHotStore is the fast expiring tier for share records.
type IShareHotStore interface {
	Put(ctx context.Context, rec *model.ShareRecord, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.ShareRecord, error)
	Delete(ctx context.Context, id string) error
	// Keys enumerates every share id currently present in the hot tier.
	Keys(ctx context.Context) ([]string, error)
}

// IShareColdStore is the durable object-storage tier. It is the source
// of truth for pro-tier records; the hot tier acts as its cache.
type IShareColdStore interface {
	Put(ctx context.Context, rec *model.ShareRecord) error
	Get(ctx context.Context, id string) (*model.ShareRecord, error)
	Delete(ctx context.Context, id string) error
}
