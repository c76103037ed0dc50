package repository

import (
	"context"
	"time"

	"post-archiver/domain/model"
)

// IDeadLetter records unexpected failures for post-mortem analysis.
// Write is fire-and-forget: it logs its own failures and never returns
// an error to the primary path.
type IDeadLetter interface {
	Write(ctx context.Context, dl model.DeadLetter)
}

// IEventPublisher pushes archive lifecycle events to a message broker.
// Publishing is best-effort.
type IEventPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// IRateLimiter is an advisory fixed-window counter. Implementations
// fail open: a store error counts as allowed.
type IRateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// IIdempotency stores the first outcome for a deterministic event id.
// PutIfAbsent returns the previously stored value when the key exists.
type IIdempotency interface {
	PutIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (existing string, stored bool, err error)
}
