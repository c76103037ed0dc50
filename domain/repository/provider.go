package repository

import (
	"context"
	"time"

	"post-archiver/domain/model"
)

// RawRecord is one unparsed provider record, keyed exactly as upstream
// delivered it.
type RawRecord map[string]any

// IProvider owns all communication with the external scraping provider.
type IProvider interface {
	// TriggerCollection starts a collection run and returns the opaque
	// snapshot id the provider assigned to it.
	TriggerCollection(ctx context.Context, url string, platform model.Platform) (string, error)

	// TriggerCollectionWithWebhook is TriggerCollection plus webhook
	// notification parameters, so the provider calls back instead of
	// requiring polling.
	TriggerCollectionWithWebhook(ctx context.Context, url string, platform model.Platform, webhookURL string) (string, error)

	// PollUntilReady blocks on a fixed-interval status loop bounded by a
	// hard wall-clock timeout, then downloads the result.
	PollUntilReady(ctx context.Context, snapshotID string, timeout, interval time.Duration) (RawRecord, error)

	// DownloadSnapshot fetches and parses the NDJSON result, returning
	// the first parseable record.
	DownloadSnapshot(ctx context.Context, snapshotID string) (RawRecord, error)
}
