package model

import (
	"encoding/json"
	"time"
)

// ShareTier is the retention class of a share record.
type ShareTier string

const (
	TierFree ShareTier = "free"
	TierPro  ShareTier = "pro"
)

// Retention TTLs per tier. Free shares live in the hot tier only; pro
// shares are additionally persisted to the durable cold tier.
const (
	FreeTierTTL = 30 * 24 * time.Hour
	ProTierTTL  = 365 * 24 * time.Hour
)

// TTL returns the retention duration for the tier.
func (t ShareTier) TTL() time.Duration {
	if t == TierPro {
		return ProTierTTL
	}
	return FreeTierTTL
}

// Valid reports whether t is a known tier.
func (t ShareTier) Valid() bool {
	return t == TierFree || t == TierPro
}

// ShareRecord is one persisted share link and its payload.
type ShareRecord struct {
	ID           string          `json:"id"`
	Content      json.RawMessage `json:"content"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	Tier         ShareTier       `json:"tier"`
	ViewCount    int64           `json:"viewCount"`
	CreatedAt    time.Time       `json:"createdAt"`
	ExpiresAt    *time.Time      `json:"expiresAt,omitempty"`
	Password     string          `json:"password,omitempty"`
	LastAccessed *time.Time      `json:"lastAccessed,omitempty"`
}

// Expired reports whether the record's expiry is in the past.
// Records without an expiry never expire.
func (r *ShareRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
