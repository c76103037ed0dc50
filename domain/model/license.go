package model

import "time"

// License is one row of the credit ledger. Credits are granted by
// payment webhook events and consumed by archive submissions.
type License struct {
	Key       string    `json:"key"`
	Credits   int64     `json:"credits"`
	Tier      ShareTier `json:"tier"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeadLetter is a best-effort post-mortem record for an unexpected
// failure. Writing one must never fail the primary operation.
type DeadLetter struct {
	ID        string         `json:"id" bson:"id"`
	Source    string         `json:"source" bson:"source"`
	Message   string         `json:"message" bson:"message"`
	Context   map[string]any `json:"context,omitempty" bson:"context,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// ArchiveEvent is published to the configured message brokers when a
// job reaches a terminal state.
type ArchiveEvent struct {
	JobID    string    `json:"jobId"`
	Status   JobStatus `json:"status"`
	Platform Platform  `json:"platform"`
	URL      string    `json:"url"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}
