package dto

import (
	"encoding/json"

	"post-archiver/domain/model"
)

// ShareCreateRequest is the body of POST /share.
type ShareCreateRequest struct {
	Content  json.RawMessage `json:"content" binding:"required"`
	Metadata map[string]any  `json:"metadata"`
	Tier     model.ShareTier `json:"tier"`
	Password string          `json:"password"`
}

// ShareMigrateRequest is the body of POST /api/share/:id/migrate.
type ShareMigrateRequest struct {
	From model.ShareTier `json:"from" binding:"required"`
	To   model.ShareTier `json:"to" binding:"required"`
}

// CleanupReport summarizes one expired-share sweep.
type CleanupReport struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
