package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureLicenseSchema creates the licenses table if it is missing.
// Safe to call at startup.
func EnsureLicenseSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS licenses (
        license_key TEXT PRIMARY KEY,
        credits     BIGINT NOT NULL DEFAULT 0,
        tier        TEXT NOT NULL DEFAULT 'free',
        revoked     BOOLEAN NOT NULL DEFAULT FALSE,
        created_at  TIMESTAMPTZ NOT NULL,
        updated_at  TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating licenses table failed: %w", err)
	}
	return nil
}
