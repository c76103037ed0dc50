package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureLicenseSchemaMSSQL creates the licenses table on SQL Server if
// it is missing. Safe to call at startup.
func EnsureLicenseSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `IF NOT EXISTS (SELECT 1 FROM sys.tables WHERE name = 'licenses')
    CREATE TABLE licenses (
        license_key NVARCHAR(128) PRIMARY KEY,
        credits     BIGINT NOT NULL DEFAULT 0,
        tier        NVARCHAR(16) NOT NULL DEFAULT 'free',
        revoked     BIT NOT NULL DEFAULT 0,
        created_at  DATETIMEOFFSET NOT NULL,
        updated_at  DATETIMEOFFSET NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating licenses table failed: %w", err)
	}
	return nil
}
