package persistence

import (
	"context"
	"database/sql"
	"time"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
)

// LicenseRepositoryMssql implements the credit ledger on Azure SQL / SQL Server.
type LicenseRepositoryMssql struct {
	db *sql.DB
}

func NewLicenseRepositoryMssql(db *sql.DB) *LicenseRepositoryMssql {
	return &LicenseRepositoryMssql{db: db}
}

var _ repository.ILicense = &LicenseRepositoryMssql{}

func (r *LicenseRepositoryMssql) Get(ctx context.Context, key string) (*model.License, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT license_key, credits, tier, revoked, created_at, updated_at FROM licenses WHERE license_key=@p1`, key)
	lic := &model.License{}
	var tier string
	if err := row.Scan(&lic.Key, &lic.Credits, &tier, &lic.Revoked, &lic.CreatedAt, &lic.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &model.NotFoundError{Resource: "license", ID: key}
		}
		return nil, err
	}
	lic.Tier = model.ShareTier(tier)
	return lic, nil
}

func (r *LicenseRepositoryMssql) CreateIfMissing(ctx context.Context, key string, tier model.ShareTier) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`IF NOT EXISTS (SELECT 1 FROM licenses WHERE license_key = @p1)
         INSERT INTO licenses (license_key, credits, tier, revoked, created_at, updated_at)
         VALUES (@p1, 0, @p2, 0, @p3, @p3)`, key, string(tier), now)
	return err
}

func (r *LicenseRepositoryMssql) DeductCredits(ctx context.Context, key string, n int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET credits = credits - @p1, updated_at = @p2
         WHERE license_key = @p3 AND revoked = 0 AND credits >= @p1`, n, time.Now().UTC(), key)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		lic, err := r.Get(ctx, key)
		if err != nil {
			return err
		}
		if lic.Revoked {
			return &model.AuthenticationError{Msg: "license revoked"}
		}
		return &model.InsufficientCreditsError{Required: n, Available: lic.Credits}
	}
	return nil
}

func (r *LicenseRepositoryMssql) AddCredits(ctx context.Context, key string, n int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET credits = credits + @p1, updated_at = @p2 WHERE license_key = @p3`,
		n, time.Now().UTC(), key)
	return err
}

func (r *LicenseRepositoryMssql) SetRevoked(ctx context.Context, key string, revoked bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET revoked = @p1, updated_at = @p2 WHERE license_key = @p3`,
		revoked, time.Now().UTC(), key)
	return err
}
