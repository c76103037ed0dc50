package persistence

import (
	"context"
	"database/sql"
	"time"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
)

// LicenseRepository implements the credit ledger on PostgreSQL.
type LicenseRepository struct {
	db *sql.DB
}

func NewLicenseRepository(db *sql.DB) *LicenseRepository { return &LicenseRepository{db: db} }

var _ repository.ILicense = &LicenseRepository{}

func (r *LicenseRepository) Get(ctx context.Context, key string) (*model.License, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT license_key, credits, tier, revoked, created_at, updated_at FROM licenses WHERE license_key=$1`, key)
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

func (r *LicenseRepository) CreateIfMissing(ctx context.Context, key string, tier model.ShareTier) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO licenses (license_key, credits, tier, revoked, created_at, updated_at)
         VALUES ($1, 0, $2, FALSE, $3, $3)
         ON CONFLICT (license_key) DO NOTHING`, key, string(tier), now)
	return err
}

// DeductCredits subtracts n in a single guarded UPDATE so concurrent
// submissions cannot drive the balance negative.
func (r *LicenseRepository) DeductCredits(ctx context.Context, key string, n int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET credits = credits - $1, updated_at = $2
         WHERE license_key = $3 AND revoked = FALSE AND credits >= $1`, n, time.Now().UTC(), key)
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

func (r *LicenseRepository) AddCredits(ctx context.Context, key string, n int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET credits = credits + $1, updated_at = $2 WHERE license_key = $3`,
		n, time.Now().UTC(), key)
	return err
}

func (r *LicenseRepository) SetRevoked(ctx context.Context, key string, revoked bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET revoked = $1, updated_at = $2 WHERE license_key = $3`,
		revoked, time.Now().UTC(), key)
	return err
}
