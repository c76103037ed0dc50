package repository

import (
	"context"

	"post-archiver/domain/model"
)

// ILicense is the credit ledger. Implementations back it with Postgres
// locally and MSSQL in production.
type ILicense interface {
	Get(ctx context.Context, key string) (*model.License, error)
	// CreateIfMissing inserts a zero-credit row for key, leaving an
	// existing row untouched.
	CreateIfMissing(ctx context.Context, key string, tier model.ShareTier) error
	// DeductCredits atomically subtracts n, failing with
	// *model.InsufficientCreditsError when the balance is short.
	DeductCredits(ctx context.Context, key string, n int64) error
	AddCredits(ctx context.Context, key string, n int64) error
	SetRevoked(ctx context.Context, key string, revoked bool) error
}
