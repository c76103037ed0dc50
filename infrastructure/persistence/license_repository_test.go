package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"post-archiver/domain/model"
	"post-archiver/infrastructure/persistence"
)

func licenseColumns() []string {
	return []string{"license_key", "credits", "tier", "revoked", "created_at", "updated_at"}
}

func TestLicenseRepositoryGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT license_key, credits, tier, revoked, created_at, updated_at FROM licenses").
		WithArgs("lic-1").
		WillReturnRows(sqlmock.NewRows(licenseColumns()).AddRow("lic-1", int64(42), "pro", false, now, now))

	repo := persistence.NewLicenseRepository(db)
	lic, err := repo.Get(context.Background(), "lic-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), lic.Credits)
	assert.Equal(t, model.TierPro, lic.Tier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT license_key, credits, tier, revoked, created_at, updated_at FROM licenses").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(licenseColumns()))

	repo := persistence.NewLicenseRepository(db)
	_, err = repo.Get(context.Background(), "missing")
	assert.IsType(t, &model.NotFoundError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryDeductCredits(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE licenses SET credits = credits -").
		WithArgs(int64(2), sqlmock.AnyArg(), "lic-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := persistence.NewLicenseRepository(db)
	assert.NoError(t, repo.DeductCredits(context.Background(), "lic-1", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A guarded UPDATE that touches no row means the balance was short; the
// follow-up read distinguishes that from a revoked license.
func TestLicenseRepositoryDeductCreditsInsufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE licenses SET credits = credits -").
		WithArgs(int64(5), sqlmock.AnyArg(), "lic-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT license_key, credits, tier, revoked, created_at, updated_at FROM licenses").
		WithArgs("lic-1").
		WillReturnRows(sqlmock.NewRows(licenseColumns()).AddRow("lic-1", int64(3), "free", false, now, now))

	repo := persistence.NewLicenseRepository(db)
	err = repo.DeductCredits(context.Background(), "lic-1", 5)

	var credErr *model.InsufficientCreditsError
	if assert.ErrorAs(t, err, &credErr) {
		assert.Equal(t, int64(5), credErr.Required)
		assert.Equal(t, int64(3), credErr.Available)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryDeductCreditsRevoked(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE licenses SET credits = credits -").
		WithArgs(int64(1), sqlmock.AnyArg(), "lic-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT license_key, credits, tier, revoked, created_at, updated_at FROM licenses").
		WithArgs("lic-1").
		WillReturnRows(sqlmock.NewRows(licenseColumns()).AddRow("lic-1", int64(100), "free", true, now, now))

	repo := persistence.NewLicenseRepository(db)
	err = repo.DeductCredits(context.Background(), "lic-1", 1)
	assert.IsType(t, &model.AuthenticationError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryAddCredits(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE licenses SET credits = credits \\+").
		WithArgs(int64(100), sqlmock.AnyArg(), "lic-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := persistence.NewLicenseRepository(db)
	assert.NoError(t, repo.AddCredits(context.Background(), "lic-1", 100))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLicenseRepositoryCreateIfMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO licenses").
		WithArgs("lic-new", "free", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := persistence.NewLicenseRepository(db)
	assert.NoError(t, repo.CreateIfMissing(context.Background(), "lic-new", model.TierFree))
	assert.NoError(t, mock.ExpectationsWereMet())
}
