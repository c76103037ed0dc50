package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"post-archiver/domain/dto"
	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"

	"github.com/google/uuid"
)

type IShareUsecase interface {
	Create(ctx context.Context, req dto.ShareCreateRequest) (*model.ShareRecord, error)
	// Get serves a share by id, restoring pro records from the cold tier
	// into the hot tier on a miss. Expired records read as not found.
	Get(ctx context.Context, id, password string) (*model.ShareRecord, error)
	Delete(ctx context.Context, id string) error
	// MigrateTier rewrites a record's tier and grants it a full
	// target-tier TTL from the migration time.
	MigrateTier(ctx context.Context, id string, from, to model.ShareTier) (*model.ShareRecord, error)
	// CleanupExpired sweeps the hot tier and deletes expired records from
	// both tiers.
	CleanupExpired(ctx context.Context) (*dto.CleanupReport, error)
}

type shareUsecase struct {
	hot  repository.IShareHotStore
	cold repository.IShareColdStore // optional; nil disables the pro tier's durability
}

func NewShareUsecase(hot repository.IShareHotStore, cold repository.IShareColdStore) IShareUsecase {
	return &shareUsecase{hot: hot, cold: cold}
}

func (u *shareUsecase) Create(ctx context.Context, req dto.ShareCreateRequest) (*model.ShareRecord, error) {
	tier := req.Tier
	if tier == "" {
		tier = model.TierFree
	}
	if !tier.Valid() {
		return nil, model.NewValidationError("unknown tier: %s", tier)
	}
	if len(req.Content) == 0 {
		return nil, model.NewValidationError("content is required")
	}

	now := time.Now().UTC()
	expires := now.Add(tier.TTL())
	rec := &model.ShareRecord{
		ID:        uuid.NewString(),
		Content:   req.Content,
		Metadata:  req.Metadata,
		Tier:      tier,
		CreatedAt: now,
		ExpiresAt: &expires,
		Password:  req.Password,
	}

	if err := u.hot.Put(ctx, rec, tier.TTL()); err != nil {
		return nil, err
	}
	if tier == model.TierPro && u.cold != nil {
		if err := u.cold.Put(ctx, rec); err != nil {
			// The hot copy serves reads; the cold copy is retried on the
			// next write. Creation still succeeds.
			logger.GetLogger().WithField("shareId", rec.ID).WithField("error", err).Warn("Cold tier write failed")
		}
	}
	return rec, nil
}

func (u *shareUsecase) Get(ctx context.Context, id, password string) (*model.ShareRecord, error) {
	rec, err := u.hot.Get(ctx, id)
	if err != nil {
		var nf *model.NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		rec, err = u.restoreFromCold(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if rec.Expired(now) {
		return nil, &model.NotFoundError{Resource: "share", ID: id}
	}
	if rec.Password != "" {
		if subtle.ConstantTimeCompare([]byte(rec.Password), []byte(password)) != 1 {
			return nil, &model.AuthenticationError{Msg: "share password required"}
		}
	}

	rec.ViewCount++
	rec.LastAccessed = &now
	if rec.ExpiresAt != nil {
		if ttl := time.Until(*rec.ExpiresAt); ttl > 0 {
			if err := u.hot.Put(ctx, rec, ttl); err != nil {
				logger.GetLogger().WithField("shareId", id).WithField("error", err).Warn("View count update failed")
			}
		}
	}
	return rec, nil
}

// restoreFromCold reads a pro record from the cold tier and repopulates
// the hot tier with the remaining TTL.
func (u *shareUsecase) restoreFromCold(ctx context.Context, id string) (*model.ShareRecord, error) {
	if u.cold == nil {
		return nil, &model.NotFoundError{Resource: "share", ID: id}
	}
	rec, err := u.cold.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Expired(time.Now().UTC()) {
		return nil, &model.NotFoundError{Resource: "share", ID: id}
	}
	if rec.ExpiresAt != nil {
		if ttl := time.Until(*rec.ExpiresAt); ttl > 0 {
			if err := u.hot.Put(ctx, rec, ttl); err != nil {
				logger.GetLogger().WithField("shareId", id).WithField("error", err).Warn("Hot tier restore failed")
			} else {
				logger.GetLogger().WithField("shareId", id).Info("Share restored from cold tier")
			}
		}
	}
	return rec, nil
}

// Delete removes the record from both tiers. The hot tier is
// authoritative: its delete must succeed, the cold delete is best-effort.
func (u *shareUsecase) Delete(ctx context.Context, id string) error {
	if err := u.hot.Delete(ctx, id); err != nil {
		return err
	}
	if u.cold != nil {
		if err := u.cold.Delete(ctx, id); err != nil {
			logger.GetLogger().WithField("shareId", id).WithField("error", err).Warn("Cold tier delete failed")
		}
	}
	return nil
}

func (u *shareUsecase) MigrateTier(ctx context.Context, id string, from, to model.ShareTier) (*model.ShareRecord, error) {
	if !from.Valid() || !to.Valid() {
		return nil, model.NewValidationError("unknown tier in migration %s -> %s", from, to)
	}

	rec, err := u.Get(ctx, id, "")
	if err != nil {
		var auth *model.AuthenticationError
		if errors.As(err, &auth) {
			return nil, model.NewValidationError("password-protected shares cannot be migrated")
		}
		return nil, err
	}
	if rec.Tier != from {
		return nil, model.NewValidationError("share %s is tier %s, not %s", id, rec.Tier, from)
	}
	if from == to {
		return rec, nil
	}

	// Migration restarts the clock: the record lives a full target-tier
	// TTL from this moment, regardless of its age.
	expires := time.Now().UTC().Add(to.TTL())
	rec.Tier = to
	rec.ExpiresAt = &expires

	if err := u.hot.Put(ctx, rec, to.TTL()); err != nil {
		return nil, err
	}
	if u.cold != nil {
		if to == model.TierPro {
			if err := u.cold.Put(ctx, rec); err != nil {
				logger.GetLogger().WithField("shareId", id).WithField("error", err).Warn("Cold tier write failed during migration")
			}
		} else {
			// Downgrades leave no durable copy behind.
			if err := u.cold.Delete(ctx, id); err != nil {
				logger.GetLogger().WithField("shareId", id).WithField("error", err).Warn("Cold tier delete failed during migration")
			}
		}
	}
	return rec, nil
}

func (u *shareUsecase) CleanupExpired(ctx context.Context) (*dto.CleanupReport, error) {
	ids, err := u.hot.Keys(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.CleanupReport{}
	now := time.Now().UTC()
	for _, id := range ids {
		report.Scanned++
		rec, err := u.hot.Get(ctx, id)
		if err != nil {
			var nf *model.NotFoundError
			if errors.As(err, &nf) {
				continue // expired between Keys and Get
			}
			report.Failed++
			continue
		}
		if !rec.Expired(now) {
			continue
		}
		if err := u.Delete(ctx, id); err != nil {
			report.Failed++
			continue
		}
		report.Deleted++
	}
	logger.GetLogger().
		WithField("scanned", report.Scanned).
		WithField("deleted", report.Deleted).
		WithField("failed", report.Failed).
		Info("Expired share sweep finished")
	return report, nil
}
