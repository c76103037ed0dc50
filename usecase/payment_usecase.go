package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"post-archiver/domain/dto"
	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"
)

// Processed payment outcomes are retained long enough to absorb any
// realistic webhook retry schedule.
const paymentEventTTL = 90 * 24 * time.Hour

type IPaymentUsecase interface {
	// VerifySignature checks the HMAC-SHA256 hex signature over the raw
	// request body.
	VerifySignature(body []byte, signature string) bool
	// ProcessEvent applies a payment event at most once. Replays return
	// the stored first outcome with Replayed set.
	ProcessEvent(ctx context.Context, payload dto.PaymentWebhookPayload) (*dto.PaymentOutcome, error)
}

type paymentUsecase struct {
	licenses    repository.ILicense
	idempotency repository.IIdempotency
	secret      string
	saleCredits int64
}

func NewPaymentUsecase(licenses repository.ILicense, idempotency repository.IIdempotency, secret string, saleCredits int64) IPaymentUsecase {
	return &paymentUsecase{
		licenses:    licenses,
		idempotency: idempotency,
		secret:      secret,
		saleCredits: saleCredits,
	}
}

func (u *paymentUsecase) VerifySignature(body []byte, signature string) bool {
	if u.secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(u.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// EventID derives the deterministic identity of a payment event, so the
// same sale delivered twice maps to the same idempotency key.
func EventID(payload dto.PaymentWebhookPayload) string {
	sum := sha256.Sum256([]byte(payload.SaleID + ":" + payload.SaleTimestamp))
	return hex.EncodeToString(sum[:])
}

func (u *paymentUsecase) ProcessEvent(ctx context.Context, payload dto.PaymentWebhookPayload) (*dto.PaymentOutcome, error) {
	if payload.SaleID == "" || payload.LicenseKey == "" {
		return nil, model.NewValidationError("payment event missing sale_id or license_key")
	}

	eventID := EventID(payload)
	outcome := &dto.PaymentOutcome{EventID: eventID}

	log := logger.GetLogger().
		WithField("eventId", eventID).
		WithField("licenseKey", payload.LicenseKey)

	switch {
	case payload.Refunded, payload.Disputed:
		outcome.Action = "revoked"
	default:
		outcome.Action = "credited"
		outcome.CreditsGranted = u.saleCredits
	}

	encoded, err := json.Marshal(outcome)
	if err != nil {
		return nil, err
	}
	existing, stored, err := u.idempotency.PutIfAbsent(ctx, "payment:event:"+eventID, string(encoded), paymentEventTTL)
	if err != nil {
		return nil, err
	}
	if !stored {
		var prior dto.PaymentOutcome
		if err := json.Unmarshal([]byte(existing), &prior); err != nil {
			return nil, err
		}
		prior.Replayed = true
		log.WithField("action", prior.Action).Info("Payment event replay, returning stored outcome")
		return &prior, nil
	}

	switch outcome.Action {
	case "credited":
		if err := u.licenses.CreateIfMissing(ctx, payload.LicenseKey, model.TierFree); err != nil {
			return nil, err
		}
		if err := u.licenses.AddCredits(ctx, payload.LicenseKey, u.saleCredits); err != nil {
			return nil, err
		}
		log.WithField("credits", u.saleCredits).Info("License credited")
	case "revoked":
		if err := u.licenses.SetRevoked(ctx, payload.LicenseKey, true); err != nil {
			return nil, err
		}
		log.Info("License revoked")
	}
	return outcome, nil
}
