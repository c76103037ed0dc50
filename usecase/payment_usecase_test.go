package usecase_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"post-archiver/domain/dto"
	"post-archiver/domain/model"
	"post-archiver/usecase"
)

type MockIdempotency struct {
	mock.Mock
}

func (m *MockIdempotency) PutIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	uc := usecase.NewPaymentUsecase(nil, nil, "topsecret", 100)

	body := []byte(`{"sale_id":"s1"}`)
	assert.True(t, uc.VerifySignature(body, sign("topsecret", body)))
	assert.False(t, uc.VerifySignature(body, sign("wrongsecret", body)))
	assert.False(t, uc.VerifySignature(body, ""))

	// A tampered body invalidates the original signature.
	good := sign("topsecret", body)
	assert.False(t, uc.VerifySignature([]byte(`{"sale_id":"s2"}`), good))
}

func TestVerifySignatureNoSecretConfigured(t *testing.T) {
	uc := usecase.NewPaymentUsecase(nil, nil, "", 100)
	body := []byte(`{}`)
	assert.False(t, uc.VerifySignature(body, sign("", body)))
}

func TestEventIDDeterministic(t *testing.T) {
	a := usecase.EventID(dto.PaymentWebhookPayload{SaleID: "s1", SaleTimestamp: "2024-03-01T10:00:00Z"})
	b := usecase.EventID(dto.PaymentWebhookPayload{SaleID: "s1", SaleTimestamp: "2024-03-01T10:00:00Z"})
	c := usecase.EventID(dto.PaymentWebhookPayload{SaleID: "s1", SaleTimestamp: "2024-03-02T10:00:00Z"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestProcessEventCreditsSale(t *testing.T) {
	licenses := new(MockLicense)
	licenses.On("CreateIfMissing", mock.Anything, "lic-1", model.TierFree).Return(nil)
	licenses.On("AddCredits", mock.Anything, "lic-1", int64(100)).Return(nil)

	idem := new(MockIdempotency)
	idem.On("PutIfAbsent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", true, nil)

	uc := usecase.NewPaymentUsecase(licenses, idem, "secret", 100)

	outcome, err := uc.ProcessEvent(context.Background(), dto.PaymentWebhookPayload{
		SaleID:        "s1",
		SaleTimestamp: "2024-03-01T10:00:00Z",
		LicenseKey:    "lic-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "credited", outcome.Action)
	assert.Equal(t, int64(100), outcome.CreditsGranted)
	assert.False(t, outcome.Replayed)
	licenses.AssertExpectations(t)
}

func TestProcessEventRefundRevokes(t *testing.T) {
	licenses := new(MockLicense)
	licenses.On("SetRevoked", mock.Anything, "lic-1", true).Return(nil)

	idem := new(MockIdempotency)
	idem.On("PutIfAbsent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", true, nil)

	uc := usecase.NewPaymentUsecase(licenses, idem, "secret", 100)

	outcome, err := uc.ProcessEvent(context.Background(), dto.PaymentWebhookPayload{
		SaleID:        "s1",
		SaleTimestamp: "2024-03-01T10:00:00Z",
		LicenseKey:    "lic-1",
		Refunded:      true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "revoked", outcome.Action)
	licenses.AssertNotCalled(t, "AddCredits", mock.Anything, mock.Anything, mock.Anything)
}

// A replayed event must not credit twice: the stored first outcome is
// returned and the ledger is untouched.
func TestProcessEventReplayReturnsStoredOutcome(t *testing.T) {
	licenses := new(MockLicense)

	idem := new(MockIdempotency)
	idem.On("PutIfAbsent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"event_id":"abc","action":"credited","credits_granted":100}`, false, nil)

	uc := usecase.NewPaymentUsecase(licenses, idem, "secret", 100)

	outcome, err := uc.ProcessEvent(context.Background(), dto.PaymentWebhookPayload{
		SaleID:        "s1",
		SaleTimestamp: "2024-03-01T10:00:00Z",
		LicenseKey:    "lic-1",
	})
	assert.NoError(t, err)
	assert.True(t, outcome.Replayed)
	assert.Equal(t, "credited", outcome.Action)
	assert.Equal(t, int64(100), outcome.CreditsGranted)
	licenses.AssertNotCalled(t, "AddCredits", mock.Anything, mock.Anything, mock.Anything)
	licenses.AssertNotCalled(t, "CreateIfMissing", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEventMissingFields(t *testing.T) {
	uc := usecase.NewPaymentUsecase(nil, nil, "secret", 100)

	_, err := uc.ProcessEvent(context.Background(), dto.PaymentWebhookPayload{SaleID: "s1"})
	assert.IsType(t, &model.ValidationError{}, err)

	_, err = uc.ProcessEvent(context.Background(), dto.PaymentWebhookPayload{LicenseKey: "lic-1"})
	assert.IsType(t, &model.ValidationError{}, err)
}
