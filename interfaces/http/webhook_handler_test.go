package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"post-archiver/domain/dto"
	"post-archiver/domain/model"
	httpHandler "post-archiver/interfaces/http"
	"post-archiver/server"
)

const providerSecret = "s3cret"

type MockArchiveUsecase struct {
	mock.Mock
}

func (m *MockArchiveUsecase) Submit(ctx context.Context, req dto.ArchiveRequest) (*dto.ArchiveAccepted, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ArchiveAccepted), args.Error(1)
}

func (m *MockArchiveUsecase) GetStatus(ctx context.Context, jobID string) (*dto.JobStatusResponse, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.JobStatusResponse), args.Error(1)
}

func (m *MockArchiveUsecase) CompleteFromWebhook(ctx context.Context, snapshotID, status, upstreamErr string) error {
	args := m.Called(ctx, snapshotID, status, upstreamErr)
	return args.Error(0)
}

type MockPaymentUsecase struct {
	mock.Mock
}

func (m *MockPaymentUsecase) VerifySignature(body []byte, signature string) bool {
	args := m.Called(body, signature)
	return args.Bool(0)
}

func (m *MockPaymentUsecase) ProcessEvent(ctx context.Context, payload dto.PaymentWebhookPayload) (*dto.PaymentOutcome, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaymentOutcome), args.Error(1)
}

type MockShareUsecase struct {
	mock.Mock
}

func (m *MockShareUsecase) Create(ctx context.Context, req dto.ShareCreateRequest) (*model.ShareRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareRecord), args.Error(1)
}

func (m *MockShareUsecase) Get(ctx context.Context, id, password string) (*model.ShareRecord, error) {
	args := m.Called(ctx, id, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareRecord), args.Error(1)
}

func (m *MockShareUsecase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShareUsecase) MigrateTier(ctx context.Context, id string, from, to model.ShareTier) (*model.ShareRecord, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareRecord), args.Error(1)
}

func (m *MockShareUsecase) CleanupExpired(ctx context.Context) (*dto.CleanupReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CleanupReport), args.Error(1)
}

func newTestRouter(archive *MockArchiveUsecase, payment *MockPaymentUsecase, share *MockShareUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return server.InitiateRouter(
		httpHandler.NewArchiveHandler(archive, []string{"x"}),
		httpHandler.NewShareHandler(share),
		httpHandler.NewWebhookHandler(archive, payment, providerSecret),
		nil,
		"admin-secret",
	)
}

func TestProviderWebhookWrongSecret(t *testing.T) {
	archive := new(MockArchiveUsecase)
	router := newTestRouter(archive, new(MockPaymentUsecase), new(MockShareUsecase))

	req := httptest.NewRequest(http.MethodPost, "/webhook/provider", strings.NewReader(`{"snapshot_id":"snap-1","status":"ready"}`))
	req.Header.Set("Authorization", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	archive.AssertNotCalled(t, "CompleteFromWebhook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProviderWebhookEmptySnapshotAck(t *testing.T) {
	archive := new(MockArchiveUsecase)
	router := newTestRouter(archive, new(MockPaymentUsecase), new(MockShareUsecase))

	req := httptest.NewRequest(http.MethodPost, "/webhook/provider", strings.NewReader(`{}`))
	req.Header.Set("Authorization", providerSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	archive.AssertNotCalled(t, "CompleteFromWebhook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// An unknown snapshot id, including a correlation already consumed by an
// earlier delivery, reads as 404.
func TestProviderWebhookUnknownSnapshotNotFound(t *testing.T) {
	archive := new(MockArchiveUsecase)
	archive.On("CompleteFromWebhook", mock.Anything, "snap-gone", "ready", "").
		Return(&model.NotFoundError{Resource: "snapshot", ID: "snap-gone"})
	router := newTestRouter(archive, new(MockPaymentUsecase), new(MockShareUsecase))

	req := httptest.NewRequest(http.MethodPost, "/webhook/provider", strings.NewReader(`{"snapshot_id":"snap-gone","status":"ready"}`))
	req.Header.Set("Authorization", providerSecret)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "snapshot not found")
	archive.AssertExpectations(t)
}

func TestPaymentsWebhookRouteRejectsBadSignature(t *testing.T) {
	payment := new(MockPaymentUsecase)
	payment.On("VerifySignature", mock.Anything, "bad").Return(false)
	router := newTestRouter(new(MockArchiveUsecase), payment, new(MockShareUsecase))

	req := httptest.NewRequest(http.MethodPost, "/webhook/payments", strings.NewReader(`{"sale_id":"s1"}`))
	req.Header.Set("X-Signature", "bad")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	payment.AssertExpectations(t)
}

// Provider failures keep their upstream detail in the 502 body.
func TestJobStatusProviderErrorKeepsUpstreamDetail(t *testing.T) {
	archive := new(MockArchiveUsecase)
	archive.On("GetStatus", mock.Anything, "j-1").
		Return(nil, &model.ProviderError{Op: "collect", Status: 403, Body: "quota exceeded"})
	router := newTestRouter(archive, new(MockPaymentUsecase), new(MockShareUsecase))

	req := httptest.NewRequest(http.MethodGet, "/archive/j-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
	archive.AssertExpectations(t)
}
