package http

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"post-archiver/domain/dto"
	"post-archiver/infrastructure/logger"
	"post-archiver/usecase"

	"github.com/gin-gonic/gin"
)

type IWebhookHandler interface {
	ProviderWebhook(ctx *gin.Context)
	PaymentWebhook(ctx *gin.Context)
}

type WebhookHandler struct {
	archiveUsecase usecase.IArchiveUsecase
	paymentUsecase usecase.IPaymentUsecase
	providerSecret string
}

func NewWebhookHandler(archiveUC usecase.IArchiveUsecase, paymentUC usecase.IPaymentUsecase, providerSecret string) IWebhookHandler {
	return &WebhookHandler{
		archiveUsecase: archiveUC,
		paymentUsecase: paymentUC,
		providerSecret: providerSecret,
	}
}

// ProviderWebhook receives the provider's completion callback. The
// shared secret travels in the Authorization header verbatim, as
// configured on the trigger request.
func (h *WebhookHandler) ProviderWebhook(ctx *gin.Context) {
	got := ctx.GetHeader("Authorization")
	if h.providerSecret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.providerSecret)) != 1 {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var payload dto.ProviderWebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// The provider probes the endpoint with an empty payload before
	// accepting the trigger configuration. Acknowledge and move on.
	if payload.SnapshotID == "" {
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	log := logger.GetLogger().WithField("snapshotId", payload.SnapshotID)
	if err := h.archiveUsecase.CompleteFromWebhook(ctx.Request.Context(), payload.SnapshotID, payload.Status, payload.Error); err != nil {
		// Unknown snapshot ids include already-consumed correlations from
		// webhook retries; both read as 404.
		log.WithField("error", err).Warn("Webhook snapshot not correlated to a job")
		respondError(ctx, err)
		return
	}
	log.Info("Webhook completion processed")
	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

// PaymentWebhook verifies the HMAC signature over the raw body, then
// applies the event idempotently.
func (h *WebhookHandler) PaymentWebhook(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	signature := ctx.GetHeader("X-Signature")
	if !h.paymentUsecase.VerifySignature(body, signature) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var payload dto.PaymentWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	outcome, err := h.paymentUsecase.ProcessEvent(ctx.Request.Context(), payload)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, outcome)
}
