package http

import (
	"errors"
	"net/http"
	"strconv"

	"post-archiver/domain/model"
	"post-archiver/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses. Anything outside
// the taxonomy is a 500 with a generic body; the detail stays in logs.
func respondError(ctx *gin.Context, err error) {
	var (
		validation  *model.ValidationError
		unsupported *model.UnsupportedPlatformError
		auth        *model.AuthenticationError
		credits     *model.InsufficientCreditsError
		notFound    *model.NotFoundError
		rateLimited *model.RateLimitError
		provider    *model.ProviderError
		emptySnap   *model.EmptySnapshotError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &unsupported):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &auth):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &credits):
		ctx.JSON(http.StatusPaymentRequired, gin.H{
			"error":     err.Error(),
			"required":  credits.Required,
			"available": credits.Available,
		})
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &rateLimited):
		ctx.Header("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.As(err, &provider), errors.As(err, &emptySnap):
		logger.GetLogger().WithField("error", err).Error("Upstream provider failure")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.GetLogger().WithField("error", err).Error("Unhandled error")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
