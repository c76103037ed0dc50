package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"post-archiver/domain/repository"
)

// RateLimit throttles by license key, falling back to client IP for
// anonymous callers. The limiter is advisory and fails open on store
// errors.
func RateLimit(limiter repository.IRateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := ctx.GetHeader("X-License-Key")
		if key == "" {
			key = ctx.ClientIP()
		}

		allowed, retryAfter, _ := limiter.Allow(ctx.Request.Context(), key)
		if !allowed {
			ctx.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		ctx.Next()
	}
}
