package server

import (
	"net/http"
	"time"

	httpHandler "post-archiver/interfaces/http"
	"post-archiver/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	archiveHandler httpHandler.IArchiveHandler,
	shareHandler httpHandler.IShareHandler,
	webhookHandler httpHandler.IWebhookHandler,
	rateLimit gin.HandlerFunc,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-License-Key", "X-Share-Password"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/platforms", archiveHandler.GetPlatforms)

	// Webhooks carry their own authentication (shared secret / HMAC) and
	// stay outside the rate limiter: redelivery storms must not be dropped.
	router.POST("/webhook/provider", webhookHandler.ProviderWebhook)
	router.POST("/webhook/payments", webhookHandler.PaymentWebhook)

	public := router.Group("/")
	public.Use(middleware.LicenseAuth())
	if rateLimit != nil {
		public.Use(rateLimit)
	}
	{
		public.POST("/archive", archiveHandler.SubmitArchive)
		public.GET("/archive/:jobId", archiveHandler.GetJobStatus)
		public.POST("/share", shareHandler.CreateShare)
		public.GET("/share/:id", shareHandler.GetShare)
		public.DELETE("/share/:id", shareHandler.DeleteShare)
	}

	api := router.Group("api")
	api.Use(middleware.AdminAuth(secretKey))
	{
		api.POST("/share/:id/migrate", shareHandler.MigrateShare)
		api.POST("/share/cleanup", shareHandler.CleanupShares)
	}

	return router
}
