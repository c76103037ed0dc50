package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
	"post-archiver/infrastructure/cache"
	"post-archiver/infrastructure/clients/brightdata"
	"post-archiver/infrastructure/configuration"
	"post-archiver/infrastructure/logger"
	"post-archiver/infrastructure/objectstore"
	"post-archiver/infrastructure/persistence"
	"post-archiver/infrastructure/pubsub"
	"post-archiver/infrastructure/servicebus"
	"post-archiver/infrastructure/vault"
	httpHandler "post-archiver/interfaces/http"
	"post-archiver/interfaces/middleware"
	"post-archiver/server"
	"post-archiver/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	sqlDb, isMssql, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
	}

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without dead letter persistence")
		mongoDb = nil
	} else {
		logger.GetLogger().Info("MongoDB connected successfully")
	}

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Redis is required and unavailable")
		os.Exit(1)
	}
	logger.GetLogger().Info("Redis client initialized successfully.")

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Google Pub/Sub not available - continuing without it")
		pubSubClient = nil
	}
	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without it")
		azServiceBusClient = nil
	}

	// Repository wiring
	jobTTL := time.Duration(configuration.C.Jobs.TTLHours) * time.Hour
	jobStore := cache.NewJobStore(redisClient, jobTTL)
	correlationStore := cache.NewCorrelationStore(redisClient, jobTTL)
	shareHotStore := cache.NewShareHotStore(redisClient)
	idempotencyStore := cache.NewIdempotencyStore(redisClient)
	rateLimiter := cache.NewFixedWindowLimiter(
		redisClient,
		configuration.C.RateLimit.Limit,
		time.Duration(configuration.C.RateLimit.WindowSeconds)*time.Second,
	)

	var licenseRepository repository.ILicense
	if sqlDb != nil {
		if isMssql {
			if err := persistence.EnsureLicenseSchemaMSSQL(sqlDb); err != nil {
				logger.GetLogger().WithField("error", err).Error("Failed ensuring license schema")
			}
			licenseRepository = persistence.NewLicenseRepositoryMssql(sqlDb)
		} else {
			if err := persistence.EnsureLicenseSchema(sqlDb); err != nil {
				logger.GetLogger().WithField("error", err).Error("Failed ensuring license schema")
			}
			licenseRepository = persistence.NewLicenseRepository(sqlDb)
		}
	} else {
		logger.GetLogger().Warn("SQL database not available; license enforcement disabled")
	}

	deadLetters := persistence.NewDeadLetterRepository(mongoDb, configuration.C.Database.Mongo.Name)

	var coldStore repository.IShareColdStore
	if configuration.C.ColdStore.Bucket != "" {
		s3Store, err := objectstore.NewS3ShareStore(ctx, configuration.C.ColdStore)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Cold store not available - pro shares stay hot-tier only")
		} else {
			coldStore = s3Store
			logger.GetLogger().WithField("bucket", configuration.C.ColdStore.Bucket).Info("Cold store initialized")
		}
	}

	var publishers []repository.IEventPublisher
	if pubSubClient != nil {
		publishers = append(publishers, pubsub.NewArchiveEventPublisher(pubSubClient, configuration.C.Pubsub.Topic))
	}
	if azServiceBusClient != nil {
		publishers = append(publishers, servicebus.NewArchiveEventPublisher(azServiceBusClient, configuration.C.ServiceBus.Queue))
	}

	datasetIDs := make(map[model.Platform]string, len(configuration.C.Provider.DatasetIDs))
	for p, id := range configuration.C.Provider.DatasetIDs {
		datasetIDs[model.Platform(p)] = id
	}
	providerClient := brightdata.NewClient(brightdata.Config{
		BaseURL:       configuration.C.Provider.BaseURL,
		APIKey:        configuration.C.Provider.APIKey,
		WebhookSecret: configuration.C.Provider.WebhookSecret,
		DatasetIDs:    datasetIDs,
	})

	webhookPlatforms := make(map[model.Platform]bool, len(configuration.C.Provider.WebhookPlatforms))
	for _, p := range configuration.C.Provider.WebhookPlatforms {
		webhookPlatforms[model.Platform(p)] = true
	}

	var vaultWriter repository.IVaultWriter
	if configuration.C.Vault.Dir != "" {
		vaultWriter = vault.NewFileVaultWriter(configuration.C.Vault.Dir)
		logger.GetLogger().WithField("dir", configuration.C.Vault.Dir).Info("Vault writer enabled")
	}

	archiveUsecase := usecase.NewArchiveUsecase(
		jobStore,
		correlationStore,
		providerClient,
		licenseRepository,
		deadLetters,
		publishers,
		nil, // analyzer collaborator is wired by deployments that run one
		vaultWriter,
		usecase.ArchiveConfig{
			WebhookPlatforms: webhookPlatforms,
			PollInterval:     time.Duration(configuration.C.Provider.PollIntervalSeconds) * time.Second,
			PollTimeout:      time.Duration(configuration.C.Provider.PollTimeoutSeconds) * time.Second,
			PublicBaseURL:    configuration.C.App.PublicBaseURL,
			CostBase:         configuration.C.Credits.Base,
			CostAI:           configuration.C.Credits.AISurcharge,
			CostDeepResearch: configuration.C.Credits.DeepResearchSurcharge,
		},
	)
	shareUsecase := usecase.NewShareUsecase(shareHotStore, coldStore)
	paymentUsecase := usecase.NewPaymentUsecase(
		licenseRepository,
		idempotencyStore,
		configuration.C.Payments.WebhookSecret,
		configuration.C.Payments.SaleCredits,
	)

	platforms := make([]string, 0, len(model.Platforms))
	for _, p := range model.Platforms {
		platforms = append(platforms, string(p))
	}
	archiveHandler := httpHandler.NewArchiveHandler(archiveUsecase, platforms)
	shareHandler := httpHandler.NewShareHandler(shareUsecase)
	webhookHandler := httpHandler.NewWebhookHandler(archiveUsecase, paymentUsecase, configuration.C.Provider.WebhookSecret)

	router := server.InitiateRouter(
		archiveHandler,
		shareHandler,
		webhookHandler,
		middleware.RateLimit(rateLimiter),
		app.SecretKey,
	)

	// Background expired-share sweeper
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				sweepCtx, cancelSweep := context.WithTimeout(ctx, 5*time.Minute)
				if _, err := shareUsecase.CleanupExpired(sweepCtx); err != nil {
					logger.GetLogger().WithField("error", err).Warn("Expired share sweep failed")
				}
				cancelSweep()
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens the credit-ledger database. Production and
// DB_VENDOR=mssql use Azure SQL; everything else uses PostgreSQL.
func InitiateDatabase() (*sql.DB, bool, error) {
	env := os.Getenv("ENV")
	if v := os.Getenv("DB_VENDOR"); v == "mssql" || env == "production" || env == "prod" {
		mssql, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, true, err
		}
		return mssql, true, nil
	}

	postgres, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		return nil, false, err
	}
	return postgres, false, nil
}
