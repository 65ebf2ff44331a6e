package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/scholarship-portal-api/internal/config"
	"github.com/noah-isme/scholarship-portal-api/internal/database"
	"github.com/noah-isme/scholarship-portal-api/internal/handler"
	"github.com/noah-isme/scholarship-portal-api/internal/middleware"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
	"github.com/noah-isme/scholarship-portal-api/internal/router"
	"github.com/noah-isme/scholarship-portal-api/internal/service"
	cloud "github.com/noah-isme/scholarship-portal-api/pkg/cloudinary"
	"github.com/noah-isme/scholarship-portal-api/pkg/mailer"
	"github.com/noah-isme/scholarship-portal-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	settingsRepo := repository.NewSettingsRepository(db)
	notificationSettings := cfg.Notifications
	if persisted, err := settingsRepo.All(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("failed to load system settings, using environment values")
	} else {
		notificationSettings = notificationSettings.WithOverrides(persisted)
	}

	transport, err := newMailTransport(cfg, notificationSettings, logger)
	if err != nil {
		log.Fatalf("failed to configure mail transport: %v", err)
	}

	fileStore, inspector, err := newFileStorage(cfg, logger)
	if err != nil {
		log.Fatalf("failed to configure document storage: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	applicationRepo := repository.NewApplicationRepository(db)
	scholarshipRepo := repository.NewScholarshipRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	emitter := service.NewActivityEmitter(activityService, 256, 5*time.Second, logger)
	go func() {
		for err := range emitter.Errors() {
			logger.Warn().Err(err).Msg("activity log entry dropped")
		}
	}()

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	appCtx, cancelApp := context.WithCancel(context.Background())
	notificationService.Start(appCtx)

	dispatcher := service.NewNotificationDispatcher(notificationService, emailLogRepo, studentRepo, transport, notificationSettings, cfg.Mail.Timeout, logger)
	queue := service.NewDispatchQueue(dispatcher, cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.Mail.Timeout, logger)

	reviewService := service.NewApplicationReviewService(applicationRepo, validate, queue, emitter, inspector, cfg.RequestTimeout, logger)
	bulkService := service.NewBulkReviewService(applicationRepo, validate, queue, emitter, cfg.RequestTimeout, logger)
	uploader := service.NewDocumentUploader(fileStore, cfg.UploadMaxMB, logger)
	applicationService := service.NewApplicationService(applicationRepo, scholarshipRepo, studentRepo, uploader, inspector, queue, validate, logger)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, redisClient, cfg.ScholarshipCacheTTL, logger)
	detailService := service.NewNotificationDetailService(notificationRepo, applicationRepo, logger)
	emailLogService := service.NewEmailLogService(emailLogRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB*8 + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ScholarshipHandler:      handler.NewScholarshipHandler(scholarshipService, logger),
		ApplicationHandler:      handler.NewApplicationHandler(applicationService, logger),
		NotificationHandler:     handler.NewNotificationHandler(notificationService, detailService, logger, 30*time.Second),
		AdminApplicationHandler: handler.NewAdminApplicationHandler(reviewService, bulkService, logger),
		AdminActivityHandler:    handler.NewAdminActivityHandler(activityService, logger),
		EmailLogHandler:         handler.NewEmailLogHandler(emailLogService, logger),
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)

	cancelApp()
	queue.Close()
	emitter.Close()
	logger.Info().Msg("background workers drained")
}

func newMailTransport(cfg config.Config, settings config.NotificationSettings, logger zerolog.Logger) (service.MailTransport, error) {
	switch cfg.Mail.Provider {
	case "smtp":
		return mailer.NewSMTPTransport(mailer.SMTPConfig{
			Host:          cfg.Mail.SMTPHost,
			Port:          cfg.Mail.SMTPPort,
			Username:      cfg.Mail.SMTPUsername,
			Password:      cfg.Mail.SMTPPassword,
			FromAddress:   settings.FromAddress,
			FromName:      settings.FromName,
			SkipTLSVerify: cfg.Mail.SMTPSkipVerify,
			Timeout:       cfg.Mail.Timeout,
		})
	case "sendgrid":
		return mailer.NewSendGridTransport(cfg.Mail.SendGridAPIKey, settings.FromName, settings.FromAddress)
	default:
		return mailer.NewLogTransport(logger), nil
	}
}

func newFileStorage(cfg config.Config, logger zerolog.Logger) (service.FileStorage, service.FileInspector, error) {
	if cfg.StorageDriver == "cloudinary" {
		store, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}

	store, err := storage.NewLocal(cfg.StorageLocalDir, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
