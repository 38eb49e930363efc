package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/events"
	"hotel/internal/events/kafka"
	"hotel/internal/modules/checkin"
	"hotel/internal/modules/document"
	"hotel/internal/modules/key"
	"hotel/internal/modules/notification"
	"hotel/internal/modules/payment"
	"hotel/internal/obs"
	"hotel/internal/repository"
	"hotel/internal/server"
	"hotel/internal/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("database migrate failed", "error", err)
		os.Exit(1)
	}

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	documents, err := newDocumentStore(cfg, db, logger)
	if err != nil {
		logger.Error("document store init failed", "error", err)
		os.Exit(1)
	}

	mailer, err := newMailer(cfg, logger)
	if err != nil {
		logger.Error("mailer init failed", "error", err)
		os.Exit(1)
	}

	var provider payment.Provider = payment.Disabled{}
	if cfg.PaymentEnabled() {
		provider = payment.NewStripeClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey, nil, logger)
	} else {
		logger.Warn("payment provider not configured, online payment disabled")
	}

	var locks key.LockClient = key.Disabled{}
	if cfg.LockEnabled() {
		locks = key.NewNukiClient(cfg.LockAPIURL, cfg.LockAPIToken, nil)
	}

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	app := server.New(cfg, db, server.External{
		Publisher: publisher,
		Documents: documents,
		Mailer:    mailer,
		Payments:  provider,
		Locks:     locks,
	}, logger)

	go checkin.NewScheduler(app.CheckIns, cfg.AutoCheckoutInterval, logger).Start(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func newPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if !cfg.KafkaEnabled() {
		return events.Noop{}
	}
	p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
	if err != nil {
		logger.Warn("kafka unavailable, booking events disabled", "error", err)
		return events.Noop{}
	}
	return p
}

func newDocumentStore(cfg *config.Config, db *gorm.DB, logger *slog.Logger) (document.Store, error) {
	if !cfg.S3Enabled() {
		return repository.NewDocumentRepository(db), nil
	}
	return s3.NewDocumentStore(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
}

func newMailer(cfg *config.Config, logger *slog.Logger) (notification.Mailer, error) {
	if !cfg.MailEnabled() {
		return notification.LogMailer{Logger: logger}, nil
	}
	return notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}
