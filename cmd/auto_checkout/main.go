package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/events"
	"hotel/internal/events/kafka"
	"hotel/internal/modules/checkin"
	"hotel/internal/obs"
	"hotel/internal/repository"
)

// One automatic check-out sweep, for running from cron instead of the API's
// built-in scheduler.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("config", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.AppEnv)

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.KafkaEnabled() {
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		if err != nil {
			logger.Warn("kafka unavailable, check-out events disabled", "error", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	svc := checkin.NewService(
		repository.NewBookingRepository(db),
		repository.NewCheckInRepository(db),
		repository.NewRoomRepository(db),
		repository.NewUserRepository(db),
		publisher,
		logger,
	)
	res, err := svc.PerformAutoCheckOut(ctx)
	if err != nil {
		logger.Error("auto check-out failed", "error", err, "checked_out", res.CheckedOut)
		os.Exit(1)
	}
	logger.Info("auto check-out completed", "checked_out", res.CheckedOut, "statuses_updated", res.StatusesUpdated)
}
