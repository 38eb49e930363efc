package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/obs"
)

func main() {
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("config", "error", err)
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

	rng := rand.New(rand.NewSource(*seedValue))
	sum, err := seed(context.Background(), db, rng, time.Now())
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seed completed",
		"seed", *seedValue,
		"users", sum.Users,
		"rooms", sum.Rooms,
		"activities", sum.Activities,
		"bookings", sum.Bookings,
	)
	logger.Info("test accounts",
		"admin", adminEmail+" / "+adminPassword,
		"guests", "guest1@hotel.at ... / "+guestPassword,
	)
}
