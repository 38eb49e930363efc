package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"hotel/internal/domain"
)

// BookingOverlapConstraint is the exclusion constraint that keeps two live
// bookings of one room from sharing a calendar day.
const BookingOverlapConstraint = "bookings_no_overlap"

func Connect(dsn string, log *slog.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if IsPostgres(dsn) {
		log.Info("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using sqlite", "dsn", dsn)
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers; a single connection keeps transactions from
	// tripping over SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Room{},
		&domain.Booking{},
		&domain.Activity{},
		&domain.ActivityTimeslotInfo{},
		&domain.ActivitySlot{},
		&domain.ActivityBooking{},
		&domain.Document{},
		&domain.CheckIn{},
		&domain.CheckOut{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}
	stmt := fmt.Sprintf(`
DO $$
BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
    ALTER TABLE bookings ADD CONSTRAINT %[1]s
      EXCLUDE USING gist (room_id WITH =, daterange(start_date, end_date, '[]') WITH &&)
      WHERE (status <> 'CANCELLED');
  END IF;
END $$;`, BookingOverlapConstraint)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add %s: %w", BookingOverlapConstraint, err)
	}
	return nil
}
