package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"hotel/internal/pkg/apperror"
)

var (
	// ErrBookingOverlap is returned when a room already has a live booking
	// touching the requested dates.
	ErrBookingOverlap = errors.New("room already booked for the requested dates")
	// ErrSlotFull is returned when a slot has fewer free seats than requested.
	ErrSlotFull   = errors.New("activity slot has not enough free seats")
	ErrEmailTaken = errors.New("email already registered")
	// ErrInUse is returned when a row cannot be deleted because others still
	// reference it.
	ErrInUse = errors.New("record is still referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
)

func notFound(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, apperror.ErrNotFound)
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
