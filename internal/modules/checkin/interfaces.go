package checkin

import (
	"context"
	"time"

	"hotel/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListEndingOn(ctx context.Context, day time.Time) ([]domain.Booking, error)
	SyncStatuses(ctx context.Context, today time.Time) (int64, error)
}

type Repository interface {
	CreateCheckIn(ctx context.Context, ci *domain.CheckIn) error
	CreateCheckOut(ctx context.Context, co *domain.CheckOut) error
	IsCheckedIn(ctx context.Context, bookingID, guestID int64) (bool, error)
	IsCheckedOut(ctx context.Context, bookingID, guestID int64) (bool, error)
	PendingCheckOuts(ctx context.Context, bookingID int64) ([]domain.CheckIn, error)
	CountInRoom(ctx context.Context, roomID int64, today time.Time) (int64, error)
	OpenCheckIns(ctx context.Context, guestID int64) ([]domain.CheckIn, error)
	GuestsOfBooking(ctx context.Context, bookingID int64) ([]domain.User, error)
	RemoveGuest(ctx context.Context, bookingID, guestID int64) (int64, error)
}

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}
