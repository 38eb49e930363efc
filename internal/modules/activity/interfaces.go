package activity

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/modules/payment"
	"hotel/internal/repository"
)

type Repository interface {
	CreateWithSlots(ctx context.Context, a *domain.Activity, slots []domain.ActivitySlot) error
	ReplaceSchedule(ctx context.Context, a *domain.Activity, slots []domain.ActivitySlot, today time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	List(ctx context.Context, query string) ([]domain.Activity, error)
	Delete(ctx context.Context, id int64) error
	CountBookings(ctx context.Context, activityID int64) (int64, error)
	ListSlots(ctx context.Context, activityID int64, f repository.SlotFilter) ([]domain.ActivitySlot, error)
	GetSlot(ctx context.Context, id int64) (*domain.ActivitySlot, error)
	BookSlot(ctx context.Context, b *domain.ActivityBooking) error
	ReleaseAndDelete(ctx context.Context, b *domain.ActivityBooking) error
	GetBooking(ctx context.Context, id int64) (*domain.ActivityBooking, error)
	ListBookingsByUser(ctx context.Context, userID int64) ([]domain.ActivityBooking, error)
	SaveBooking(ctx context.Context, b *domain.ActivityBooking) error
}

type PaymentChecker interface {
	SessionPayment(ctx context.Context, sessionID string) (*payment.PaymentState, error)
}
