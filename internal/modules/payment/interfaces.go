package payment

import (
	"context"

	"hotel/internal/domain"
)

// Provider is the payment service provider. StripeClient and Disabled
// implement it.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	SessionPayment(ctx context.Context, sessionID string) (*PaymentState, error)
	Refund(ctx context.Context, intentID string) error
}

type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Save(ctx context.Context, b *domain.Booking) error
}

type ActivityBookingStore interface {
	GetBooking(ctx context.Context, id int64) (*domain.ActivityBooking, error)
	SaveBooking(ctx context.Context, b *domain.ActivityBooking) error
}
