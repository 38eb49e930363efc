package payment

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"hotel/internal/domain"
	"hotel/internal/pkg/apperror"
)

type Service struct {
	bookings     BookingStore
	activities   ActivityBookingStore
	provider     Provider
	redirectBase string
	currency     string
	log          *slog.Logger
}

func NewService(bookings BookingStore, activities ActivityBookingStore, provider Provider, redirectBase, currency string, log *slog.Logger) *Service {
	return &Service{
		bookings:     bookings,
		activities:   activities,
		provider:     provider,
		redirectBase: redirectBase,
		currency:     currency,
		log:          log,
	}
}

// CreateRoomCheckout opens a checkout session for the full amount of a room
// booking owned by userID.
func (s *Service) CreateRoomCheckout(ctx context.Context, userID, bookingID int64) (*CheckoutSession, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, apperror.Conflict("Booking is cancelled")
	}
	if b.Paid {
		return nil, apperror.Conflict("Payment already succeeded")
	}
	if err := s.rejectSettled(ctx, b.PaymentSessionID); err != nil {
		return nil, err
	}

	charges := b.Charges()
	roomName := ""
	if b.Room != nil {
		roomName = b.Room.Name
	}
	id := strconv.FormatInt(b.ID, 10)
	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		AmountCents: toCents(charges.Total),
		Currency:    s.currency,
		Name:        "Payment for Room " + roomName,
		Description: fmt.Sprintf("Room booking for %d nights", charges.Nights),
		SuccessURL:  s.redirectBase + "/bookings/my-bookings/success/" + id,
		CancelURL:   s.redirectBase + "/bookings/my-bookings/cancel/" + id,
		Metadata:    map[string]string{"bookingId": id},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout for booking %d: %w", b.ID, err)
	}

	b.PaymentSessionID = session.ID
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("checkout session created", "booking_id", b.ID, "session_id", session.ID)
	return &CheckoutSession{URL: session.URL, SessionID: session.ID}, nil
}

func (s *Service) CreateActivityCheckout(ctx context.Context, userID, activityBookingID int64) (*CheckoutSession, error) {
	ab, err := s.activities.GetBooking(ctx, activityBookingID)
	if err != nil {
		return nil, err
	}
	if ab.UserID != userID {
		return nil, ErrForbidden
	}
	if ab.Paid {
		return nil, apperror.Conflict("Payment already succeeded")
	}
	if err := s.rejectSettled(ctx, ab.PaymentSessionID); err != nil {
		return nil, err
	}

	name := ""
	if ab.Activity != nil {
		name = ab.Activity.Name
	}
	id := strconv.FormatInt(ab.ID, 10)
	session, err := s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		AmountCents: toCents(ab.TotalPrice),
		Currency:    s.currency,
		Name:        "Payment for Activity " + name,
		Description: fmt.Sprintf("Activity booking for %d participants", ab.Participants),
		SuccessURL:  s.redirectBase + "/bookings/my-bookings/activity/success/" + id,
		CancelURL:   s.redirectBase + "/bookings/my-bookings/activity/cancel/" + id,
		Metadata:    map[string]string{"bookingId": id},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout for activity booking %d: %w", ab.ID, err)
	}

	ab.PaymentSessionID = session.ID
	if err := s.activities.SaveBooking(ctx, ab); err != nil {
		return nil, err
	}
	s.log.Info("checkout session created", "activity_booking_id", ab.ID, "session_id", session.ID)
	return &CheckoutSession{URL: session.URL, SessionID: session.ID}, nil
}

// rejectSettled refuses a new session while an earlier one has been paid or
// is still processing. Lookup failures are logged and do not block.
func (s *Service) rejectSettled(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	state, err := s.provider.SessionPayment(ctx, sessionID)
	if err != nil {
		s.log.Warn("previous checkout session lookup failed", "session_id", sessionID, "error", err)
		return nil
	}
	switch state.Status {
	case IntentSucceeded:
		return apperror.Conflict("Payment already succeeded")
	case IntentProcessing:
		return apperror.Conflict("Payment is still processing")
	}
	return nil
}

// Refund pays back a room booking through the provider.
func (s *Service) Refund(ctx context.Context, b *domain.Booking) error {
	if b.PaymentIntentID == "" {
		return apperror.Conflict("No payment found for booking")
	}
	if err := s.provider.Refund(ctx, b.PaymentIntentID); err != nil {
		s.log.Error("refund failed", "booking_id", b.ID, "error", err)
		return apperror.Conflict("Refund failed", err.Error())
	}
	s.log.Info("refund issued", "booking_id", b.ID)
	return nil
}

// SessionPayment exposes the provider lookup to the booking modules.
func (s *Service) SessionPayment(ctx context.Context, sessionID string) (*PaymentState, error) {
	return s.provider.SessionPayment(ctx, sessionID)
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
