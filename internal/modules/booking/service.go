package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"hotel/internal/domain"
	"hotel/internal/events"
	"hotel/internal/modules/notification"
	"hotel/internal/pkg/apperror"
	"hotel/internal/pkg/keylock"
	"hotel/internal/repository"
)

const maxPageSize = 100

type Service struct {
	bookings  BookingRepository
	rooms     RoomReader
	generator DocumentGenerator
	documents DocumentStore
	notifier  Notifier
	payments  Payments
	events    events.Publisher
	locks     *keylock.Map
	log       *slog.Logger
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	rooms RoomReader,
	generator DocumentGenerator,
	documents DocumentStore,
	notifier Notifier,
	payments Payments,
	publisher events.Publisher,
	log *slog.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		rooms:     rooms,
		generator: generator,
		documents: documents,
		notifier:  notifier,
		payments:  payments,
		events:    publisher,
		locks:     keylock.New(),
		log:       log,
		now:       time.Now,
	}
}

// CreateBooking validates the request, reserves the room and delivers the
// confirmation and invoice. The booking is persisted before any document is
// produced; delivery failures are returned wrapped in ErrDocumentDelivery
// together with the stored booking.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*BookingDetails, error) {
	now := s.now()
	start, end, errs := validateCreate(ctx, req, now)
	if err := apperror.Validation(errs); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.RoomID)
	defer unlock()

	available, err := s.bookings.IsRoomAvailable(ctx, req.RoomID, start, end)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !available {
		return nil, roomTaken()
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		RoomID:        room.ID,
		UserID:        userID,
		StartDate:     start,
		EndDate:       end,
		Paid:          req.PaymentMethod == domain.PayInAdvance,
		BookingNumber: domain.NewBookingNumber(),
		BookingDate:   domain.DateOf(now),
	}
	b.Refresh(now, room.Price)

	if err := s.bookings.CreateIfAvailable(ctx, b); err != nil {
		if errors.Is(err, repository.ErrBookingOverlap) {
			return nil, roomTaken()
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.log.Info("booking created", "booking_id", b.ID, "room_id", b.RoomID, "user_id", userID)

	stored, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.BookingCreated, stored)

	details := toDetails(stored)
	if err := s.deliverConfirmation(ctx, stored); err != nil {
		s.log.Error("booking documents not delivered", "booking_id", stored.ID, "error", err)
		return &details, fmt.Errorf("%w: %v", apperror.ErrDocumentDelivery, err)
	}
	return &details, nil
}

func (s *Service) deliverConfirmation(ctx context.Context, b *domain.Booking) error {
	confirmation, err := s.generator.Confirmation(b)
	if err != nil {
		return err
	}
	invoice, err := s.generator.Invoice(b)
	if err != nil {
		return err
	}
	if err := s.documents.Store(ctx, b.ID, domain.DocBookingConfirmation, confirmation); err != nil {
		return err
	}
	if err := s.documents.Store(ctx, b.ID, domain.DocInvoice, invoice); err != nil {
		return err
	}
	return s.notifier.SendBookingConfirmation(ctx, b, []notification.Attachment{
		{Name: string(domain.DocBookingConfirmation), Content: confirmation},
		{Name: string(domain.DocInvoice), Content: invoice},
	})
}

func (s *Service) GetBooking(ctx context.Context, userID int64, role domain.UserRole, id int64) (*BookingDetails, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !role.IsEmployee() && b.UserID != userID {
		return nil, ErrForbidden
	}
	details := toDetails(b)
	return &details, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]BookingDetails, error) {
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]BookingDetails, 0, len(list))
	for i := range list {
		if err := s.refresh(ctx, &list[i]); err != nil {
			return nil, err
		}
		out = append(out, toDetails(&list[i]))
	}
	return out, nil
}

// ListPaged is the employee view over all bookings. Page is zero based.
func (s *Service) ListPaged(ctx context.Context, page, size int) (*PagedBookings, error) {
	var errs []string
	if page < 0 {
		errs = append(errs, "Page must not be negative.")
	}
	if size <= 0 || size > maxPageSize {
		errs = append(errs, fmt.Sprintf("Size must be between 1 and %d.", maxPageSize))
	}
	if err := apperror.Validation(errs); err != nil {
		return nil, err
	}

	if _, err := s.bookings.SyncStatuses(ctx, s.now()); err != nil {
		return nil, fmt.Errorf("sync booking statuses: %w", err)
	}
	list, total, err := s.bookings.ListPaged(ctx, page, size)
	if err != nil {
		return nil, err
	}
	out := &PagedBookings{Items: make([]BookingDetails, 0, len(list)), Page: page, Size: size, Total: total}
	for i := range list {
		out.Items = append(out.Items, toDetails(&list[i]))
	}
	return out, nil
}

// CancelBooking cancels a stay, refunds it when it was paid online and sends
// the cancellation receipt. A failed refund is reported as a conflict after
// the cancellation has been committed.
func (s *Service) CancelBooking(ctx context.Context, userID int64, role domain.UserRole, id int64) (*BookingDetails, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !role.IsEmployee() && b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status == domain.BookingCancelled {
		return nil, apperror.Conflict("Booking is already cancelled")
	}

	b.Cancel(s.now())
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("cancel booking %d: %w", id, err)
	}
	s.log.Info("booking cancelled", "booking_id", b.ID, "by_user", userID)
	s.publish(ctx, events.BookingCancelled, b)

	var refundErr error
	if b.Paid && b.PaymentIntentID != "" {
		refundErr = s.payments.Refund(ctx, b)
	}

	details := toDetails(b)
	deliveryErr := s.deliverCancellation(ctx, b)
	if deliveryErr != nil {
		s.log.Error("cancellation receipt not delivered", "booking_id", b.ID, "error", deliveryErr)
	}

	switch {
	case refundErr != nil:
		return &details, refundErr
	case deliveryErr != nil:
		return &details, fmt.Errorf("%w: %v", apperror.ErrDocumentDelivery, deliveryErr)
	}
	return &details, nil
}

func (s *Service) deliverCancellation(ctx context.Context, b *domain.Booking) error {
	receipt, err := s.generator.CancellationReceipt(b)
	if err != nil {
		return err
	}
	if err := s.documents.Store(ctx, b.ID, domain.DocCancellationReceipt, receipt); err != nil {
		return err
	}
	return s.notifier.SendCancellation(ctx, b, receipt)
}

// MarkAsPaidManually records a cash payment. The payment flag does not
// change the status; the status is only brought up to date with the calendar.
func (s *Service) MarkAsPaidManually(ctx context.Context, id int64) (*BookingDetails, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Paid {
		return nil, apperror.Conflict("Booking is already marked as paid.")
	}
	b.Paid = true
	if err := s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("mark booking %d paid: %w", id, err)
	}
	s.log.Info("booking marked as paid", "booking_id", id)
	details := toDetails(b)
	return &details, nil
}

// SyncPayment asks the payment provider whether the checkout session of the
// booking went through and records the payment when it did.
func (s *Service) SyncPayment(ctx context.Context, userID int64, id int64) (bool, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	if b.UserID != userID {
		return false, ErrForbidden
	}
	if b.Paid {
		return true, nil
	}
	if b.PaymentSessionID == "" {
		return false, nil
	}

	state, err := s.payments.SessionPayment(ctx, b.PaymentSessionID)
	if err != nil {
		return false, fmt.Errorf("payment status of booking %d: %w", id, err)
	}
	if !state.Succeeded() {
		return false, nil
	}

	b.Paid = true
	b.PaymentIntentID = state.IntentID
	if err := s.bookings.Save(ctx, b); err != nil {
		return false, err
	}
	s.log.Info("booking payment confirmed", "booking_id", id)
	return true, nil
}

// load fetches a booking and brings its status up to date.
func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) refresh(ctx context.Context, b *domain.Booking) error {
	status := b.Status
	price := 0.0
	if b.Room != nil {
		price = b.Room.Price
	}
	b.Refresh(s.now(), price)
	if b.Status == status {
		return nil
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return fmt.Errorf("refresh booking %d: %w", b.ID, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, b *domain.Booking) {
	e := events.New(eventType, strconv.FormatInt(b.ID, 10), toDetails(b), s.now())
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("booking event not published", "type", eventType, "booking_id", b.ID, "error", err)
	}
}

func roomTaken() error {
	return apperror.Conflict("Room is not available for the selected dates")
}
