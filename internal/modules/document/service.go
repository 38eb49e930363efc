package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hotel/internal/domain"
	"hotel/internal/pkg/apperror"
)

type Service struct {
	store    Store
	bookings BookingReader
	gen      *Generator
	log      *slog.Logger
}

func NewService(store Store, bookings BookingReader, gen *Generator, log *slog.Logger) *Service {
	return &Service{store: store, bookings: bookings, gen: gen, log: log}
}

// Download returns a stored document. Guests may only fetch documents of
// their own bookings. A missing document is rendered again and stored when
// the booking state allows it.
func (s *Service) Download(ctx context.Context, userID int64, role domain.UserRole, bookingID int64, docType domain.DocumentType) ([]byte, error) {
	if !docType.Valid() {
		return nil, apperror.Validation([]string{fmt.Sprintf("unknown document type %q", docType)})
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !role.IsEmployee() && b.UserID != userID {
		return nil, ErrForbidden
	}

	content, err := s.store.Retrieve(ctx, bookingID, docType)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	content, err = s.render(b, docType)
	if err != nil {
		return nil, err
	}
	if err := s.store.Store(ctx, bookingID, docType, content); err != nil {
		s.log.Warn("storing regenerated document failed", "booking_id", bookingID, "type", docType, "error", err)
	}
	return content, nil
}

func (s *Service) Delete(ctx context.Context, bookingID int64, docType domain.DocumentType) error {
	if !docType.Valid() {
		return apperror.Validation([]string{fmt.Sprintf("unknown document type %q", docType)})
	}
	return s.store.Delete(ctx, bookingID, docType)
}

func (s *Service) render(b *domain.Booking, docType domain.DocumentType) ([]byte, error) {
	switch docType {
	case domain.DocBookingConfirmation:
		return s.gen.Confirmation(b)
	case domain.DocInvoice:
		return s.gen.Invoice(b)
	default:
		if b.Status != domain.BookingCancelled {
			return nil, fmt.Errorf("cancellation receipt for booking %d: %w", b.ID, apperror.ErrNotFound)
		}
		return s.gen.CancellationReceipt(b)
	}
}
