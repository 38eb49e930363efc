package document

import (
	"context"

	"hotel/internal/domain"
)

// Store keeps one document per booking and type. Storing again replaces the
// previous content. repository.DocumentRepository and s3.DocumentStore
// implement it.
type Store interface {
	Store(ctx context.Context, bookingID int64, docType domain.DocumentType, content []byte) error
	Retrieve(ctx context.Context, bookingID int64, docType domain.DocumentType) ([]byte, error)
	Delete(ctx context.Context, bookingID int64, docType domain.DocumentType) error
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
