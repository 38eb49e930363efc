package booking

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/modules/notification"
	"hotel/internal/modules/payment"
)

type BookingRepository interface {
	IsRoomAvailable(ctx context.Context, roomID int64, start, end time.Time) (bool, error)
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Save(ctx context.Context, b *domain.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListPaged(ctx context.Context, page, size int) ([]domain.Booking, int64, error)
	SyncStatuses(ctx context.Context, today time.Time) (int64, error)
}

type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type DocumentGenerator interface {
	Confirmation(b *domain.Booking) ([]byte, error)
	Invoice(b *domain.Booking) ([]byte, error)
	CancellationReceipt(b *domain.Booking) ([]byte, error)
}

type DocumentStore interface {
	Store(ctx context.Context, bookingID int64, docType domain.DocumentType, content []byte) error
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, b *domain.Booking, docs []notification.Attachment) error
	SendCancellation(ctx context.Context, b *domain.Booking, receipt []byte) error
}

type Payments interface {
	Refund(ctx context.Context, b *domain.Booking) error
	SessionPayment(ctx context.Context, sessionID string) (*payment.PaymentState, error)
}
