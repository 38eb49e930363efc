package guest

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	SearchGuests(ctx context.Context, f repository.GuestFilter, page, size int) ([]domain.User, int64, error)
}

type BookingRepository interface {
	HasStayEndingAfter(ctx context.Context, userID int64, day time.Time) (bool, error)
}
