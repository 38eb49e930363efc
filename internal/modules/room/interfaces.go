package room

import (
	"context"
	"time"

	"hotel/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int64) error
	SearchFree(ctx context.Context, start, end time.Time, persons int) ([]domain.Room, error)
	MarkCleaned(ctx context.Context, id int64, at time.Time) error
	SetCleaningWindow(ctx context.Context, id int64, from, to *time.Time) error
	ListForCleaning(ctx context.Context) ([]domain.Room, error)
}

type BookingCounter interface {
	CountUpcomingForRoom(ctx context.Context, roomID int64, today time.Time) (int64, error)
}

type Occupancy interface {
	GuestInRoom(ctx context.Context, roomID, guestID int64, today time.Time) (bool, error)
}
