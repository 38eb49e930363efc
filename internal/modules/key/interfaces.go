package key

import (
	"context"
	"time"

	"hotel/internal/domain"
)

type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type Occupancy interface {
	GuestInRoom(ctx context.Context, roomID, guestID int64, today time.Time) (bool, error)
}

// LockClient is the smart lock vendor API.
type LockClient interface {
	Exists(ctx context.Context, smartLockID int64) (bool, error)
	Unlock(ctx context.Context, smartLockID int64) error
}
