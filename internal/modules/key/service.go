package key

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hotel/internal/pkg/apperror"
)

const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
)

type Status struct {
	RoomID      int64  `json:"room_id"`
	SmartLockID *int64 `json:"smart_lock_id,omitempty"`
	Status      string `json:"status"`
}

type Service struct {
	rooms     RoomReader
	occupancy Occupancy
	locks     LockClient
	log       *slog.Logger
	now       func() time.Time
}

func NewService(rooms RoomReader, occupancy Occupancy, locks LockClient, log *slog.Logger) *Service {
	return &Service{
		rooms:     rooms,
		occupancy: occupancy,
		locks:     locks,
		log:       log,
		now:       time.Now,
	}
}

// Status reports whether the digital key of a room can be used by guestID.
// Rooms the guest is not checked into are reported as not found.
func (s *Service) Status(ctx context.Context, guestID, roomID int64) (*Status, error) {
	in, err := s.occupancy.GuestInRoom(ctx, roomID, guestID, s.now())
	if err != nil {
		return nil, fmt.Errorf("guest room lookup: %w", err)
	}
	if !in {
		return nil, fmt.Errorf("%w: room %d", apperror.ErrNotFound, roomID)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.SmartLockID == nil {
		return nil, fmt.Errorf("%w: smart lock of room %d", apperror.ErrNotFound, roomID)
	}

	found, err := s.locks.Exists(ctx, *room.SmartLockID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Status{RoomID: room.ID, Status: StatusUnavailable}, nil
	}
	return &Status{RoomID: room.ID, SmartLockID: room.SmartLockID, Status: StatusAvailable}, nil
}

func (s *Service) Unlock(ctx context.Context, guestID, roomID int64) error {
	st, err := s.Status(ctx, guestID, roomID)
	if err != nil {
		return err
	}
	if st.Status != StatusAvailable {
		return ErrUnavailable
	}

	if err := s.locks.Unlock(ctx, *st.SmartLockID); err != nil {
		s.log.Error("unlock failed", "room_id", roomID, "smart_lock_id", *st.SmartLockID, "error", err)
		return err
	}
	s.log.Info("room unlocked", "room_id", roomID, "guest_id", guestID)
	return nil
}
