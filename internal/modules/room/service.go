package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hotel/internal/domain"
	"hotel/internal/pkg/apperror"
	"hotel/internal/repository"
)

type Service struct {
	rooms     Repository
	bookings  BookingCounter
	occupancy Occupancy
	log       *slog.Logger
	now       func() time.Time
}

func NewService(rooms Repository, bookings BookingCounter, occupancy Occupancy, log *slog.Logger) *Service {
	return &Service{
		rooms:     rooms,
		bookings:  bookings,
		occupancy: occupancy,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req RoomRequest) (*domain.Room, error) {
	if err := apperror.Validation(validateRoom(ctx, req, true)); err != nil {
		return nil, err
	}
	room := &domain.Room{}
	apply(room, req)
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.log.Info("room created", "room_id", room.ID)
	return room, nil
}

func (s *Service) Update(ctx context.Context, id int64, req RoomRequest) (*domain.Room, error) {
	if err := apperror.Validation(validateRoom(ctx, req, false)); err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(room, req)
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("update room %d: %w", id, err)
	}
	return room, nil
}

func apply(room *domain.Room, req RoomRequest) {
	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Price != nil {
		room.Price = *req.Price
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.HalfBoard != nil {
		room.HalfBoard = *req.HalfBoard
	}
	if req.SmartLockID != nil {
		room.SmartLockID = req.SmartLockID
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

// Delete refuses rooms that still have a stay ahead of them.
func (s *Service) Delete(ctx context.Context, id int64) error {
	upcoming, err := s.bookings.CountUpcomingForRoom(ctx, id, s.now())
	if err != nil {
		return err
	}
	if upcoming > 0 {
		return apperror.Conflict("Room has upcoming bookings and cannot be deleted.")
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return apperror.Conflict("Room is referenced by past bookings and cannot be deleted.")
		}
		return err
	}
	s.log.Info("room deleted", "room_id", id)
	return nil
}

// SearchFree lists rooms with no live booking touching the requested stay.
func (s *Service) SearchFree(ctx context.Context, q SearchQuery) ([]domain.Room, error) {
	start, end, errs := validateSearch(q, domain.DateOf(s.now()))
	if err := apperror.Validation(errs); err != nil {
		return nil, err
	}
	persons := q.Persons
	if persons == 0 {
		persons = 1
	}
	return s.rooms.SearchFree(ctx, start, end, persons)
}

func (s *Service) ListForCleaning(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListForCleaning(ctx)
}

// MarkCleaned stamps the room and clears any requested cleaning window.
func (s *Service) MarkCleaned(ctx context.Context, id int64) error {
	if err := s.rooms.MarkCleaned(ctx, id, s.now()); err != nil {
		return err
	}
	s.log.Info("room cleaned", "room_id", id)
	return nil
}

// RequestCleaning stores today's cleaning window. Guests may only do this for
// the room they are checked into.
func (s *Service) RequestCleaning(ctx context.Context, userID int64, role domain.UserRole, id int64, req CleaningWindowRequest) error {
	now := s.now()
	from, to, errs := cleaningWindow(req, now)
	if err := apperror.Validation(errs); err != nil {
		return err
	}
	if err := s.authorizeGuest(ctx, userID, role, id, now); err != nil {
		return err
	}
	return s.rooms.SetCleaningWindow(ctx, id, &from, &to)
}

func (s *Service) ClearCleaning(ctx context.Context, userID int64, role domain.UserRole, id int64) error {
	if err := s.authorizeGuest(ctx, userID, role, id, s.now()); err != nil {
		return err
	}
	return s.rooms.SetCleaningWindow(ctx, id, nil, nil)
}

func (s *Service) authorizeGuest(ctx context.Context, userID int64, role domain.UserRole, roomID int64, now time.Time) error {
	if role.IsEmployee() {
		return nil
	}
	in, err := s.occupancy.GuestInRoom(ctx, roomID, userID, now)
	if err != nil {
		return err
	}
	if !in {
		return ErrForbidden
	}
	return nil
}
