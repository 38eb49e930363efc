package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"hotel/internal/domain"
	"hotel/internal/events"
	"hotel/internal/pkg/apperror"
)

type Service struct {
	bookings BookingRepository
	checkins Repository
	rooms    RoomReader
	users    UserReader
	events   events.Publisher
	log      *slog.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepository, checkins Repository, rooms RoomReader, users UserReader, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		bookings: bookings,
		checkins: checkins,
		rooms:    rooms,
		users:    users,
		events:   publisher,
		log:      log,
		now:      time.Now,
	}
}

// CheckIn registers guestID as staying in the room of the booking.
func (s *Service) CheckIn(ctx context.Context, guestID int64, req CheckInRequest) (*CheckInResponse, error) {
	if err := apperror.Validation(validatePassport(req.PassportNumber)); err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var st checkInState
	if st.guestsInRoom, err = s.checkins.CountInRoom(ctx, b.RoomID, now); err != nil {
		return nil, fmt.Errorf("count guests in room %d: %w", b.RoomID, err)
	}
	if st.checkedIn, err = s.checkins.IsCheckedIn(ctx, b.ID, guestID); err != nil {
		return nil, fmt.Errorf("check-in lookup: %w", err)
	}
	if st.checkedOut, err = s.checkins.IsCheckedOut(ctx, b.ID, guestID); err != nil {
		return nil, fmt.Errorf("check-out lookup: %w", err)
	}
	if err := apperror.Validation(validateCheckIn(b, guestID, st, now)); err != nil {
		return nil, err
	}

	ci := &domain.CheckIn{
		BookingID:      b.ID,
		GuestID:        guestID,
		PassportNumber: req.PassportNumber,
		CheckedInAt:    now,
	}
	if err := s.checkins.CreateCheckIn(ctx, ci); err != nil {
		return nil, fmt.Errorf("create check-in: %w", err)
	}

	s.log.Info("guest checked in", "booking_id", b.ID, "guest_id", guestID, "room_id", b.RoomID)
	s.publish(ctx, events.GuestCheckedIn, b.ID, map[string]any{"room_id": b.RoomID, "guest_id": guestID})
	return &CheckInResponse{ID: ci.ID, BookingID: b.ID, RoomID: b.RoomID, CheckedInAt: ci.CheckedInAt}, nil
}

// ManualCheckIn lets the front desk check in the guest registered under
// email. The booking rules are the same as for self check-in.
func (s *Service) ManualCheckIn(ctx context.Context, email string, req CheckInRequest) (*CheckInResponse, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	out, err := s.CheckIn(ctx, u.ID, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("manual check-in recorded", "booking_id", out.BookingID, "guest_id", u.ID)
	return out, nil
}

// Status lists the bookings the guest under email is currently checked into.
func (s *Service) Status(ctx context.Context, email string) ([]CheckInStatus, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	open, err := s.checkins.OpenCheckIns(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("open check-ins of guest %d: %w", u.ID, err)
	}
	out := make([]CheckInStatus, 0, len(open))
	for _, ci := range open {
		out = append(out, CheckInStatus{BookingID: ci.BookingID, Email: u.Email})
	}
	return out, nil
}

// Guests lists everyone checked in on a booking.
func (s *Service) Guests(ctx context.Context, bookingID int64) ([]GuestSummary, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	users, err := s.checkins.GuestsOfBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("guests of booking %d: %w", bookingID, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("checked in guests of booking %d: %w", bookingID, apperror.ErrNotFound)
	}
	out := make([]GuestSummary, 0, len(users))
	for _, u := range users {
		out = append(out, GuestSummary{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email})
	}
	return out, nil
}

// RemoveGuest deletes the check-ins of the guest under email from a booking.
func (s *Service) RemoveGuest(ctx context.Context, bookingID int64, email string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	n, err := s.checkins.RemoveGuest(ctx, b.ID, u.ID)
	if err != nil {
		return fmt.Errorf("remove guest %d from booking %d: %w", u.ID, b.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("check-ins of %s on booking %d: %w", email, b.ID, apperror.ErrNotFound)
	}
	s.log.Info("guest removed from room", "booking_id", b.ID, "guest_id", u.ID, "check_ins", n)
	return nil
}

// CheckOut closes every open check-in of a booking. Guests may only check out
// their own bookings; employees may check out any.
func (s *Service) CheckOut(ctx context.Context, userID int64, role domain.UserRole, bookingID int64) (*CheckOutResponse, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID && !role.IsEmployee() {
		return nil, ErrForbidden
	}
	if err := apperror.Validation(validateCheckOut(b)); err != nil {
		return nil, err
	}

	n, err := s.closeOpen(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperror.Conflict("No guest is checked in for this booking.")
	}
	return &CheckOutResponse{BookingID: b.ID, CheckedOut: n}, nil
}

func (s *Service) Occupancy(ctx context.Context, roomID int64) (*OccupancyStatus, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	guests, err := s.checkins.CountInRoom(ctx, room.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("count guests in room %d: %w", room.ID, err)
	}

	status := NotOccupied
	if guests > 0 {
		status = Occupied
	}
	return &OccupancyStatus{RoomID: room.ID, Status: status, Guests: guests, Capacity: room.Capacity}, nil
}

// PerformAutoCheckOut checks out every guest still registered on a booking
// that ends today and then brings stored booking statuses up to date. A
// failing booking does not stop the sweep.
func (s *Service) PerformAutoCheckOut(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	today := s.now()

	ending, err := s.bookings.ListEndingOn(ctx, today)
	if err != nil {
		return res, fmt.Errorf("list departures: %w", err)
	}

	var errs []error
	for _, b := range ending {
		n, err := s.closeOpen(ctx, b.ID)
		res.CheckedOut += n
		if err != nil {
			errs = append(errs, err)
		}
	}

	updated, err := s.bookings.SyncStatuses(ctx, today)
	if err != nil {
		errs = append(errs, fmt.Errorf("sync booking statuses: %w", err))
	}
	res.StatusesUpdated = updated

	s.log.Info("automatic check-out finished",
		"departures", len(ending),
		"checked_out", res.CheckedOut,
		"statuses_updated", res.StatusesUpdated,
	)
	return res, errors.Join(errs...)
}

func (s *Service) closeOpen(ctx context.Context, bookingID int64) (int, error) {
	pending, err := s.checkins.PendingCheckOuts(ctx, bookingID)
	if err != nil {
		return 0, fmt.Errorf("open check-ins of booking %d: %w", bookingID, err)
	}

	done := 0
	for _, ci := range pending {
		co := &domain.CheckOut{BookingID: bookingID, GuestID: ci.GuestID, CheckedOutAt: s.now()}
		if err := s.checkins.CreateCheckOut(ctx, co); err != nil {
			return done, fmt.Errorf("check out guest %d of booking %d: %w", ci.GuestID, bookingID, err)
		}
		done++
		s.publish(ctx, events.GuestCheckedOut, bookingID, map[string]any{"guest_id": ci.GuestID})
	}
	return done, nil
}

func (s *Service) publish(ctx context.Context, eventType string, bookingID int64, data any) {
	e := events.New(eventType, strconv.FormatInt(bookingID, 10), data, s.now())
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("check-in event not published", "type", eventType, "booking_id", bookingID, "error", err)
	}
}
