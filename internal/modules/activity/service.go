package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hotel/internal/domain"
	"hotel/internal/events"
	"hotel/internal/pkg/apperror"
	"hotel/internal/repository"
)

type Service struct {
	repo     Repository
	payments PaymentChecker
	events   events.Publisher
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, payments PaymentChecker, publisher events.Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		payments: payments,
		events:   publisher,
		log:      log,
		now:      time.Now,
	}
}

// Create stores a new activity and materialises its slots for the coming
// months.
func (s *Service) Create(ctx context.Context, req ActivityRequest) (*domain.Activity, error) {
	if err := apperror.Validation(validateActivity(ctx, req, true)); err != nil {
		return nil, err
	}

	a := &domain.Activity{
		Name:        strings.TrimSpace(*req.Name),
		Description: *req.Description,
		Price:       *req.Price,
		Capacity:    *req.Capacity,
	}
	if req.Categories != nil {
		a.Categories = *req.Categories
	}
	for _, ts := range req.Timeslots {
		a.Timeslots = append(a.Timeslots, toTemplate(ts))
	}

	slots, err := domain.MaterializeSlots(a, a.Timeslots, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateWithSlots(ctx, a, slots); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	s.log.Info("activity created", "activity_id", a.ID, "slots", len(slots))
	return a, nil
}

// Update applies the given fields and regenerates future slots so capacity
// and schedule changes reach them. Slots holding participants stay as they
// are.
func (s *Service) Update(ctx context.Context, id int64, req ActivityRequest) (*domain.Activity, error) {
	if err := apperror.Validation(validateActivity(ctx, req, false)); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	if req.Capacity != nil {
		a.Capacity = *req.Capacity
	}
	if req.Categories != nil {
		a.Categories = *req.Categories
	}
	if req.Timeslots != nil {
		a.Timeslots = make([]domain.ActivityTimeslotInfo, 0, len(req.Timeslots))
		for _, ts := range req.Timeslots {
			a.Timeslots = append(a.Timeslots, toTemplate(ts))
		}
	}

	now := s.now()
	slots, err := domain.MaterializeSlots(a, a.Timeslots, now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceSchedule(ctx, a, slots, now); err != nil {
		return nil, fmt.Errorf("update activity %d: %w", id, err)
	}
	s.log.Info("activity updated", "activity_id", id)
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, query string) ([]domain.Activity, error) {
	return s.repo.List(ctx, strings.TrimSpace(query))
}

// Delete refuses activities that have been booked at least once.
func (s *Service) Delete(ctx context.Context, id int64) error {
	cnt, err := s.repo.CountBookings(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return inUse()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return inUse()
		}
		return err
	}
	s.log.Info("activity deleted", "activity_id", id)
	return nil
}

func inUse() error {
	return apperror.Conflict("Activity has associated bookings and cannot be deleted.")
}

// Slots lists upcoming slots of an activity. A date narrows the result to one
// day and participants hides slots without enough free seats.
func (s *Service) Slots(ctx context.Context, activityID int64, date string, participants int) ([]domain.ActivitySlot, error) {
	today := domain.DateOf(s.now())
	filter := repository.SlotFilter{From: today, Participants: participants}

	var errs []string
	if date != "" {
		d, err := time.Parse(time.DateOnly, date)
		switch {
		case err != nil:
			errs = append(errs, "Date must be in YYYY-MM-DD format.")
		case d.Before(today):
			errs = append(errs, "Selected date cannot be in the past.")
		default:
			filter.From, filter.To = d, d
		}
	}
	if participants < 0 {
		errs = append(errs, "Number of participants must be greater than zero.")
	}
	if err := apperror.Validation(errs); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, activityID); err != nil {
		return nil, err
	}
	return s.repo.ListSlots(ctx, activityID, filter)
}

// Book reserves seats in a slot. The seat count is taken with a conditional
// update, so a concurrent booking that fills the slot first turns this one
// into a conflict.
func (s *Service) Book(ctx context.Context, userID int64, req CreateBookingRequest) (*BookingDetails, error) {
	if req.Participants < 1 {
		return nil, apperror.Validation([]string{"Number of participants must be greater than zero."})
	}
	a, err := s.repo.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}
	slot, err := s.repo.GetSlot(ctx, req.ActivitySlotID)
	if err != nil {
		return nil, err
	}
	if slot.ActivityID != a.ID {
		return nil, apperror.Validation([]string{"Activity slot does not belong to activity"})
	}

	now := s.now()
	errs, err := validateBooking(slot, req.Participants, now)
	if err != nil {
		return nil, err
	}
	if err := apperror.Validation(errs); err != nil {
		return nil, err
	}

	b := &domain.ActivityBooking{
		UserID:         userID,
		ActivityID:     a.ID,
		ActivitySlotID: slot.ID,
		BookingDate:    domain.DateOf(now),
		Participants:   req.Participants,
		TotalPrice:     domain.ActivityTotal(a.Price, req.Participants),
		Status:         domain.BookingPending,
	}
	if err := s.repo.BookSlot(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotFull) {
			return nil, apperror.Conflict("Not enough capacity in activity slot")
		}
		return nil, fmt.Errorf("book activity slot %d: %w", slot.ID, err)
	}
	slot.Occupied += req.Participants
	b.Activity, b.Slot = a, slot
	s.log.Info("activity booked", "activity_booking_id", b.ID, "slot_id", slot.ID, "participants", b.Participants)

	details := toDetails(b)
	s.publish(ctx, events.ActivityBookingCreated, b.ID, details)
	return &details, nil
}

func (s *Service) MyBookings(ctx context.Context, userID int64) ([]BookingDetails, error) {
	list, err := s.repo.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]BookingDetails, 0, len(list))
	for i := range list {
		out = append(out, toDetails(&list[i]))
	}
	return out, nil
}

// SyncPayment looks up the checkout session of an unpaid activity booking.
// A settled payment activates the booking; any other outcome gives the
// seats back and removes the booking. Provider errors change nothing.
func (s *Service) SyncPayment(ctx context.Context, userID, bookingID int64) (bool, error) {
	b, err := s.repo.GetBooking(ctx, bookingID)
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
		return false, fmt.Errorf("payment status of activity booking %d: %w", bookingID, err)
	}
	if state.Settled() {
		b.Paid = true
		b.Status = domain.BookingActive
		b.PaymentIntentID = state.IntentID
		if err := s.repo.SaveBooking(ctx, b); err != nil {
			return false, err
		}
		s.log.Info("activity booking paid", "activity_booking_id", b.ID)
		return true, nil
	}

	if err := s.repo.ReleaseAndDelete(ctx, b); err != nil {
		return false, fmt.Errorf("release activity booking %d: %w", bookingID, err)
	}
	s.log.Info("activity booking voided", "activity_booking_id", b.ID, "payment_status", state.Status)
	s.publish(ctx, events.ActivityBookingVoided, b.ID, toDetails(b))
	return false, nil
}

func (s *Service) publish(ctx context.Context, eventType string, id int64, data BookingDetails) {
	e := events.New(eventType, strconv.FormatInt(id, 10), data, s.now())
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("activity event not published", "type", eventType, "activity_booking_id", id, "error", err)
	}
}
