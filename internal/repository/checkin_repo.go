package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type CheckInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

func (r *CheckInRepository) CreateCheckIn(ctx context.Context, ci *domain.CheckIn) error {
	return r.db.WithContext(ctx).Create(ci).Error
}

func (r *CheckInRepository) CreateCheckOut(ctx context.Context, co *domain.CheckOut) error {
	return r.db.WithContext(ctx).Create(co).Error
}

func (r *CheckInRepository) IsCheckedIn(ctx context.Context, bookingID, guestID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.CheckIn{}).
		Where("booking_id = ? AND guest_id = ?", bookingID, guestID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *CheckInRepository) IsCheckedOut(ctx context.Context, bookingID, guestID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.CheckOut{}).
		Where("booking_id = ? AND guest_id = ?", bookingID, guestID).
		Count(&cnt).Error
	return cnt > 0, err
}

// PendingCheckOuts returns the check-ins of a booking that have no matching
// check-out yet.
func (r *CheckInRepository) PendingCheckOuts(ctx context.Context, bookingID int64) ([]domain.CheckIn, error) {
	done := r.db.Model(&domain.CheckOut{}).
		Select("guest_id").
		Where("booking_id = ?", bookingID)

	var out []domain.CheckIn
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Where("guest_id NOT IN (?)", done).
		Find(&out).Error
	return out, err
}

// CountInRoom counts guests checked into a room's current stay and not yet
// checked out.
func (r *CheckInRepository) CountInRoom(ctx context.Context, roomID int64, today time.Time) (int64, error) {
	day := domain.DateOf(today)
	current := r.db.Model(&domain.Booking{}).
		Select("id").
		Where("room_id = ?", roomID).
		Where("status <> ?", domain.BookingCancelled).
		Where("start_date <= ? AND end_date >= ?", day, day)

	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.CheckIn{}).
		Where("booking_id IN (?)", current).
		Where("NOT EXISTS (?)", r.db.Model(&domain.CheckOut{}).
			Select("1").
			Where("check_outs.booking_id = check_ins.booking_id AND check_outs.guest_id = check_ins.guest_id")).
		Count(&cnt).Error
	return cnt, err
}

// GuestInRoom reports whether guestID is currently checked into roomID.
func (r *CheckInRepository) GuestInRoom(ctx context.Context, roomID, guestID int64, today time.Time) (bool, error) {
	day := domain.DateOf(today)
	current := r.db.Model(&domain.Booking{}).
		Select("id").
		Where("room_id = ?", roomID).
		Where("status <> ?", domain.BookingCancelled).
		Where("start_date <= ? AND end_date >= ?", day, day)

	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.CheckIn{}).
		Where("booking_id IN (?) AND guest_id = ?", current, guestID).
		Where("NOT EXISTS (?)", r.db.Model(&domain.CheckOut{}).
			Select("1").
			Where("check_outs.booking_id = check_ins.booking_id AND check_outs.guest_id = check_ins.guest_id")).
		Count(&cnt).Error
	return cnt > 0, err
}

// OpenCheckIns lists the check-ins of guestID that have no check-out yet, one
// per booking.
func (r *CheckInRepository) OpenCheckIns(ctx context.Context, guestID int64) ([]domain.CheckIn, error) {
	var out []domain.CheckIn
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Where("NOT EXISTS (?)", r.db.Model(&domain.CheckOut{}).
			Select("1").
			Where("check_outs.booking_id = check_ins.booking_id AND check_outs.guest_id = check_ins.guest_id")).
		Where("id IN (?)", r.db.Model(&domain.CheckIn{}).
			Select("MIN(id)").
			Where("guest_id = ?", guestID).
			Group("booking_id")).
		Order("checked_in_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// GuestsOfBooking returns the users checked in on a booking, in check-in
// order.
func (r *CheckInRepository) GuestsOfBooking(ctx context.Context, bookingID int64) ([]domain.User, error) {
	var out []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN check_ins ON check_ins.guest_id = users.id").
		Where("check_ins.booking_id = ?", bookingID).
		Order("check_ins.checked_in_at ASC, users.id ASC").
		Find(&out).Error
	return out, err
}

// RemoveGuest deletes the check-ins of guestID on a booking and reports how
// many were removed.
func (r *CheckInRepository) RemoveGuest(ctx context.Context, bookingID, guestID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("booking_id = ? AND guest_id = ?", bookingID, guestID).
		Delete(&domain.CheckIn{})
	return res.RowsAffected, res.Error
}
