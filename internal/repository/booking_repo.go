package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// overlapping selects live bookings of roomID sharing at least one day with
// [start, end]. Both ends are inclusive.
func overlapping(db *gorm.DB, roomID int64, start, end time.Time) *gorm.DB {
	return db.Model(&domain.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", domain.BlockingStatuses).
		Where("start_date <= ? AND end_date >= ?", domain.DateOf(end), domain.DateOf(start))
}

func (r *BookingRepository) IsRoomAvailable(ctx context.Context, roomID int64, start, end time.Time) (bool, error) {
	var cnt int64
	if err := overlapping(r.db.WithContext(ctx), roomID, start, end).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// CreateIfAvailable inserts b unless its room is taken for the dates. The room
// row is locked for the duration of the check so two transactions cannot both
// see the room as free.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, b.RoomID).Error; err != nil {
			return notFound(err, "room", b.RoomID)
		}

		var cnt int64
		if err := overlapping(tx, b.RoomID, b.StartDate, b.EndDate).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrBookingOverlap
		}
		return tx.Omit(clause.Associations).Create(b).Error
	})
	if pgCode(err) == pgExclusionViolation {
		return ErrBookingOverlap
	}
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		First(&b, id).Error
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return &b, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&out).Error
	return out, err
}

// ListPaged returns one page of all bookings, active stays first and then by
// arrival date, together with the total count.
func (r *BookingRepository) ListPaged(ctx context.Context, page, size int) ([]domain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		Order("CASE WHEN status = '" + string(domain.BookingActive) + "' THEN 0 ELSE 1 END, start_date ASC, id ASC").
		Limit(size).
		Offset(page * size).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HasStayEndingAfter reports whether userID holds any booking that ends after
// day.
func (r *BookingRepository) HasStayEndingAfter(ctx context.Context, userID int64, day time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("user_id = ? AND end_date > ?", userID, domain.DateOf(day)).
		Count(&cnt).Error
	return cnt > 0, err
}

// ListEndingOn returns the live bookings whose departure day is day.
func (r *BookingRepository) ListEndingOn(ctx context.Context, day time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("end_date = ?", domain.DateOf(day)).
		Where("status <> ?", domain.BookingCancelled).
		Find(&out).Error
	return out, err
}

// CountUpcomingForRoom counts live bookings of a room that have not ended
// before today.
func (r *BookingRepository) CountUpcomingForRoom(ctx context.Context, roomID int64, today time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", domain.BookingCancelled).
		Where("end_date >= ?", domain.DateOf(today)).
		Count(&cnt).Error
	return cnt, err
}

// ActiveForRoom returns the booking currently running in a room, if any.
func (r *BookingRepository) ActiveForRoom(ctx context.Context, roomID int64, today time.Time) (*domain.Booking, error) {
	day := domain.DateOf(today)
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Where("status <> ?", domain.BookingCancelled).
		Where("start_date <= ? AND end_date > ?", day, day).
		First(&b).Error
	if err != nil {
		return nil, notFound(err, "active booking for room", roomID)
	}
	return &b, nil
}

// SyncStatuses rewrites the stored status of every live booking from the
// calendar. Cancelled bookings are left alone.
func (r *BookingRepository) SyncStatuses(ctx context.Context, today time.Time) (int64, error) {
	day := domain.DateOf(today)
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("status <> ?", domain.BookingCancelled).
		Update("status", gorm.Expr(
			"CASE WHEN end_date <= ? THEN ? WHEN start_date <= ? THEN ? ELSE ? END",
			day, domain.BookingCompleted, day, domain.BookingActive, domain.BookingPending,
		))
	return res.RowsAffected, res.Error
}
