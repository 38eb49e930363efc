package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// SlotFilter narrows ListSlots. Zero values disable a condition.
type SlotFilter struct {
	From         time.Time
	To           time.Time
	Participants int
}

// CreateWithSlots stores the activity, its timeslot templates and the slots
// materialised from them in one transaction.
func (r *ActivityRepository) CreateWithSlots(ctx context.Context, a *domain.Activity, slots []domain.ActivitySlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return insertSlots(tx, a.ID, slots)
	})
}

// ReplaceSchedule swaps the templates of an activity and regenerates its
// future slots. Slots that already hold participants are kept.
func (r *ActivityRepository) ReplaceSchedule(ctx context.Context, a *domain.Activity, slots []domain.ActivitySlot, today time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", a.ID).Delete(&domain.ActivityTimeslotInfo{}).Error; err != nil {
			return err
		}
		for i := range a.Timeslots {
			a.Timeslots[i].ID = 0
			a.Timeslots[i].ActivityID = a.ID
		}
		if len(a.Timeslots) > 0 {
			if err := tx.Create(&a.Timeslots).Error; err != nil {
				return err
			}
		}

		var kept []domain.ActivitySlot
		if err := tx.Where("activity_id = ? AND date >= ? AND occupied > 0", a.ID, domain.DateOf(today)).
			Find(&kept).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ? AND date >= ? AND occupied = 0", a.ID, domain.DateOf(today)).
			Delete(&domain.ActivitySlot{}).Error; err != nil {
			return err
		}

		taken := make(map[string]bool, len(kept))
		for _, s := range kept {
			taken[slotKey(s)] = true
		}
		fresh := slots[:0:0]
		for _, s := range slots {
			if !taken[slotKey(s)] {
				fresh = append(fresh, s)
			}
		}
		return insertSlots(tx, a.ID, fresh)
	})
}

func slotKey(s domain.ActivitySlot) string {
	return domain.DateOf(s.Date).Format(time.DateOnly) + " " + s.StartTime + "-" + s.EndTime
}

func insertSlots(tx *gorm.DB, activityID int64, slots []domain.ActivitySlot) error {
	if len(slots) == 0 {
		return nil
	}
	for i := range slots {
		slots[i].ActivityID = activityID
	}
	return tx.CreateInBatches(slots, 200).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	var a domain.Activity
	if err := r.db.WithContext(ctx).Preload("Timeslots").First(&a, id).Error; err != nil {
		return nil, notFound(err, "activity", id)
	}
	return &a, nil
}

// List returns activities whose name or categories contain query.
func (r *ActivityRepository) List(ctx context.Context, query string) ([]domain.Activity, error) {
	q := r.db.WithContext(ctx).Preload("Timeslots").Order("name ASC, id ASC")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE LOWER(?) OR LOWER(categories) LIKE LOWER(?)", like, like)
	}
	var out []domain.Activity
	err := q.Find(&out).Error
	return out, err
}

// Delete removes an activity with its templates and slots.
func (r *ActivityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&domain.ActivitySlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", id).Delete(&domain.ActivityTimeslotInfo{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Activity{}, id)
		if pgCode(res.Error) == pgForeignKeyViolation {
			return ErrInUse
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "activity", id)
		}
		return nil
	})
}

func (r *ActivityRepository) CountBookings(ctx context.Context, activityID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.ActivityBooking{}).
		Where("activity_id = ?", activityID).
		Count(&cnt).Error
	return cnt, err
}

func (r *ActivityRepository) ListSlots(ctx context.Context, activityID int64, f SlotFilter) ([]domain.ActivitySlot, error) {
	q := r.db.WithContext(ctx).Where("activity_id = ?", activityID)
	if !f.From.IsZero() {
		q = q.Where("date >= ?", domain.DateOf(f.From))
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", domain.DateOf(f.To))
	}
	if f.Participants > 0 {
		q = q.Where("capacity - occupied >= ?", f.Participants)
	}
	var out []domain.ActivitySlot
	err := q.Order("date ASC, start_time ASC").Find(&out).Error
	return out, err
}

func (r *ActivityRepository) GetSlot(ctx context.Context, id int64) (*domain.ActivitySlot, error) {
	var s domain.ActivitySlot
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "activity slot", id)
	}
	return &s, nil
}

// BookSlot takes the requested seats and stores the booking atomically. The
// seat increment only applies while occupied + participants <= capacity.
func (r *ActivityRepository) BookSlot(ctx context.Context, b *domain.ActivityBooking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.ActivitySlot{}).
			Where("id = ? AND occupied + ? <= capacity", b.ActivitySlotID, b.Participants).
			Update("occupied", gorm.Expr("occupied + ?", b.Participants))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotFull
		}
		return tx.Omit(clause.Associations).Create(b).Error
	})
}

// ReleaseAndDelete gives the seats of b back to its slot and removes b.
func (r *ActivityRepository) ReleaseAndDelete(ctx context.Context, b *domain.ActivityBooking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.ActivitySlot{}).
			Where("id = ? AND occupied >= ?", b.ActivitySlotID, b.Participants).
			Update("occupied", gorm.Expr("occupied - ?", b.Participants)).Error
		if err != nil {
			return err
		}
		return tx.Delete(&domain.ActivityBooking{}, b.ID).Error
	})
}

func (r *ActivityRepository) GetBooking(ctx context.Context, id int64) (*domain.ActivityBooking, error) {
	var b domain.ActivityBooking
	err := r.db.WithContext(ctx).
		Preload("Activity").
		Preload("Slot").
		First(&b, id).Error
	if err != nil {
		return nil, notFound(err, "activity booking", id)
	}
	return &b, nil
}

func (r *ActivityRepository) ListBookingsByUser(ctx context.Context, userID int64) ([]domain.ActivityBooking, error) {
	var out []domain.ActivityBooking
	err := r.db.WithContext(ctx).
		Preload("Activity").
		Preload("Slot").
		Where("user_id = ?", userID).
		Order("booking_date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *ActivityRepository) SaveBooking(ctx context.Context, b *domain.ActivityBooking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error
}
