package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err, "room", id)
	}
	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Room{}, id)
	if pgCode(res.Error) == pgForeignKeyViolation {
		return ErrInUse
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "room", id)
	}
	return nil
}

// SearchFree lists rooms sleeping at least persons that have no live booking
// touching [start, end].
func (r *RoomRepository) SearchFree(ctx context.Context, start, end time.Time, persons int) ([]domain.Room, error) {
	busy := r.db.Model(&domain.Booking{}).
		Select("room_id").
		Where("status IN ?", domain.BlockingStatuses).
		Where("start_date <= ? AND end_date >= ?", domain.DateOf(end), domain.DateOf(start))

	var out []domain.Room
	err := r.db.WithContext(ctx).
		Where("capacity >= ?", persons).
		Where("id NOT IN (?)", busy).
		Order("price ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *RoomRepository) MarkCleaned(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_cleaned_at":    at,
			"cleaning_time_from": nil,
			"cleaning_time_to":   nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "room", id)
	}
	return nil
}

// SetCleaningWindow stores the window a guest asked the room to be cleaned
// in. Nil bounds clear it.
func (r *RoomRepository) SetCleaningWindow(ctx context.Context, id int64, from, to *time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"cleaning_time_from": from,
			"cleaning_time_to":   to,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "room", id)
	}
	return nil
}

// ListForCleaning orders rooms by how long ago they were cleaned, never
// cleaned rooms first.
func (r *RoomRepository) ListForCleaning(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	err := r.db.WithContext(ctx).
		Order("CASE WHEN last_cleaned_at IS NULL THEN 0 ELSE 1 END, last_cleaned_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
