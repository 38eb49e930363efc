package domain

import "time"

type Room struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	Name             string     `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Description      string     `json:"description,omitempty" gorm:"type:text" validate:"max=4096"`
	Price            float64    `json:"price" gorm:"not null" validate:"gte=0"`
	Capacity         int        `json:"capacity" gorm:"not null" validate:"required,gte=1"`
	HalfBoard        bool       `json:"half_board"`
	SmartLockID      *int64     `json:"smart_lock_id,omitempty"`
	LastCleanedAt    *time.Time `json:"last_cleaned_at,omitempty"`
	CleaningTimeFrom *time.Time `json:"cleaning_time_from,omitempty"`
	CleaningTimeTo   *time.Time `json:"cleaning_time_to,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
