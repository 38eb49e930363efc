package domain

import "time"

type CheckIn struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	BookingID      int64     `json:"booking_id" gorm:"not null;index"`
	GuestID        int64     `json:"guest_id" gorm:"not null;index"`
	PassportNumber string    `json:"-" gorm:"size:64;not null"`
	CheckedInAt    time.Time `json:"checked_in_at" gorm:"not null"`
}

type CheckOut struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	BookingID    int64     `json:"booking_id" gorm:"not null;index"`
	GuestID      int64     `json:"guest_id" gorm:"not null;index"`
	CheckedOutAt time.Time `json:"checked_out_at" gorm:"not null"`
}
