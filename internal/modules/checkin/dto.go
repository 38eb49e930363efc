package checkin

import "time"

type CheckInRequest struct {
	BookingID      int64  `json:"booking_id" validate:"required,gt=0"`
	PassportNumber string `json:"passport_number" validate:"required"`
}

type CheckOutRequest struct {
	BookingID int64 `json:"booking_id" validate:"required,gt=0"`
}

// CheckInStatus names a booking the guest is checked into and not yet out of.
type CheckInStatus struct {
	BookingID int64  `json:"booking_id"`
	Email     string `json:"email"`
}

type GuestSummary struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type CheckInResponse struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"booking_id"`
	RoomID      int64     `json:"room_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

type CheckOutResponse struct {
	BookingID  int64 `json:"booking_id"`
	CheckedOut int   `json:"checked_out"`
}

const (
	Occupied    = "occupied"
	NotOccupied = "not-occupied"
)

type OccupancyStatus struct {
	RoomID   int64  `json:"room_id"`
	Status   string `json:"status"`
	Guests   int64  `json:"guests"`
	Capacity int    `json:"capacity"`
}

// SweepResult summarises one automatic check-out run.
type SweepResult struct {
	CheckedOut      int   `json:"checked_out"`
	StatusesUpdated int64 `json:"statuses_updated"`
}
