package activity

import (
	"time"

	"hotel/internal/domain"
)

// TimeslotRequest describes one recurring or one-off time window. Kind is
// WEEKLY, ONE_OFF or DAILY.
type TimeslotRequest struct {
	Kind         string `json:"kind"`
	DayOfWeek    *int   `json:"day_of_week,omitempty"`
	SpecificDate string `json:"specific_date,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

// ActivityRequest is used for create and update. On update nil fields keep
// their stored value and a nil Timeslots keeps the current schedule.
type ActivityRequest struct {
	Name        *string           `json:"name" validate:"create_required,omitempty,min=3,max=100"`
	Description *string           `json:"description" validate:"create_required,omitempty,max=1000"`
	Price       *float64          `json:"price" validate:"create_required,omitempty,gte=0,lte=10000"`
	Capacity    *int              `json:"capacity" validate:"create_required,omitempty,gte=1,lte=1000"`
	Categories  *string           `json:"categories" validate:"omitempty,max=255"`
	Timeslots   []TimeslotRequest `json:"timeslots"`
}

type CreateBookingRequest struct {
	ActivityID     int64 `json:"activity_id"`
	ActivitySlotID int64 `json:"activity_slot_id"`
	Participants   int   `json:"participants"`
}

type BookingDetails struct {
	ID           int64                `json:"id"`
	ActivityID   int64                `json:"activity_id"`
	ActivityName string               `json:"activity_name"`
	SlotID       int64                `json:"activity_slot_id"`
	Date         string               `json:"date,omitempty"`
	StartTime    string               `json:"start_time,omitempty"`
	EndTime      string               `json:"end_time,omitempty"`
	Participants int                  `json:"participants"`
	TotalPrice   float64              `json:"total_price"`
	Status       domain.BookingStatus `json:"status"`
	Paid         bool                 `json:"paid"`
	BookingDate  string               `json:"booking_date"`
}

type PaymentStatusResponse struct {
	Paid bool `json:"paid"`
}

func toDetails(b *domain.ActivityBooking) BookingDetails {
	d := BookingDetails{
		ID:           b.ID,
		ActivityID:   b.ActivityID,
		SlotID:       b.ActivitySlotID,
		Participants: b.Participants,
		TotalPrice:   b.TotalPrice,
		Status:       b.Status,
		Paid:         b.Paid,
		BookingDate:  b.BookingDate.Format(time.DateOnly),
	}
	if b.Activity != nil {
		d.ActivityName = b.Activity.Name
	}
	if b.Slot != nil {
		d.Date = b.Slot.Date.Format(time.DateOnly)
		d.StartTime = b.Slot.StartTime
		d.EndTime = b.Slot.EndTime
	}
	return d
}
