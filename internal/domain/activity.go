package domain

import (
	"errors"
	"fmt"
	"time"
)

// SlotHorizonMonths is how far ahead recurring timeslots are materialised.
const SlotHorizonMonths = 6

// MinBookingLead is the minimum time between booking and the slot start.
const MinBookingLead = 2 * time.Hour

type Activity struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"not null"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	Categories  string    `json:"categories,omitempty" gorm:"size:512"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Timeslots []ActivityTimeslotInfo `json:"timeslots,omitempty" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

type ActivitySlot struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ActivityID int64     `json:"activity_id" gorm:"not null;index"`
	Date       time.Time `json:"date" gorm:"type:date;not null;index"`
	StartTime  string    `json:"start_time" gorm:"size:5;not null"`
	EndTime    string    `json:"end_time" gorm:"size:5;not null"`
	Capacity   int       `json:"capacity" gorm:"not null"`
	Occupied   int       `json:"occupied" gorm:"not null;default:0"`
}

func (s *ActivitySlot) Free() int {
	return s.Capacity - s.Occupied
}

// StartsAt combines the slot date and start time in loc.
func (s *ActivitySlot) StartsAt(loc *time.Location) (time.Time, error) {
	clock, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot %d start time: %w", s.ID, err)
	}
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

type ActivityBooking struct {
	ID               int64         `json:"id" gorm:"primaryKey"`
	UserID           int64         `json:"user_id" gorm:"not null;index"`
	ActivityID       int64         `json:"activity_id" gorm:"not null;index"`
	ActivitySlotID   int64         `json:"activity_slot_id" gorm:"not null;index"`
	BookingDate      time.Time     `json:"booking_date" gorm:"type:date;not null"`
	Participants     int           `json:"participants" gorm:"not null"`
	TotalPrice       float64       `json:"total_price" gorm:"not null"`
	Status           BookingStatus `json:"status" gorm:"size:16"`
	Paid             bool          `json:"paid" gorm:"column:is_paid;not null;default:false"`
	PaymentSessionID string        `json:"-" gorm:"size:255"`
	PaymentIntentID  string        `json:"-" gorm:"size:255"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Activity *Activity     `json:"activity,omitempty" gorm:"foreignKey:ActivityID"`
	Slot     *ActivitySlot `json:"slot,omitempty" gorm:"foreignKey:ActivitySlotID"`
}

// Recurrence describes when a timeslot template produces concrete slots.
// It is one of Weekly, OneOff or Daily.
type Recurrence interface {
	occursOn(day time.Time) bool
}

type Weekly struct{ Day time.Weekday }

type OneOff struct{ Date time.Time }

type Daily struct{}

func (w Weekly) occursOn(day time.Time) bool { return day.Weekday() == w.Day }
func (o OneOff) occursOn(day time.Time) bool { return DateOf(day).Equal(DateOf(o.Date)) }
func (Daily) occursOn(time.Time) bool        { return true }

const (
	RecurrenceWeekly = "WEEKLY"
	RecurrenceOneOff = "ONE_OFF"
	RecurrenceDaily  = "DAILY"
)

var ErrInvalidRecurrence = errors.New("invalid timeslot recurrence")

// ActivityTimeslotInfo is the stored form of a Recurrence plus the time of day.
type ActivityTimeslotInfo struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	ActivityID   int64      `json:"activity_id" gorm:"not null;index"`
	Kind         string     `json:"kind" gorm:"size:16;not null"`
	DayOfWeek    *int       `json:"day_of_week,omitempty"`
	SpecificDate *time.Time `json:"specific_date,omitempty" gorm:"type:date"`
	StartTime    string     `json:"start_time" gorm:"size:5;not null"`
	EndTime      string     `json:"end_time" gorm:"size:5;not null"`
}

func NewTimeslotInfo(r Recurrence, start, end string) ActivityTimeslotInfo {
	info := ActivityTimeslotInfo{StartTime: start, EndTime: end}
	switch v := r.(type) {
	case Weekly:
		day := int(v.Day)
		info.Kind = RecurrenceWeekly
		info.DayOfWeek = &day
	case OneOff:
		d := DateOf(v.Date)
		info.Kind = RecurrenceOneOff
		info.SpecificDate = &d
	default:
		info.Kind = RecurrenceDaily
	}
	return info
}

func (i ActivityTimeslotInfo) Recurrence() (Recurrence, error) {
	switch i.Kind {
	case RecurrenceWeekly:
		if i.DayOfWeek == nil || *i.DayOfWeek < 0 || *i.DayOfWeek > 6 {
			return nil, ErrInvalidRecurrence
		}
		return Weekly{Day: time.Weekday(*i.DayOfWeek)}, nil
	case RecurrenceOneOff:
		if i.SpecificDate == nil {
			return nil, ErrInvalidRecurrence
		}
		return OneOff{Date: *i.SpecificDate}, nil
	case RecurrenceDaily:
		return Daily{}, nil
	default:
		return nil, ErrInvalidRecurrence
	}
}

// MaterializeSlots expands the templates into concrete slots from today up to
// and including the day SlotHorizonMonths ahead. One-off dates in the past
// produce nothing.
func MaterializeSlots(activity *Activity, templates []ActivityTimeslotInfo, today time.Time) ([]ActivitySlot, error) {
	today = DateOf(today)
	horizon := today.AddDate(0, SlotHorizonMonths, 0)

	var slots []ActivitySlot
	for _, t := range templates {
		rec, err := t.Recurrence()
		if err != nil {
			return nil, err
		}
		if o, ok := rec.(OneOff); ok {
			if !DateOf(o.Date).Before(today) {
				slots = append(slots, newSlot(activity, DateOf(o.Date), t))
			}
			continue
		}
		for day := today; !day.After(horizon); day = day.AddDate(0, 0, 1) {
			if rec.occursOn(day) {
				slots = append(slots, newSlot(activity, day, t))
			}
		}
	}
	return slots, nil
}

func newSlot(a *Activity, day time.Time, t ActivityTimeslotInfo) ActivitySlot {
	return ActivitySlot{
		ActivityID: a.ID,
		Date:       day,
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
		Capacity:   a.Capacity,
	}
}
