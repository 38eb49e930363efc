package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// BlockingStatuses are the statuses that occupy a room for their date range.
var BlockingStatuses = []BookingStatus{BookingPending, BookingActive, BookingCompleted}

type PaymentMethod string

const (
	PayInAdvance PaymentMethod = "PayInAdvance"
	PayCash      PaymentMethod = "PayCash"
)

type Booking struct {
	ID               int64         `json:"id" gorm:"primaryKey"`
	RoomID           int64         `json:"room_id" gorm:"not null;index"`
	UserID           int64         `json:"user_id" gorm:"not null;index"`
	StartDate        time.Time     `json:"start_date" gorm:"type:date;not null"`
	EndDate          time.Time     `json:"end_date" gorm:"type:date;not null"`
	Paid             bool          `json:"paid" gorm:"column:is_paid;not null;default:false"`
	Status           BookingStatus `json:"status" gorm:"size:16;index"`
	CancellationDate *time.Time    `json:"cancellation_date,omitempty" gorm:"type:date"`
	BookingNumber    string        `json:"booking_number" gorm:"size:32;uniqueIndex;not null"`
	BookingDate      time.Time     `json:"booking_date" gorm:"type:date;not null;<-:create"`
	InvoiceNumber    string        `json:"invoice_number" gorm:"size:64;uniqueIndex"`
	InvoiceDate      *time.Time    `json:"invoice_date,omitempty" gorm:"type:date"`
	TaxAmount        *float64      `json:"tax_amount,omitempty"`
	NumberOfNights   *int          `json:"number_of_nights,omitempty"`
	PaymentSessionID string        `json:"-" gorm:"size:255"`
	PaymentIntentID  string        `json:"-" gorm:"size:255"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ResolveStatus derives the status of a stay from the calendar day. A cancelled
// booking stays cancelled regardless of dates.
func ResolveStatus(today, start, end time.Time, cancelled bool) BookingStatus {
	if cancelled {
		return BookingCancelled
	}
	today, start, end = DateOf(today), DateOf(start), DateOf(end)
	switch {
	case !today.Before(end):
		return BookingCompleted
	case !today.Before(start):
		return BookingActive
	default:
		return BookingPending
	}
}

// Refresh recomputes the status for the given moment and fills the invoice
// fields the first time it runs. Invoice number, invoice date, tax and nights
// are never rewritten once set.
func (b *Booking) Refresh(now time.Time, roomPrice float64) {
	if b.Status == BookingCancelled {
		return
	}
	b.Status = ResolveStatus(now, b.StartDate, b.EndDate, false)

	if b.InvoiceNumber == "" {
		b.InvoiceNumber = NewInvoiceNumber()
	}
	if b.InvoiceDate == nil {
		d := DateOf(now)
		b.InvoiceDate = &d
	}
	if b.TaxAmount == nil {
		tax := RoomCharges(roomPrice, b.StartDate, b.EndDate).Tax
		b.TaxAmount = &tax
	}
	if b.NumberOfNights == nil {
		n := Nights(b.StartDate, b.EndDate)
		b.NumberOfNights = &n
	}
}

// Cancel marks the booking cancelled on the given day.
func (b *Booking) Cancel(now time.Time) {
	d := DateOf(now)
	b.Status = BookingCancelled
	b.CancellationDate = &d
}

// Charges returns the price breakdown for the stay. The room must be loaded.
func (b *Booking) Charges() Charges {
	if b.Room == nil {
		return Charges{Nights: Nights(b.StartDate, b.EndDate)}
	}
	return RoomCharges(b.Room.Price, b.StartDate, b.EndDate)
}

func NewBookingNumber() string {
	return "BOOK-" + strings.ToUpper(uuid.NewString()[:8])
}

func NewInvoiceNumber() string {
	return "INV-" + uuid.NewString()
}

// Overlaps reports whether two stays share at least one calendar day. Both
// ends are inclusive, so a checkout and a checkin on the same day collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DateOf(aStart).After(DateOf(bEnd)) && !DateOf(aEnd).Before(DateOf(bStart))
}

// Blocks reports whether a booking with this status occupies its room.
func (s BookingStatus) Blocks() bool {
	return s != BookingCancelled
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
