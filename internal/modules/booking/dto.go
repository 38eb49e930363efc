package booking

import (
	"time"

	"hotel/internal/domain"
)

type CreateBookingRequest struct {
	RoomID        int64                `json:"room_id" validate:"gt=0"`
	StartDate     string               `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string               `json:"end_date" validate:"required,datetime=2006-01-02"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"oneof=PayInAdvance PayCash"`
}

// BookingDetails is the read model returned for a single booking.
type BookingDetails struct {
	ID               int64                `json:"id"`
	BookingNumber    string               `json:"booking_number"`
	RoomID           int64                `json:"room_id"`
	RoomName         string               `json:"room_name"`
	UserID           int64                `json:"user_id"`
	GuestName        string               `json:"guest_name,omitempty"`
	GuestEmail       string               `json:"guest_email,omitempty"`
	StartDate        string               `json:"start_date"`
	EndDate          string               `json:"end_date"`
	Status           domain.BookingStatus `json:"status"`
	Paid             bool                 `json:"paid"`
	BookingDate      string               `json:"booking_date"`
	CancellationDate string               `json:"cancellation_date,omitempty"`
	InvoiceNumber    string               `json:"invoice_number"`
	domain.Charges
}

type PagedBookings struct {
	Items []BookingDetails `json:"items"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Total int64            `json:"total"`
}

type PaymentStatusResponse struct {
	Paid bool `json:"paid"`
}

func toDetails(b *domain.Booking) BookingDetails {
	d := BookingDetails{
		ID:            b.ID,
		BookingNumber: b.BookingNumber,
		RoomID:        b.RoomID,
		UserID:        b.UserID,
		StartDate:     b.StartDate.Format(time.DateOnly),
		EndDate:       b.EndDate.Format(time.DateOnly),
		Status:        b.Status,
		Paid:          b.Paid,
		BookingDate:   b.BookingDate.Format(time.DateOnly),
		InvoiceNumber: b.InvoiceNumber,
		Charges:       b.Charges(),
	}
	if b.Room != nil {
		d.RoomName = b.Room.Name
	}
	if b.User != nil {
		d.GuestName = b.User.FullName()
		d.GuestEmail = b.User.Email
	}
	if b.CancellationDate != nil {
		d.CancellationDate = b.CancellationDate.Format(time.DateOnly)
	}
	return d
}
