package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"hotel/internal/domain"
)

var ErrNoRecipient = errors.New("booking has no guest email")

var (
	confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h1>Booking Confirmation</h1>
<p>Dear Mr./Ms. {{.LastName}},</p>
<p>Thank you for choosing the {{.Hotel}} for your upcoming stay. We are delighted to confirm that your booking has been processed.</p>
<h2>Booking Details</h2>
<ul>
<li><strong>Booking Number:</strong> {{.BookingNumber}}</li>
<li><strong>Check-in Date:</strong> {{.Start}}</li>
<li><strong>Check-out Date:</strong> {{.End}}</li>
<li><strong>Room:</strong> {{.Room}}</li>
</ul>
<h2>Cancellation Policy</h2>
<p>You can cancel your reservation in the "My Bookings" section of our website.</p>
<p>Warm regards,<br>The {{.Hotel}} Team</p>`))

	cancellationTmpl = template.Must(template.New("cancellation").Parse(`<h1>Booking Cancellation</h1>
<p>Dear Mr./Ms. {{.LastName}},</p>
<p>your booking has been cancelled. Below are the details of your cancelled reservation:</p>
<h2>Cancellation Details</h2>
<ul>
<li><strong>Booking Number:</strong> {{.BookingNumber}}</li>
<li><strong>Room Name:</strong> {{.Room}}</li>
<li><strong>Booking Period:</strong> {{.Start}} to {{.End}}</li>
</ul>
<p>The cancellation receipt is attached.</p>
<p>Warm regards,<br>The {{.Hotel}} Team</p>`))
)

type mailData struct {
	Hotel         string
	LastName      string
	BookingNumber string
	Room          string
	Start         string
	End           string
}

// Service renders guest emails for bookings and hands them to a Mailer.
type Service struct {
	mailer    Mailer
	hotelName string
}

func NewService(mailer Mailer, hotelName string) *Service {
	return &Service{mailer: mailer, hotelName: hotelName}
}

// SendBookingConfirmation mails the confirmation with docs attached. The
// booking must have its room and guest loaded.
func (s *Service) SendBookingConfirmation(ctx context.Context, b *domain.Booking, docs []Attachment) error {
	return s.send(ctx, b, "Booking Confirmation", confirmationTmpl, docs)
}

func (s *Service) SendCancellation(ctx context.Context, b *domain.Booking, receipt []byte) error {
	return s.send(ctx, b, "Booking Cancellation", cancellationTmpl, []Attachment{
		{Name: string(domain.DocCancellationReceipt), Content: receipt},
	})
}

func (s *Service) send(ctx context.Context, b *domain.Booking, subject string, tmpl *template.Template, docs []Attachment) error {
	if b.User == nil || b.User.Email == "" {
		return ErrNoRecipient
	}
	data := mailData{
		Hotel:         s.hotelName,
		LastName:      b.User.LastName,
		BookingNumber: b.BookingNumber,
		Start:         b.StartDate.Format(time.DateOnly),
		End:           b.EndDate.Format(time.DateOnly),
	}
	if b.Room != nil {
		data.Room = b.Room.Name
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return s.mailer.Send(ctx, Message{
		To:          b.User.Email,
		Subject:     subject,
		HTML:        body.String(),
		Attachments: docs,
	})
}
