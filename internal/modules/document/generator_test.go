package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domain"
)

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		UserID:        1,
		StartDate:     time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		BookingNumber: "BOOK-ABCDEF12",
		InvoiceNumber: "INV-1",
		Status:        domain.BookingPending,
		Room:          &domain.Room{ID: 3, Name: "Alpenblick", Price: 100},
		User:          &domain.User{ID: 1, Email: "g@hotel.at", FirstName: "Jörg", LastName: "Müller"},
	}
}

func TestGenerator_RendersPDFs(t *testing.T) {
	gen := NewGenerator("Hotel Wien", "ATU123")
	gen.now = func() time.Time { return time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC) }
	b := sampleBooking()

	for name, render := range map[string]func(*domain.Booking) ([]byte, error){
		"confirmation": gen.Confirmation,
		"invoice":      gen.Invoice,
		"cancellation": gen.CancellationReceipt,
	} {
		t.Run(name, func(t *testing.T) {
			out, err := render(b)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		})
	}
}

func TestGenerator_IncompleteBooking(t *testing.T) {
	gen := NewGenerator("Hotel", "ATU")
	b := sampleBooking()
	b.User = nil

	_, err := gen.Invoice(b)
	assert.ErrorIs(t, err, ErrIncompleteBooking)

	_, err = gen.Confirmation(nil)
	assert.ErrorIs(t, err, ErrIncompleteBooking)
}
