package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"hotel/internal/domain"
	"hotel/internal/obs"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

func booking() *domain.Booking {
	return &domain.Booking{
		ID:            7,
		BookingNumber: "BOOK-1234ABCD",
		StartDate:     time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		Room:          &domain.Room{Name: "Seeblick"},
		User:          &domain.User{Email: "guest@hotel.at", LastName: "Huber"},
	}
}

func TestSendBookingConfirmation(t *testing.T) {
	mailer := new(MockMailer)
	svc := NewService(mailer, "Hotel Wien")
	ctx := context.Background()
	docs := []Attachment{
		{Name: string(domain.DocBookingConfirmation), Content: []byte("a")},
		{Name: string(domain.DocInvoice), Content: []byte("b")},
	}

	mailer.On("Send", ctx, mock.MatchedBy(func(m Message) bool {
		return m.To == "guest@hotel.at" &&
			m.Subject == "Booking Confirmation" &&
			strings.Contains(m.HTML, "BOOK-1234ABCD") &&
			strings.Contains(m.HTML, "Huber") &&
			strings.Contains(m.HTML, "2024-12-05") &&
			len(m.Attachments) == 2
	})).Return(nil)

	require.NoError(t, svc.SendBookingConfirmation(ctx, booking(), docs))
	mailer.AssertExpectations(t)
}

func TestSendCancellation(t *testing.T) {
	mailer := new(MockMailer)
	svc := NewService(mailer, "Hotel Wien")
	ctx := context.Background()

	mailer.On("Send", ctx, mock.MatchedBy(func(m Message) bool {
		return m.Subject == "Booking Cancellation" &&
			len(m.Attachments) == 1 &&
			m.Attachments[0].Name == "CancellationReceipt.pdf"
	})).Return(nil)

	require.NoError(t, svc.SendCancellation(ctx, booking(), []byte("pdf")))
	mailer.AssertExpectations(t)
}

func TestSend_NoRecipient(t *testing.T) {
	svc := NewService(new(MockMailer), "Hotel")
	b := booking()
	b.User = nil
	assert.ErrorIs(t, svc.SendCancellation(context.Background(), b, nil), ErrNoRecipient)
}

func TestSend_EscapesGuestInput(t *testing.T) {
	mailer := new(MockMailer)
	svc := NewService(mailer, "Hotel")
	b := booking()
	b.User.LastName = "<script>x</script>"

	var sent Message
	mailer.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(Message)
	}).Return(nil)

	require.NoError(t, svc.SendBookingConfirmation(context.Background(), b, nil))
	assert.NotContains(t, sent.HTML, "<script>")
}

func TestBuildMsg(t *testing.T) {
	msg, err := buildMsg("hotel@hotel.at", Message{
		To:          "guest@hotel.at",
		Subject:     "Booking Confirmation",
		HTML:        "<p>hi</p>",
		Attachments: []Attachment{{Name: "Invoice.pdf", Content: []byte("%PDF")}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Booking Confirmation"}, msg.GetGenHeader(mail.HeaderSubject))
	require.Len(t, msg.GetAttachments(), 1)
	assert.Equal(t, "Invoice.pdf", msg.GetAttachments()[0].Name)

	_, err = buildMsg("hotel@hotel.at", Message{To: "not an address"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{Logger: obs.Discard()}.Send(context.Background(), Message{To: "a@b.at"}))
}
