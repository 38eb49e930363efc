package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel/internal/domain"
	"hotel/internal/obs"
	"hotel/internal/pkg/apperror"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingStore) Save(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type MockActivityBookingStore struct {
	mock.Mock
}

func (m *MockActivityBookingStore) GetBooking(ctx context.Context, id int64) (*domain.ActivityBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityBooking), args.Error(1)
}

func (m *MockActivityBookingStore) SaveBooking(ctx context.Context, b *domain.ActivityBooking) error {
	return m.Called(ctx, b).Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockProvider) SessionPayment(ctx context.Context, sessionID string) (*PaymentState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentState), args.Error(1)
}

func (m *MockProvider) Refund(ctx context.Context, intentID string) error {
	return m.Called(ctx, intentID).Error(0)
}

func newTestService() (*Service, *MockBookingStore, *MockActivityBookingStore, *MockProvider) {
	bookings := new(MockBookingStore)
	activities := new(MockActivityBookingStore)
	provider := new(MockProvider)
	svc := NewService(bookings, activities, provider, "http://app/#", "eur", obs.Discard())
	return svc, bookings, activities, provider
}

func roomBooking() *domain.Booking {
	return &domain.Booking{
		ID:        7,
		UserID:    1,
		StartDate: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		Status:    domain.BookingPending,
		Room:      &domain.Room{ID: 3, Name: "101", Price: 100},
	}
}

func TestCreateRoomCheckout_Success(t *testing.T) {
	svc, bookings, _, provider := newTestService()
	ctx := context.Background()
	b := roomBooking()

	bookings.On("GetByID", ctx, int64(7)).Return(b, nil)
	provider.On("CreateCheckoutSession", ctx, mock.MatchedBy(func(r CheckoutRequest) bool {
		return r.AmountCents == 44000 && r.Description == "Room booking for 4 nights" &&
			r.SuccessURL == "http://app/#/bookings/my-bookings/success/7"
	})).Return(&Session{ID: "cs_1", URL: "https://pay/cs_1"}, nil)
	bookings.On("Save", ctx, mock.MatchedBy(func(b *domain.Booking) bool { return b.PaymentSessionID == "cs_1" })).Return(nil)

	got, err := svc.CreateRoomCheckout(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/cs_1", got.URL)
	bookings.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestCreateRoomCheckout_ForeignBooking(t *testing.T) {
	svc, bookings, _, _ := newTestService()
	ctx := context.Background()
	bookings.On("GetByID", ctx, int64(7)).Return(roomBooking(), nil)

	_, err := svc.CreateRoomCheckout(ctx, 2, 7)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRoomCheckout_PreviousSessionSettled(t *testing.T) {
	for status, msg := range map[string]string{
		IntentSucceeded:  "Payment already succeeded",
		IntentProcessing: "Payment is still processing",
	} {
		t.Run(status, func(t *testing.T) {
			svc, bookings, _, provider := newTestService()
			ctx := context.Background()
			b := roomBooking()
			b.PaymentSessionID = "cs_old"

			bookings.On("GetByID", ctx, int64(7)).Return(b, nil)
			provider.On("SessionPayment", ctx, "cs_old").Return(&PaymentState{IntentID: "pi", Status: status}, nil)

			_, err := svc.CreateRoomCheckout(ctx, 1, 7)
			var cerr *apperror.ConflictError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, msg, cerr.Message)
			provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateRoomCheckout_LookupFailureDoesNotBlock(t *testing.T) {
	svc, bookings, _, provider := newTestService()
	ctx := context.Background()
	b := roomBooking()
	b.PaymentSessionID = "cs_old"

	bookings.On("GetByID", ctx, int64(7)).Return(b, nil)
	provider.On("SessionPayment", ctx, "cs_old").Return(nil, errors.New("timeout"))
	provider.On("CreateCheckoutSession", ctx, mock.Anything).Return(&Session{ID: "cs_new", URL: "u"}, nil)
	bookings.On("Save", ctx, mock.Anything).Return(nil)

	got, err := svc.CreateRoomCheckout(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "cs_new", got.SessionID)
}

func TestCreateActivityCheckout(t *testing.T) {
	svc, _, activities, provider := newTestService()
	ctx := context.Background()
	ab := &domain.ActivityBooking{ID: 9, UserID: 1, Participants: 3, TotalPrice: 60, Activity: &domain.Activity{Name: "Yoga"}}

	activities.On("GetBooking", ctx, int64(9)).Return(ab, nil)
	provider.On("CreateCheckoutSession", ctx, mock.MatchedBy(func(r CheckoutRequest) bool {
		return r.AmountCents == 6000 && r.Name == "Payment for Activity Yoga"
	})).Return(&Session{ID: "cs_a", URL: "u"}, nil)
	activities.On("SaveBooking", ctx, ab).Return(nil)

	got, err := svc.CreateActivityCheckout(ctx, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, "cs_a", got.SessionID)
	assert.Equal(t, "cs_a", ab.PaymentSessionID)
}

func TestRefund(t *testing.T) {
	svc, _, _, provider := newTestService()
	ctx := context.Background()

	err := svc.Refund(ctx, &domain.Booking{ID: 1})
	assert.True(t, apperror.IsConflict(err))

	provider.On("Refund", ctx, "pi_ok").Return(nil).Once()
	require.NoError(t, svc.Refund(ctx, &domain.Booking{ID: 1, PaymentIntentID: "pi_ok"}))

	provider.On("Refund", ctx, "pi_bad").Return(errors.New("declined")).Once()
	err = svc.Refund(ctx, &domain.Booking{ID: 2, PaymentIntentID: "pi_bad"})
	assert.True(t, apperror.IsConflict(err))
	provider.AssertExpectations(t)
}
