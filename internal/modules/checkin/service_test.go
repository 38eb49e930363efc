package checkin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/events"
	"hotel/internal/obs"
	"hotel/internal/pkg/apperror"
	"hotel/internal/repository"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

var testNow = time.Date(2024, 11, 20, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	db        *gorm.DB
	publisher *MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:checkin_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, obs.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{db: db, publisher: new(MockPublisher)}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.svc = NewService(
		repository.NewBookingRepository(db),
		repository.NewCheckInRepository(db),
		repository.NewRoomRepository(db),
		repository.NewUserRepository(db),
		f.publisher,
		obs.Discard(),
	)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func date(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) room(t *testing.T, capacity int) *domain.Room {
	t.Helper()
	r := &domain.Room{Name: "Room " + strconv.Itoa(capacity), Price: 100, Capacity: capacity}
	require.NoError(t, f.db.Create(r).Error)
	return r
}

func (f *fixture) stay(t *testing.T, roomID, userID int64, start, end string, paid bool) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		RoomID:        roomID,
		UserID:        userID,
		StartDate:     date(start),
		EndDate:       date(end),
		Paid:          paid,
		BookingNumber: domain.NewBookingNumber(),
		BookingDate:   date("2024-11-01"),
	}
	b.Refresh(testNow, 100)
	require.NoError(t, f.db.Create(b).Error)
	return b
}

func (f *fixture) checkedIn(t *testing.T, bookingID, guestID int64) {
	t.Helper()
	require.NoError(t, f.db.Create(&domain.CheckIn{
		BookingID:      bookingID,
		GuestID:        guestID,
		PassportNumber: "P1234567",
		CheckedInAt:    testNow.Add(-24 * time.Hour),
	}).Error)
}

func validationErrors(t *testing.T, err error) []string {
	t.Helper()
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Errors
}

func TestCheckIn_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, 2)
	b := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-22", false)

	out, err := f.svc.CheckIn(ctx, 1, CheckInRequest{BookingID: b.ID, PassportNumber: "AB123456"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, out.BookingID)
	assert.Equal(t, room.ID, out.RoomID)
	assert.Equal(t, testNow, out.CheckedInAt)

	occ, err := f.svc.Occupancy(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, Occupied, occ.Status)
	assert.Equal(t, int64(1), occ.Guests)
	assert.Equal(t, 2, occ.Capacity)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.GuestCheckedIn
	}))
}

func TestCheckIn_RejectsMalformedPassport(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), 1, CheckInRequest{BookingID: 1, PassportNumber: "AB-12"})

	assert.Equal(t, []string{"Passport number must consist of 6 to 9 letters or digits."}, validationErrors(t, err))
}

func TestCheckIn_CollectsViolations(t *testing.T) {
	f := newFixture(t)
	room := f.room(t, 1)
	current := f.stay(t, room.ID, 2, "2024-11-18", "2024-11-21", false)
	f.checkedIn(t, current.ID, 2)
	future := f.stay(t, room.ID, 1, "2024-11-25", "2024-11-27", false)

	_, err := f.svc.CheckIn(context.Background(), 3, CheckInRequest{BookingID: future.ID, PassportNumber: "XY987654"})

	assert.Equal(t, []string{
		"Room doesn't have enough capacity.",
		"Room can only be checked in by user who did the booking.",
		"Cannot check into a booking before the booked date.",
	}, validationErrors(t, err))
}

func TestCheckIn_Repeated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, 3)
	b := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-22", true)
	req := CheckInRequest{BookingID: b.ID, PassportNumber: "AB123456"}

	_, err := f.svc.CheckIn(ctx, 1, req)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, 1, req)
	assert.Equal(t, []string{"Guest is already checked in."}, validationErrors(t, err))

	_, err = f.svc.CheckOut(ctx, 1, domain.RoleGuest, b.ID)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, 1, req)
	assert.Equal(t, []string{"Cannot check into a booking multiple times."}, validationErrors(t, err))
}

func TestCheckIn_EndedOrCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, 2)
	ended := f.stay(t, room.ID, 1, "2024-11-15", "2024-11-20", false)
	cancelled := f.stay(t, room.ID, 1, "2024-11-20", "2024-11-23", false)
	require.NoError(t, f.db.Model(cancelled).Update("status", domain.BookingCancelled).Error)

	_, err := f.svc.CheckIn(ctx, 1, CheckInRequest{BookingID: ended.ID, PassportNumber: "AB123456"})
	assert.Equal(t, []string{"Cannot check into a booking that has already ended."}, validationErrors(t, err))

	_, err = f.svc.CheckIn(ctx, 1, CheckInRequest{BookingID: cancelled.ID, PassportNumber: "AB123456"})
	assert.Equal(t, []string{"Cannot check into a cancelled booking."}, validationErrors(t, err))
}

func TestCheckIn_UnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), 1, CheckInRequest{BookingID: 999, PassportNumber: "AB123456"})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCheckOut_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := f.room(t, 2)
	unpaid := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-20", false)
	paid := f.stay(t, room.ID, 1, "2024-11-20", "2024-11-22", true)

	_, err := f.svc.CheckOut(ctx, 1, domain.RoleGuest, unpaid.ID)
	assert.Equal(t, []string{"Checkout is not possible because the booking has not been paid yet."}, validationErrors(t, err))

	_, err = f.svc.CheckOut(ctx, 7, domain.RoleGuest, paid.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CheckOut(ctx, 1, domain.RoleGuest, paid.ID)
	assert.True(t, apperror.IsConflict(err))

	f.checkedIn(t, paid.ID, 1)
	f.checkedIn(t, paid.ID, 2)
	out, err := f.svc.CheckOut(ctx, 99, domain.RoleReceptionist, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.CheckedOut)

	occ, err := f.svc.Occupancy(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, NotOccupied, occ.Status)
	assert.Zero(t, occ.Guests)
}

func TestPerformAutoCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.room(t, 2)
	second := f.room(t, 3)
	leaving := f.stay(t, first.ID, 1, "2024-11-17", "2024-11-20", false)
	staying := f.stay(t, second.ID, 2, "2024-11-18", "2024-11-23", false)
	f.checkedIn(t, leaving.ID, 1)
	f.checkedIn(t, leaving.ID, 3)
	f.checkedIn(t, staying.ID, 2)

	res, err := f.svc.PerformAutoCheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CheckedOut)
	assert.Equal(t, int64(2), res.StatusesUpdated)

	var stored domain.Booking
	require.NoError(t, f.db.First(&stored, leaving.ID).Error)
	assert.Equal(t, domain.BookingCompleted, stored.Status)

	occ, err := f.svc.Occupancy(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), occ.Guests)

	res, err = f.svc.PerformAutoCheckOut(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.CheckedOut)
}

type countingSweeper struct {
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (s *countingSweeper) PerformAutoCheckOut(context.Context) (SweepResult, error) {
	s.calls.Add(1)
	s.cancel()
	return SweepResult{}, nil
}

func TestScheduler_RunsImmediatelyAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sw := &countingSweeper{cancel: cancel}

	done := make(chan struct{})
	go func() {
		NewScheduler(sw, time.Hour, obs.Discard()).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, int32(1), sw.calls.Load())
}

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.GetHeader("X-User"), 10, 64)
		c.Set("user_id", id)
		c.Set("role", c.GetHeader("X-Role"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func call(r http.Handler, method, path, body string, userID int64, role domain.UserRole) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", strconv.FormatInt(userID, 10))
	req.Header.Set("X-Role", string(role))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CheckInAndOut(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f.svc)
	room := f.room(t, 2)
	b := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-22", true)

	w := call(r, http.MethodPost, "/api/v1/check-in", `{"passport_number":"AB123456"}`, 1, domain.RoleGuest)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := fmt.Sprintf(`{"booking_id":%d,"passport_number":"AB123456"}`, b.ID)
	w = call(r, http.MethodPost, "/api/v1/check-in", body, 1, domain.RoleGuest)
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodGet, fmt.Sprintf("/api/v1/check-in/rooms/%d/occupancy", room.ID), "", 1, domain.RoleGuest)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodGet, fmt.Sprintf("/api/v1/check-in/rooms/%d/occupancy", room.ID), "", 5, domain.RoleReceptionist)
	require.Equal(t, http.StatusOK, w.Code)
	var occ struct {
		Data OccupancyStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &occ))
	assert.Equal(t, Occupied, occ.Data.Status)

	w = call(r, http.MethodPost, fmt.Sprintf("/api/v1/check-out/%d", b.ID), "", 2, domain.RoleGuest)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, fmt.Sprintf("/api/v1/check-out/%d", b.ID), "", 1, domain.RoleGuest)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_AutoCheckOutAdminOnly(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f.svc)

	w := call(r, http.MethodPost, "/api/v1/check-out/auto", "", 5, domain.RoleReceptionist)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/api/v1/check-out/auto", "", 1, domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (f *fixture) guest(t *testing.T, id int64, email string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Email: email, FirstName: "Guest", LastName: strconv.FormatInt(id, 10), Role: domain.RoleGuest, PasswordHash: "h"}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func TestManualCheckIn_UsesGuestOfEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.guest(t, 1, "ada@hotel.at")
	f.guest(t, 2, "alan@hotel.at")
	room := f.room(t, 2)
	b := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-22", false)
	req := CheckInRequest{BookingID: b.ID, PassportNumber: "AB123456"}

	_, err := f.svc.ManualCheckIn(ctx, "alan@hotel.at", req)
	assert.Equal(t, []string{"Room can only be checked in by user who did the booking."}, validationErrors(t, err))

	_, err = f.svc.ManualCheckIn(ctx, "ghost@hotel.at", req)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	out, err := f.svc.ManualCheckIn(ctx, "ADA@hotel.at", req)
	require.NoError(t, err)
	assert.Equal(t, room.ID, out.RoomID)

	status, err := f.svc.Status(ctx, "ada@hotel.at")
	require.NoError(t, err)
	assert.Equal(t, []CheckInStatus{{BookingID: b.ID, Email: "ada@hotel.at"}}, status)
}

func TestStatus_DropsCheckedOutBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.guest(t, 1, "ada@hotel.at")
	room := f.room(t, 2)
	done := f.stay(t, room.ID, 1, "2024-11-10", "2024-11-12", true)
	f.checkedIn(t, done.ID, 1)
	_, err := f.svc.CheckOut(ctx, 1, domain.RoleGuest, done.ID)
	require.NoError(t, err)

	status, err := f.svc.Status(ctx, "ada@hotel.at")
	require.NoError(t, err)
	assert.Empty(t, status)
}

func TestGuestsAndRemoveGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.guest(t, 1, "ada@hotel.at")
	f.guest(t, 2, "alan@hotel.at")
	room := f.room(t, 3)
	b := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-22", false)

	_, err := f.svc.Guests(ctx, b.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	f.checkedIn(t, b.ID, 1)
	f.checkedIn(t, b.ID, 2)
	guests, err := f.svc.Guests(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, guests, 2)

	require.NoError(t, f.svc.RemoveGuest(ctx, b.ID, "alan@hotel.at"))
	assert.ErrorIs(t, f.svc.RemoveGuest(ctx, b.ID, "alan@hotel.at"), apperror.ErrNotFound)
	assert.ErrorIs(t, f.svc.RemoveGuest(ctx, 999, "ada@hotel.at"), apperror.ErrNotFound)

	occ, err := f.svc.Occupancy(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), occ.Guests)
}

func TestHandler_ManualCheckInDesk(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f.svc)
	f.guest(t, 1, "ada@hotel.at")
	room := f.room(t, 2)
	b := f.stay(t, room.ID, 1, "2024-11-19", "2024-11-22", true)
	body := fmt.Sprintf(`{"booking_id":%d,"passport_number":"AB123456"}`, b.ID)

	w := call(r, http.MethodPost, "/api/v1/manual-checkin/ada@hotel.at", body, 9, domain.RoleCleaningStaff)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/api/v1/manual-checkin/ada@hotel.at", body, 9, domain.RoleReceptionist)
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodGet, "/api/v1/manual-checkin/checkin-status/ada@hotel.at", "", 9, domain.RoleReceptionist)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Data []CheckInStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, []CheckInStatus{{BookingID: b.ID, Email: "ada@hotel.at"}}, status.Data)

	w = call(r, http.MethodGet, fmt.Sprintf("/api/v1/manual-checkin/all-guests/%d", b.ID), "", 9, domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/v1/manual-checkin/checkout", fmt.Sprintf(`{"booking_id":%d}`, b.ID), 9, domain.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodDelete, fmt.Sprintf("/api/v1/manual-checkin/%d/ada@hotel.at", b.ID), "", 9, domain.RoleReceptionist)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodDelete, fmt.Sprintf("/api/v1/manual-checkin/%d/ada@hotel.at", b.ID), "", 9, domain.RoleReceptionist)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
