package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel/internal/domain"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newRouter(f *fixture, role domain.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Set("role", string(role))
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandler_CreateValidation(t *testing.T) {
	f := newFixture()
	r := newRouter(f, domain.RoleGuest)

	w, env := do(t, r, http.MethodPost, "/api/v1/bookings", map[string]any{"payment_method": "PayCash"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	var details []string
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Len(t, details, 3)
}

func TestHandler_CreateConflict(t *testing.T) {
	f := newFixture()
	f.bookings.On("IsRoomAvailable", mock.Anything, int64(3), mock.Anything, mock.Anything).Return(false, nil)
	r := newRouter(f, domain.RoleGuest)

	w, env := do(t, r, http.MethodPost, "/api/v1/bookings", validRequest())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestHandler_CreateDeliveryFailure(t *testing.T) {
	f := newFixture()
	stored := storedBooking()
	f.bookings.On("IsRoomAvailable", mock.Anything, int64(3), mock.Anything, mock.Anything).Return(true, nil)
	f.rooms.On("GetByID", mock.Anything, int64(3)).Return(&domain.Room{ID: 3, Price: 100}, nil)
	f.bookings.On("CreateIfAvailable", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Booking).ID = 11
	}).Return(nil)
	f.bookings.On("GetByID", mock.Anything, int64(11)).Return(stored, nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.generator.On("Confirmation", stored).Return([]byte(nil), errors.New("font missing"))
	r := newRouter(f, domain.RoleGuest)

	w, env := do(t, r, http.MethodPost, "/api/v1/bookings", validRequest())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "DOCUMENT_DELIVERY_FAILED", env.Error.Code)
	var details BookingDetails
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Equal(t, int64(11), details.ID)
}

func TestHandler_GetForbidden(t *testing.T) {
	f := newFixture()
	b := storedBooking()
	b.UserID = 5
	f.bookings.On("GetByID", mock.Anything, int64(11)).Return(b, nil)
	r := newRouter(f, domain.RoleGuest)

	w, _ := do(t, r, http.MethodGet, "/api/v1/bookings/11", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_PagedListRequiresEmployee(t *testing.T) {
	f := newFixture()
	r := newRouter(f, domain.RoleGuest)

	w, _ := do(t, r, http.MethodGet, "/api/v1/bookings?page=0&size=5", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_MarkPaid(t *testing.T) {
	f := newFixture()
	b := storedBooking()
	f.bookings.On("GetByID", mock.Anything, int64(11)).Return(b, nil)
	f.bookings.On("Save", mock.Anything, b).Return(nil)
	r := newRouter(f, domain.RoleAdmin)

	w, env := do(t, r, http.MethodPost, "/api/v1/bookings/11/mark-paid", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var details BookingDetails
	require.NoError(t, json.Unmarshal(env.Data, &details))
	assert.True(t, details.Paid)
}

func TestHandler_MarkPaidIsAdminOnly(t *testing.T) {
	f := newFixture()
	r := newRouter(f, domain.RoleReceptionist)

	w, _ := do(t, r, http.MethodPost, "/api/v1/bookings/11/mark-paid", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	f.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestHandler_InvalidID(t *testing.T) {
	f := newFixture()
	r := newRouter(f, domain.RoleGuest)

	w, env := do(t, r, http.MethodGet, "/api/v1/bookings/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
}
