package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel/internal/domain"
	"hotel/internal/obs"
	"hotel/internal/pkg/apperror"
	"hotel/internal/pkg/jwt"
	"hotel/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) RecordFailedLogin(ctx context.Context, id int64, maxFailures int, lockUntil time.Time) error {
	return m.Called(ctx, id, maxFailures, lockUntil).Error(0)
}

func (m *mockUserRepo) ResetFailedLogins(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) ListByRoles(ctx context.Context, roles ...domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, roles)
	return args.Get(0).([]domain.User), args.Error(1)
}

var testNow = time.Date(2024, 11, 20, 9, 30, 0, 0, time.UTC)

func newTestService() (*Service, *mockUserRepo, *jwt.Service) {
	repo := new(mockUserRepo)
	tokens := jwt.New("test-secret", time.Hour)
	svc := NewService(repo, tokens, obs.Discard())
	svc.now = func() time.Time { return testNow }
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo, tokens
}

func guestWithPassword(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: 3, Email: "ada@hotel.at", PasswordHash: string(hash), Role: domain.RoleGuest}
}

func TestRegister_HashesAndSignsIn(t *testing.T) {
	svc, repo, tokens := newTestService()
	ctx := context.Background()
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 3
	}).Return(nil)

	res, err := svc.Register(ctx, RegisterRequest{
		Email:       "ada@hotel.at",
		Password:    "secret-pass",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Nationality: "aut",
		DateOfBirth: "1990-05-01",
	})
	require.NoError(t, err)

	created := repo.Calls[0].Arguments.Get(1).(*domain.User)
	assert.Equal(t, domain.RoleGuest, created.Role)
	assert.Equal(t, "AUT", created.Nationality)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret-pass")))

	claims, err := tokens.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "GUEST", claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "ada@hotel.at", Password: "secret-pass"})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegister_FutureBirthday(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "a@b.at", Password: "secret-pass", DateOfBirth: "2030-01-01"})

	assert.True(t, apperror.IsValidation(err))
}

func TestLogin_Success(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	repo.On("GetByEmail", ctx, "ada@hotel.at").Return(guestWithPassword(t, "secret-pass"), nil)

	res, err := svc.Login(ctx, LoginRequest{Email: "ada@hotel.at", Password: "secret-pass"})

	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	repo.AssertNotCalled(t, "ResetFailedLogins", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByEmail", mock.Anything, "nobody@hotel.at").Return(nil, apperror.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@hotel.at", Password: "x"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_WrongPasswordCounts(t *testing.T) {
	svc, repo, _ := newTestService()
	u := guestWithPassword(t, "secret-pass")
	u.FailedLogins = 1
	repo.On("GetByEmail", mock.Anything, "ada@hotel.at").Return(u, nil)
	repo.On("RecordFailedLogin", mock.Anything, int64(3), 5, testNow.Add(15*time.Minute)).Return(nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@hotel.at", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	repo.AssertExpectations(t)
}

func TestLogin_FifthFailureLocks(t *testing.T) {
	svc, repo, _ := newTestService()
	u := guestWithPassword(t, "secret-pass")
	u.FailedLogins = 4
	repo.On("GetByEmail", mock.Anything, "ada@hotel.at").Return(u, nil)
	repo.On("RecordFailedLogin", mock.Anything, int64(3), 5, mock.Anything).Return(nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@hotel.at", Password: "wrong"})

	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_LockedAccount(t *testing.T) {
	svc, repo, _ := newTestService()
	u := guestWithPassword(t, "secret-pass")
	until := testNow.Add(5 * time.Minute)
	u.LockedUntil = &until
	repo.On("GetByEmail", mock.Anything, "ada@hotel.at").Return(u, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@hotel.at", Password: "secret-pass"})

	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLogin_ExpiredLockIsCleared(t *testing.T) {
	svc, repo, _ := newTestService()
	u := guestWithPassword(t, "secret-pass")
	until := testNow.Add(-time.Minute)
	u.LockedUntil = &until
	repo.On("GetByEmail", mock.Anything, "ada@hotel.at").Return(u, nil)
	repo.On("ResetFailedLogins", mock.Anything, int64(3)).Return(nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@hotel.at", Password: "secret-pass"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateEmployee_RejectsGuestRole(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeRequest{Email: "x@hotel.at", Password: "secret-pass", Role: domain.RoleGuest})

	assert.True(t, apperror.IsValidation(err))
}

func TestListEmployees(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("ListByRoles", mock.Anything, []domain.UserRole{domain.RoleAdmin, domain.RoleReceptionist, domain.RoleCleaningStaff}).
		Return([]domain.User{{ID: 1, Email: "boss@hotel.at", Role: domain.RoleAdmin}}, nil)

	list, err := svc.ListEmployees(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoleAdmin, list[0].Role)
}

func TestGetEmployee_SkipsGuests(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, Role: domain.RoleGuest}, nil)
	repo.On("GetByID", mock.Anything, int64(4)).Return(&domain.User{ID: 4, Role: domain.RoleCleaningStaff}, nil)

	_, err := svc.GetEmployee(context.Background(), 3)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	u, err := svc.GetEmployee(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCleaningStaff, u.Role)
}

func TestUpdateEmployee_AppliesSetFields(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	stored := &domain.User{ID: 5, Email: "desk@hotel.at", FirstName: "Front", LastName: "Desk", Phone: "1", Role: domain.RoleReceptionist, PasswordHash: "old"}
	repo.On("GetByID", ctx, int64(5)).Return(stored, nil)
	repo.On("GetByEmail", ctx, "night@hotel.at").Return(nil, apperror.ErrNotFound)
	repo.On("Update", ctx, stored).Return(nil)
	role := domain.RoleAdmin

	out, err := svc.UpdateEmployee(ctx, 5, UpdateEmployeeRequest{
		FirstName: ptr(" Night "),
		Email:     ptr("night@hotel.at"),
		Role:      &role,
		Password:  ptr("new-secret"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Night", out.FirstName)
	assert.Equal(t, "Desk", out.LastName)
	assert.Equal(t, "1", out.Phone)
	assert.Equal(t, "night@hotel.at", out.Email)
	assert.Equal(t, domain.RoleAdmin, out.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-secret")))
}

func TestUpdateEmployee_EmailTaken(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Email: "desk@hotel.at", Role: domain.RoleReceptionist}, nil)
	repo.On("GetByEmail", mock.Anything, "boss@hotel.at").Return(&domain.User{ID: 1}, nil)

	_, err := svc.UpdateEmployee(context.Background(), 5, UpdateEmployeeRequest{Email: ptr("boss@hotel.at")})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteEmployee_AdminIsNotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)
	repo.On("GetByID", mock.Anything, int64(6)).Return(&domain.User{ID: 6, Role: domain.RoleCleaningStaff}, nil)
	repo.On("Delete", mock.Anything, int64(6)).Return(nil)

	assert.ErrorIs(t, svc.DeleteEmployee(context.Background(), 1), apperror.ErrNotFound)
	require.NoError(t, svc.DeleteEmployee(context.Background(), 6))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func ptr[T any](v T) *T { return &v }

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterPublicRoutes(r.Group("/api/v1"))
	return r
}

func post(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_RegisterValidation(t *testing.T) {
	svc, _, _ := newTestService()
	r := newRouter(svc)

	w := post(r, "/api/v1/auth/register", map[string]string{"email": "not-an-email", "password": "short"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "email", body.Error.Details["email"])
	assert.Equal(t, "min", body.Error.Details["password"])
}

func TestHandler_LoginStatuses(t *testing.T) {
	svc, repo, _ := newTestService()
	u := guestWithPassword(t, "secret-pass")
	u.FailedLogins = 4
	repo.On("GetByEmail", mock.Anything, "ada@hotel.at").Return(u, nil)
	repo.On("GetByEmail", mock.Anything, "ghost@hotel.at").Return(nil, apperror.ErrNotFound)
	repo.On("RecordFailedLogin", mock.Anything, int64(3), 5, mock.Anything).Return(nil)
	r := newRouter(svc)

	w := post(r, "/api/v1/auth/login", LoginRequest{Email: "ghost@hotel.at", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/api/v1/auth/login", LoginRequest{Email: "ada@hotel.at", Password: "wrong"})
	assert.Equal(t, http.StatusLocked, w.Code)
}

func TestHandler_LoginStoreFailure(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByEmail", mock.Anything, "ada@hotel.at").Return(nil, errors.New("db down"))
	r := newRouter(svc)

	w := post(r, "/api/v1/auth/login", LoginRequest{Email: "ada@hotel.at", Password: "x"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
