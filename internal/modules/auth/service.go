package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hotel/internal/domain"
	"hotel/internal/pkg/apperror"
	"hotel/internal/repository"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// Service handles sign-up, login and the staff directory.
type Service struct {
	users      UserRepository
	tokens     TokenIssuer
	log        *slog.Logger
	now        func() time.Time
	bcryptCost int
}

func NewService(users UserRepository, tokens TokenIssuer, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		log:        log,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates a guest account and signs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	u := &domain.User{
		Email:       req.Email,
		Role:        domain.RoleGuest,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Phone:       req.Phone,
		Nationality: strings.ToUpper(req.Nationality),
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
		if err != nil {
			return nil, apperror.Validation([]string{"Date of birth must be a date in YYYY-MM-DD format."})
		}
		if !dob.Before(domain.DateOf(s.now())) {
			return nil, apperror.Validation([]string{"Date of birth must be in the past."})
		}
		u.DateOfBirth = &dob
	}

	if err := s.create(ctx, u, req.Password); err != nil {
		return nil, err
	}
	s.log.Info("guest registered", "user_id", u.ID)
	return s.issue(u)
}

// CreateEmployee adds a staff account. Only admins reach this.
func (s *Service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*UserPublic, error) {
	if !req.Role.IsEmployee() {
		return nil, apperror.Validation([]string{"Role must be ADMIN, RECEPTIONIST or CLEANING_STAFF."})
	}
	u := &domain.User{
		Email:     req.Email,
		Role:      req.Role,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
	}
	if err := s.create(ctx, u, req.Password); err != nil {
		return nil, err
	}
	s.log.Info("employee created", "user_id", u.ID, "role", u.Role)
	out := toPublic(u)
	return &out, nil
}

func (s *Service) create(ctx context.Context, u *domain.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// Login checks the password and returns a token. Five wrong passwords in a
// row lock the account for fifteen minutes.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if u.LockedUntil != nil && u.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if err := s.users.RecordFailedLogin(ctx, u.ID, maxFailedLoginAttempts, now.Add(lockoutDuration)); err != nil {
			return nil, err
		}
		if u.FailedLogins+1 >= maxFailedLoginAttempts {
			s.log.Warn("account locked after failed logins", "user_id", u.ID)
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if u.FailedLogins > 0 || u.LockedUntil != nil {
		if err := s.users.ResetFailedLogins(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	return s.issue(u)
}

func (s *Service) issue(u *domain.User) (*LoginResponse, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResponse{AccessToken: token, User: toPublic(u)}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*UserPublic, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := toPublic(u)
	return &out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*UserPublic, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Nationality != nil {
		u.Nationality = strings.ToUpper(*req.Nationality)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	out := toPublic(u)
	return &out, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]UserPublic, error) {
	users, err := s.users.ListByRoles(ctx, domain.RoleAdmin, domain.RoleReceptionist, domain.RoleCleaningStaff)
	if err != nil {
		return nil, err
	}
	out := make([]UserPublic, 0, len(users))
	for i := range users {
		out = append(out, toPublic(&users[i]))
	}
	return out, nil
}

// GetEmployee returns a staff account. Guest ids are not found here.
func (s *Service) GetEmployee(ctx context.Context, id int64) (*UserPublic, error) {
	u, err := s.employee(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toPublic(u)
	return &out, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id int64, req UpdateEmployeeRequest) (*UserPublic, error) {
	u, err := s.employee(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), u.Email) {
		if _, err := s.users.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailAlreadyExists
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	s.log.Info("employee updated", "user_id", u.ID, "role", u.Role)
	out := toPublic(u)
	return &out, nil
}

// DeleteEmployee removes a staff account. Admin accounts cannot be removed
// and are reported as not found.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	u, err := s.employee(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		return fmt.Errorf("employee %d: %w", id, apperror.ErrNotFound)
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}
	s.log.Info("employee deleted", "user_id", u.ID)
	return nil
}

func (s *Service) employee(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Role.IsEmployee() {
		return nil, fmt.Errorf("employee %d: %w", id, apperror.ErrNotFound)
	}
	return u, nil
}
