package guest

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
	"hotel/internal/pkg/validator"
	"hotel/internal/repository"
)

// Service is the admin view over guest accounts.
type Service struct {
	users      UserRepository
	bookings   BookingRepository
	log        *slog.Logger
	now        func() time.Time
	bcryptCost int
}

func NewService(users UserRepository, bookings BookingRepository, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		bookings:   bookings,
		log:        log,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Search lists guests whose name and email contain the given fragments. An
// empty query lists every guest.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*PagedGuests, error) {
	if err := apperror.Validation(validator.Messages(ctx, q)); err != nil {
		return nil, err
	}

	filter := repository.GuestFilter{FirstName: q.FirstName, LastName: q.LastName, Email: q.Email}
	list, total, err := s.users.SearchGuests(ctx, filter, q.Page, q.Size)
	if err != nil {
		return nil, err
	}
	out := &PagedGuests{Items: make([]GuestListItem, 0, len(list)), Page: q.Page, Size: q.Size, Total: total}
	for i := range list {
		out.Items = append(out.Items, toListItem(&list[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, email string) (*GuestDetails, error) {
	u, err := s.find(ctx, email)
	if err != nil {
		return nil, err
	}
	out := toDetails(u)
	return &out, nil
}

func (s *Service) Create(ctx context.Context, req GuestRequest) (*GuestDetails, error) {
	if err := apperror.Validation(s.validate(validator.ForCreate(ctx), req)); err != nil {
		return nil, err
	}

	u := &domain.User{Role: domain.RoleGuest}
	if err := s.apply(u, req); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	s.log.Info("guest created by admin", "user_id", u.ID)
	out := toDetails(u)
	return &out, nil
}

// Update applies the given fields to the guest registered under email.
func (s *Service) Update(ctx context.Context, email string, req GuestRequest) (*GuestDetails, error) {
	if err := apperror.Validation(s.validate(ctx, req)); err != nil {
		return nil, err
	}
	u, err := s.find(ctx, email)
	if err != nil {
		return nil, err
	}
	if req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), u.Email) {
		if _, err := s.users.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailAlreadyExists
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}

	if err := s.apply(u, req); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	s.log.Info("guest updated", "user_id", u.ID)
	out := toDetails(u)
	return &out, nil
}

// Delete removes a guest account. Guests with a stay that has not ended yet
// are kept.
func (s *Service) Delete(ctx context.Context, email string) error {
	u, err := s.find(ctx, email)
	if err != nil {
		return err
	}
	upcoming, err := s.bookings.HasStayEndingAfter(ctx, u.ID, s.now())
	if err != nil {
		return fmt.Errorf("booking lookup for guest %d: %w", u.ID, err)
	}
	if upcoming {
		return apperror.Validation([]string{"Cannot delete guest with bookings."})
	}

	if err := s.users.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return apperror.Conflict("Guest still has booking history.")
		}
		return err
	}
	s.log.Info("guest deleted", "user_id", u.ID)
	return nil
}

// find resolves a guest account. Staff accounts are not found here.
func (s *Service) find(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleGuest {
		return nil, fmt.Errorf("guest %s: %w", email, apperror.ErrNotFound)
	}
	return u, nil
}

func (s *Service) validate(ctx context.Context, req GuestRequest) []string {
	errs := validator.Messages(ctx, req)
	if req.DateOfBirth != nil {
		if dob, err := time.Parse(time.DateOnly, *req.DateOfBirth); err == nil && !dob.Before(domain.DateOf(s.now())) {
			errs = append(errs, "Date of birth must be in the past.")
		}
	}
	return errs
}

// apply copies the set fields of req onto u. req must have passed validate.
func (s *Service) apply(u *domain.User, req GuestRequest) error {
	if req.FirstName != nil {
		u.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Nationality != nil {
		u.Nationality = strings.ToUpper(*req.Nationality)
	}
	if req.DateOfBirth != nil {
		dob, _ := time.Parse(time.DateOnly, *req.DateOfBirth)
		u.DateOfBirth = &dob
	}
	if req.PassportNumber != nil {
		u.PassportNumber = strings.ToUpper(*req.PassportNumber)
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	return nil
}
