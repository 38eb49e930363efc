package auth

import (
	"context"
	"time"

	"hotel/internal/domain"
)

// UserRepository lists the user store methods the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	RecordFailedLogin(ctx context.Context, id int64, maxFailures int, lockUntil time.Time) error
	ResetFailedLogins(ctx context.Context, id int64) error
	ListByRoles(ctx context.Context, roles ...domain.UserRole) ([]domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, email, role string) (string, error)
}
