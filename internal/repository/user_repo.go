package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"hotel/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)

	var cnt int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", u.Email).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return ErrEmailTaken
	}

	err := r.db.WithContext(ctx).Create(u).Error
	if pgCode(err) == pgUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	email = normalizeEmail(email)
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "user", email)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	err := r.db.WithContext(ctx).Save(u).Error
	if pgCode(err) == pgUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if pgCode(res.Error) == pgForeignKeyViolation {
		return ErrInUse
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "user", id)
	}
	return nil
}

// RecordFailedLogin bumps the failure counter and, once it reaches maxFailures,
// locks the account until lockUntil.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id int64, maxFailures int, lockUntil time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		if err := tx.First(&u, id).Error; err != nil {
			return notFound(err, "user", id)
		}
		u.FailedLogins++
		updates := map[string]any{"failed_logins": u.FailedLogins}
		if u.FailedLogins >= maxFailures {
			updates["locked_until"] = lockUntil
			updates["failed_logins"] = 0
		}
		return tx.Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (r *UserRepository) ResetFailedLogins(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"failed_logins": 0, "locked_until": nil}).Error
}

func (r *UserRepository) ListByRoles(ctx context.Context, roles ...domain.UserRole) ([]domain.User, error) {
	var out []domain.User
	err := r.db.WithContext(ctx).Where("role IN ?", roles).Order("id ASC").Find(&out).Error
	return out, err
}

// GuestFilter narrows the guest directory. Each non-empty field must occur in
// the column, ignoring case.
type GuestFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// SearchGuests returns one page of guests matching f, ordered by name, and the
// number of all matches.
func (r *UserRepository) SearchGuests(ctx context.Context, f GuestFilter, page, size int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleGuest)
	for _, c := range [][2]string{{"first_name", f.FirstName}, {"last_name", f.LastName}, {"email", f.Email}} {
		if v := strings.TrimSpace(c[1]); v != "" {
			q = q.Where("LOWER("+c[0]+") LIKE ?", "%"+strings.ToLower(v)+"%")
		}
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.User
	err := q.Order("last_name ASC, first_name ASC, id ASC").
		Limit(size).
		Offset(page * size).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
