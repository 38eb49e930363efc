package auth

import "hotel/internal/domain"

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FirstName   string `json:"first_name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=64"`
	Nationality string `json:"nationality" validate:"omitempty,len=3"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateEmployeeRequest struct {
	Email     string          `json:"email" validate:"required,email,max=255"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	FirstName string          `json:"first_name" validate:"required,max=255"`
	LastName  string          `json:"last_name" validate:"required,max=255"`
	Phone     string          `json:"phone" validate:"omitempty,max=64"`
	Role      domain.UserRole `json:"role" validate:"required,oneof=ADMIN RECEPTIONIST CLEANING_STAFF"`
}

// UpdateEmployeeRequest changes only the fields that are set.
type UpdateEmployeeRequest struct {
	FirstName *string          `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName  *string          `json:"last_name" validate:"omitempty,min=1,max=255"`
	Phone     *string          `json:"phone" validate:"omitempty,max=64"`
	Email     *string          `json:"email" validate:"omitempty,email,max=255"`
	Role      *domain.UserRole `json:"role" validate:"omitempty,oneof=ADMIN RECEPTIONIST CLEANING_STAFF"`
	Password  *string          `json:"password" validate:"omitempty,min=8,max=72"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1,max=255"`
	Phone       *string `json:"phone" validate:"omitempty,max=64"`
	Nationality *string `json:"nationality" validate:"omitempty,len=3"`
}

type UserPublic struct {
	ID          int64           `json:"id"`
	Email       string          `json:"email"`
	Role        domain.UserRole `json:"role"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Phone       string          `json:"phone,omitempty"`
	Nationality string          `json:"nationality,omitempty"`
}

type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	User        UserPublic `json:"user"`
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Nationality: u.Nationality,
	}
}
