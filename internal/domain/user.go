package domain

import "time"

type UserRole string

const (
	RoleGuest         UserRole = "GUEST"
	RoleAdmin         UserRole = "ADMIN"
	RoleReceptionist  UserRole = "RECEPTIONIST"
	RoleCleaningStaff UserRole = "CLEANING_STAFF"
)

func (r UserRole) IsEmployee() bool {
	return r == RoleAdmin || r == RoleReceptionist || r == RoleCleaningStaff
}

type User struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	Email          string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash   string     `json:"-" gorm:"not null"`
	Role           UserRole   `json:"role" gorm:"size:32;not null"`
	FirstName      string     `json:"first_name" gorm:"size:255"`
	LastName       string     `json:"last_name" gorm:"size:255"`
	Phone          string     `json:"phone,omitempty" gorm:"size:64"`
	Nationality    string     `json:"nationality,omitempty" gorm:"size:3"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty" gorm:"type:date"`
	PassportNumber string     `json:"-" gorm:"size:64"`
	FailedLogins   int        `json:"-" gorm:"not null;default:0"`
	LockedUntil    *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
