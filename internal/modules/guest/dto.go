package guest

import (
	"time"

	"hotel/internal/domain"
)

// GuestRequest is used by the admin for create and update. On update nil
// fields keep their stored value.
type GuestRequest struct {
	FirstName      *string `json:"first_name" validate:"create_required,omitempty,min=1,max=255"`
	LastName       *string `json:"last_name" validate:"create_required,omitempty,min=1,max=255"`
	Email          *string `json:"email" validate:"create_required,omitempty,email,max=255"`
	Password       *string `json:"password" validate:"create_required,omitempty,min=8,max=72"`
	Phone          *string `json:"phone" validate:"omitempty,max=64"`
	Nationality    *string `json:"nationality" validate:"omitempty,len=3"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	PassportNumber *string `json:"passport_number" validate:"omitempty,alphanum,min=6,max=9"`
}

// SearchQuery filters the guest directory by substrings of the name and
// email. Page is zero based.
type SearchQuery struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	Page      int    `form:"page,default=0" validate:"gte=0"`
	Size      int    `form:"size,default=20" validate:"gte=1,lte=100"`
}

type GuestListItem struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type PagedGuests struct {
	Items []GuestListItem `json:"items"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int64           `json:"total"`
}

type GuestDetails struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
}

func toListItem(u *domain.User) GuestListItem {
	return GuestListItem{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

func toDetails(u *domain.User) GuestDetails {
	d := GuestDetails{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		Nationality:    u.Nationality,
		PassportNumber: u.PassportNumber,
	}
	if u.DateOfBirth != nil {
		d.DateOfBirth = u.DateOfBirth.Format(time.DateOnly)
	}
	return d
}
