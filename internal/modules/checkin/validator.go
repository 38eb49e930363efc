package checkin

import (
	"regexp"
	"time"

	"hotel/internal/domain"
)

var passportPattern = regexp.MustCompile(`^[A-Za-z0-9]{6,9}$`)

func validatePassport(number string) []string {
	if number == "" {
		return []string{"Passport number must not be null."}
	}
	if !passportPattern.MatchString(number) {
		return []string{"Passport number must consist of 6 to 9 letters or digits."}
	}
	return nil
}

type checkInState struct {
	guestsInRoom int64
	checkedIn    bool
	checkedOut   bool
}

func validateCheckIn(b *domain.Booking, guestID int64, st checkInState, today time.Time) []string {
	var errs []string
	if b.Room != nil && st.guestsInRoom+1 > int64(b.Room.Capacity) {
		errs = append(errs, "Room doesn't have enough capacity.")
	}
	if b.UserID != guestID {
		errs = append(errs, "Room can only be checked in by user who did the booking.")
	}

	day := domain.DateOf(today)
	switch {
	case b.Status == domain.BookingCancelled:
		errs = append(errs, "Cannot check into a cancelled booking.")
	case day.Before(domain.DateOf(b.StartDate)):
		errs = append(errs, "Cannot check into a booking before the booked date.")
	case !day.Before(domain.DateOf(b.EndDate)):
		errs = append(errs, "Cannot check into a booking that has already ended.")
	}

	if st.checkedOut {
		errs = append(errs, "Cannot check into a booking multiple times.")
	} else if st.checkedIn {
		errs = append(errs, "Guest is already checked in.")
	}
	return errs
}

func validateCheckOut(b *domain.Booking) []string {
	if !b.Paid {
		return []string{"Checkout is not possible because the booking has not been paid yet."}
	}
	return nil
}
