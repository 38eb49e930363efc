package room

import (
	"context"
	"time"

	"hotel/internal/pkg/validator"
)

// validateRoom reports the field rules of a room request. On create every
// field except the flags must be present.
func validateRoom(ctx context.Context, req RoomRequest, create bool) []string {
	if create {
		ctx = validator.ForCreate(ctx)
	}
	return validator.Messages(ctx, req)
}

func validateSearch(q SearchQuery, today time.Time) (start, end time.Time, errs []string) {
	start, startErr := time.Parse(time.DateOnly, q.StartDate)
	end, endErr := time.Parse(time.DateOnly, q.EndDate)
	if startErr != nil || endErr != nil {
		return start, end, []string{"Both start- and end-date must be given as YYYY-MM-DD"}
	}

	if start.Before(today) {
		errs = append(errs, "Start date must not be in the past.")
	}
	if end.Before(today) {
		errs = append(errs, "End date must not be in the past.")
	}
	if start.After(end) {
		errs = append(errs, "Start date must be before the end date.")
	}
	if start.Equal(end) {
		errs = append(errs, "Booking period must be at least 1 day.")
	}
	if end.After(today.AddDate(1, 0, 0)) {
		errs = append(errs, "The booking period cannot exceed one year from today.")
	}
	return start, end, errs
}

// cleaningWindow places the HH:MM bounds on the day of now.
func cleaningWindow(req CleaningWindowRequest, now time.Time) (from, to time.Time, errs []string) {
	fromClock, fromErr := time.Parse("15:04", req.From)
	toClock, toErr := time.Parse("15:04", req.To)
	if fromErr != nil || toErr != nil {
		return from, to, []string{"From and To must use HH:MM."}
	}

	y, m, d := now.Date()
	from = time.Date(y, m, d, fromClock.Hour(), fromClock.Minute(), 0, 0, now.Location())
	to = time.Date(y, m, d, toClock.Hour(), toClock.Minute(), 0, 0, now.Location())
	if !from.Before(to) {
		errs = append(errs, "From must be earlier than To")
	}
	if from.Before(now) {
		errs = append(errs, "From cannot be earlier than now")
	}
	return from, to, errs
}
