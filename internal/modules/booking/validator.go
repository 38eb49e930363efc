package booking

import (
	"context"
	"time"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
)

// validateCreate checks the fields of a booking request and then the rules
// between its dates. It returns the parsed stay dates with all violations.
func validateCreate(ctx context.Context, req CreateBookingRequest, today time.Time) (start, end time.Time, errs []string) {
	errs = validator.Messages(ctx, req)

	start, startErr := time.Parse(time.DateOnly, req.StartDate)
	end, endErr := time.Parse(time.DateOnly, req.EndDate)
	if startErr != nil {
		return start, end, errs
	}
	start = domain.DateOf(start)
	if endErr == nil {
		end = domain.DateOf(end)
		if start.After(end) {
			errs = append(errs, "Start date must be before or equal to the end date.")
		}
		if start.Equal(end) {
			errs = append(errs, "Start date and end date must be at least 1 day apart.")
		}
	}
	if start.Before(domain.DateOf(today).AddDate(0, 0, -1)) {
		errs = append(errs, "Start date must be today or in the future.")
	}
	return start, end, errs
}
