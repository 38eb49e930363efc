package activity

import (
	"context"
	"fmt"
	"time"

	"hotel/internal/domain"
	"hotel/internal/pkg/validator"
)

const clockLayout = "15:04"

// validateActivity merges the field rules of the request with the schedule
// rules of every timeslot.
func validateActivity(ctx context.Context, req ActivityRequest, create bool) []string {
	if create {
		ctx = validator.ForCreate(ctx)
	}
	errs := validator.Messages(ctx, req)
	for i, ts := range req.Timeslots {
		errs = append(errs, validateTimeslot(i+1, ts)...)
	}
	return errs
}

func validateTimeslot(n int, ts TimeslotRequest) []string {
	var errs []string
	prefix := fmt.Sprintf("Timeslot %d: ", n)

	switch ts.Kind {
	case domain.RecurrenceWeekly:
		if ts.DayOfWeek == nil || *ts.DayOfWeek < 0 || *ts.DayOfWeek > 6 {
			errs = append(errs, prefix+"day of week must be between 0 (Sunday) and 6.")
		}
	case domain.RecurrenceOneOff:
		if _, err := time.Parse(time.DateOnly, ts.SpecificDate); err != nil {
			errs = append(errs, prefix+"specific date must be a date in YYYY-MM-DD format.")
		}
	case domain.RecurrenceDaily:
	default:
		errs = append(errs, prefix+"kind must be one of WEEKLY, ONE_OFF, DAILY.")
	}

	start, startErr := time.Parse(clockLayout, ts.StartTime)
	end, endErr := time.Parse(clockLayout, ts.EndTime)
	if startErr != nil || endErr != nil {
		errs = append(errs, prefix+"start and end time must use HH:MM.")
	} else if !start.Before(end) {
		errs = append(errs, prefix+"start time must be before end time.")
	}
	return errs
}

// toTemplate assumes ts passed validateTimeslot.
func toTemplate(ts TimeslotRequest) domain.ActivityTimeslotInfo {
	var rec domain.Recurrence
	switch ts.Kind {
	case domain.RecurrenceWeekly:
		rec = domain.Weekly{Day: time.Weekday(*ts.DayOfWeek)}
	case domain.RecurrenceOneOff:
		d, _ := time.Parse(time.DateOnly, ts.SpecificDate)
		rec = domain.OneOff{Date: d}
	default:
		rec = domain.Daily{}
	}
	return domain.NewTimeslotInfo(rec, ts.StartTime, ts.EndTime)
}

// validateBooking collects the capacity and lead time violations of a slot.
func validateBooking(slot *domain.ActivitySlot, participants int, now time.Time) ([]string, error) {
	var errs []string
	if slot.Free() < participants {
		errs = append(errs, "Not enough capacity in activity slot")
	}
	startsAt, err := slot.StartsAt(now.Location())
	if err != nil {
		return nil, err
	}
	if startsAt.Sub(now) < domain.MinBookingLead {
		errs = append(errs, "Activity slot must start at least 2 hours from now")
	}
	return errs, nil
}
