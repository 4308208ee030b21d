package recurrence

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

// Rule is a weekly availability pattern: every Interval weeks, on Days, at
// StartTime, from StartDate through EndDate inclusive. Dates and time are
// wall-clock values in the owning schedule's time zone.
type Rule struct {
	Days      []time.Weekday
	StartDate civil.Date
	EndDate   civil.Date
	StartTime civil.Time
	Interval  int
}

// weekOrder puts Monday first, matching the serialized BYDAY order.
func weekOrder(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Normalize returns a copy with days sorted Monday-first and de-duplicated,
// the start time truncated to the minute and a zero interval defaulted to 1.
func (r Rule) Normalize() Rule {
	days := slices.Clone(r.Days)
	slices.SortFunc(days, func(a, b time.Weekday) int {
		return weekOrder(a) - weekOrder(b)
	})
	days = slices.Compact(days)

	out := r
	out.Days = days
	out.StartTime = civil.Time{Hour: r.StartTime.Hour, Minute: r.StartTime.Minute}
	if out.Interval == 0 {
		out.Interval = 1
	}
	return out
}

func (r Rule) Validate() error {
	if len(r.Days) == 0 {
		return httperr.Validation("invalid_recurrence_rule", "days of week must not be empty")
	}
	for _, d := range r.Days {
		if d < time.Sunday || d > time.Saturday {
			return httperr.Validation("invalid_recurrence_rule", "unknown weekday")
		}
	}
	if !r.StartDate.IsValid() || !r.EndDate.IsValid() {
		return httperr.Validation("invalid_recurrence_rule", "start and end dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return httperr.Validation("invalid_recurrence_rule", "end date is before start date")
	}
	if !r.StartTime.IsValid() {
		return httperr.Validation("invalid_recurrence_rule", "start time is invalid")
	}
	if r.Interval < 0 {
		return httperr.Validation("invalid_recurrence_rule", "interval must be positive")
	}
	return nil
}

// FirstInstant is the rule's start date at its start time in loc.
func (r Rule) FirstInstant(loc *time.Location) time.Time {
	return at(r.StartDate, r.StartTime, loc)
}

// LastInstant is the last moment of the rule's end date in loc.
func (r Rule) LastInstant(loc *time.Location) time.Time {
	return time.Date(r.EndDate.Year, r.EndDate.Month, r.EndDate.Day, 23, 59, 59, 0, loc)
}

func at(d civil.Date, t civil.Time, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}
