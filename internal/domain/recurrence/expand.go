package recurrence

import (
	"iter"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

var rruleDays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Expand returns the ascending occurrence instants of rule that fall inside
// [windowStart, windowEnd], clipped to the rule's own date range. Wall-clock
// values of the rule are interpreted in loc.
//
// The sequence is lazy and restartable: every range over it walks the rule
// again from the beginning.
func Expand(rule Rule, loc *time.Location, windowStart, windowEnd time.Time) (iter.Seq[time.Time], error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if windowEnd.Before(windowStart) {
		return nil, httperr.Validation("invalid_window", "window end is before window start")
	}
	if loc == nil {
		loc = time.UTC
	}

	rule = rule.Normalize()
	upper := rule.LastInstant(loc)
	if windowEnd.Before(upper) {
		upper = windowEnd
	}

	byDay := make([]rrule.Weekday, 0, len(rule.Days))
	for _, d := range rule.Days {
		byDay = append(byDay, rruleDays[d])
	}

	rr, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  rule.Interval,
		Wkst:      rrule.MO,
		Byweekday: byDay,
		Dtstart:   rule.FirstInstant(loc),
		Until:     rule.LastInstant(loc),
	})
	if err != nil {
		return nil, httperr.Validation("invalid_recurrence_rule", err.Error())
	}

	return func(yield func(time.Time) bool) {
		next := rr.Iterator()
		for {
			t, ok := next()
			if !ok || t.After(upper) {
				return
			}
			if t.Before(windowStart) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}, nil
}

// First returns the first occurrence of seq, if any.
func First(seq iter.Seq[time.Time]) (time.Time, bool) {
	for t := range seq {
		return t, true
	}
	return time.Time{}, false
}
