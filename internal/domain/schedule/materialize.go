package schedule

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// Batch is one materialization step of an active schedule.
type Batch struct {
	Sessions []models.Session
	// Next is the first occurrence after the batch window, nil when the rule
	// has no occurrences left.
	Next *time.Time
}

// Materialize expands the schedule over [from, to] into Scheduled sessions
// and locates the next pending occurrence.
func Materialize(s *models.Schedule, from, to time.Time) (Batch, error) {
	if Status(s.Status) != StatusActive {
		return Batch{}, httperr.InvalidTransition("schedule", "materialize", s.Status)
	}

	rule, err := Validate(s)
	if err != nil {
		return Batch{}, err
	}
	loc := Location(s)

	seq, err := recurrence.Expand(rule, loc, from, to)
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	for start := range seq {
		batch.Sessions = append(batch.Sessions, NewSession(s, start))
	}

	last := rule.LastInstant(loc)
	if to.Before(last) {
		rest, err := recurrence.Expand(rule, loc, to.Add(time.Nanosecond), last)
		if err != nil {
			return Batch{}, err
		}
		if next, ok := recurrence.First(rest); ok {
			batch.Next = &next
		}
	}

	return batch, nil
}

// NewSession builds the session a schedule yields for one occurrence.
func NewSession(s *models.Schedule, start time.Time) models.Session {
	id := s.ID
	return models.Session{
		ScheduleID:     &id,
		ProfessionalID: s.ProfessionalID,
		OrganizationID: s.OrganizationID,
		Start:          start,
		MaxAllowed:     s.MaxAllowed,
		Booked:         0,
		NextToken:      1,
		Status:         string(session.StatusScheduled),
	}
}

// CheckMaterialization verifies that sessions are a valid materialization of s:
// every start is an occurrence of the rule, capacity is copied, counters are
// fresh and no occurrence appears twice.
func CheckMaterialization(s *models.Schedule, sessions []models.Session) error {
	rule, err := Validate(s)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}
	lo, hi := sessions[0].Start, sessions[0].Start
	for _, ss := range sessions[1:] {
		if ss.Start.Before(lo) {
			lo = ss.Start
		}
		if ss.Start.After(hi) {
			hi = ss.Start
		}
	}

	seq, err := recurrence.Expand(rule, Location(s), lo, hi)
	if err != nil {
		return err
	}
	occurrences := make(map[int64]struct{})
	for t := range seq {
		occurrences[t.UnixNano()] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(sessions))
	for i := range sessions {
		ss := &sessions[i]
		key := ss.Start.UnixNano()

		switch {
		case ss.ScheduleID == nil || *ss.ScheduleID != s.ID:
			return invalidBatch(i, "belongs to another schedule")
		case ss.MaxAllowed != s.MaxAllowed:
			return invalidBatch(i, "capacity differs from schedule")
		case ss.Booked != 0 || ss.NextToken != 1:
			return invalidBatch(i, "counters are not fresh")
		case ss.Status != string(session.StatusScheduled):
			return invalidBatch(i, "status is not Scheduled")
		}
		if _, ok := occurrences[key]; !ok {
			return invalidBatch(i, "start is not an occurrence of the rule")
		}
		if _, dup := seen[key]; dup {
			return invalidBatch(i, "duplicate occurrence")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func invalidBatch(i int, reason string) error {
	return httperr.Validation("invalid_materialization", fmt.Sprintf("session #%d %s", i, reason))
}
