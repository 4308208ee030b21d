package schedule

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// Validate checks that a schedule is well formed and returns its decoded rule.
func Validate(s *models.Schedule) (recurrence.Rule, error) {
	if s.MaxAllowed <= 0 {
		return recurrence.Rule{}, httperr.Validation("invalid_max_allowed", "maxAllowed must be a positive integer")
	}
	if strings.TrimSpace(s.RecurringRule) == "" {
		return recurrence.Rule{}, httperr.Validation("missing_recurring_rule", "recurringRule is required")
	}
	if s.Timezone != "" && !timezone.IsValid(s.Timezone) {
		return recurrence.Rule{}, httperr.Validation("invalid_timezone", "unknown timezone ["+s.Timezone+"]")
	}
	return recurrence.Parse(s.RecurringRule)
}

func Location(s *models.Schedule) *time.Location {
	return timezone.Location(s.Timezone)
}

// ===============================
// Domain Actions
// ===============================

func apply(s *models.Schedule, action Action) error {
	current, err := ParseStatus(s.Status)
	if err != nil {
		return err
	}
	next, err := Next(current, action)
	if err != nil {
		return err
	}
	s.Status = string(next)
	return nil
}

// Edit replaces the editable fields of a draft schedule.
func Edit(s *models.Schedule, rule string, maxAllowed int, tz string) error {
	if _, err := Next(Status(s.Status), ActionUpdate); err != nil {
		return err
	}

	edited := *s
	edited.RecurringRule = rule
	edited.MaxAllowed = maxAllowed
	edited.Timezone = tz
	if _, err := Validate(&edited); err != nil {
		return err
	}

	*s = edited
	return nil
}

func Activate(s *models.Schedule, now time.Time) error {
	if _, err := Next(Status(s.Status), ActionActivate); err != nil {
		return err
	}
	if _, err := Validate(s); err != nil {
		return err
	}
	if err := apply(s, ActionActivate); err != nil {
		return err
	}

	s.ActivatedAt = &now
	s.Cycle = string(CycleInitial)
	return nil
}

func Cancel(s *models.Schedule, now time.Time) error {
	if err := apply(s, ActionCancel); err != nil {
		return err
	}

	s.CancelledAt = &now
	s.Cycle = string(CycleCompleted)
	s.NextGenerationAt = nil
	return nil
}

// Delete only checks the guard; removal itself is a persistence concern.
func Delete(s *models.Schedule) error {
	return apply(s, ActionDelete)
}
