package session

import (
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// NewAdHoc builds a session created directly, outside any schedule.
func NewAdHoc(professionalID, organizationID uint, start time.Time, maxAllowed int) (*models.Session, error) {
	if start.IsZero() {
		return nil, httperr.Validation("missing_start", "start is required")
	}
	if maxAllowed <= 0 {
		return nil, httperr.Validation("invalid_max_allowed", "maxAllowed must be a positive integer")
	}

	return &models.Session{
		ProfessionalID: professionalID,
		OrganizationID: organizationID,
		Start:          start,
		MaxAllowed:     maxAllowed,
		NextToken:      1,
		Status:         string(InitialStatus()),
	}, nil
}

// ===============================
// Domain Actions
// ===============================

func apply(s *models.Session, action Action) error {
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

func Start(s *models.Session, now time.Time) error {
	if err := apply(s, ActionStart); err != nil {
		return err
	}
	s.StartedAt = &now
	s.CompletedAt = nil
	return nil
}

func Complete(s *models.Session, now time.Time) error {
	if err := apply(s, ActionComplete); err != nil {
		return err
	}
	s.CompletedAt = &now
	return nil
}

// Cancel only moves the session itself; dependent appointments are handled
// by the cascade controller.
func Cancel(s *models.Session, now time.Time) error {
	if err := apply(s, ActionCancel); err != nil {
		return err
	}
	s.CancelledAt = &now
	return nil
}

// Release gives back the slot of a cancelled appointment. Counts of a
// cancelled session are frozen.
func Release(s *models.Session) {
	if Status(s.Status) == StatusCancelled || s.Booked == 0 {
		return
	}
	s.Booked--
}
