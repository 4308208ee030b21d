// Package reminder holds the rules for notes a professional schedules
// against an appointment.
package reminder

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

const maxMessage = 500

// New builds a pending reminder for ap. Only appointments still waiting to
// be seen accept reminders.
func New(ap *models.Appointment, sess *models.Session, remindAt time.Time, message string, now time.Time) (*models.Reminder, error) {
	message = strings.TrimSpace(message)
	switch {
	case message == "":
		return nil, httperr.Validation("invalid_message", "message is required")
	case len(message) > maxMessage:
		return nil, httperr.Validation("invalid_message", "message is too long")
	case remindAt.IsZero():
		return nil, httperr.Validation("invalid_remind_at", "remind_at is required")
	}

	switch appointment.Status(ap.Status) {
	case appointment.StatusBooked, appointment.StatusArrived:
	default:
		return nil, httperr.InvalidTransition("appointment", "remind", ap.Status)
	}

	return &models.Reminder{
		AppointmentID:  ap.ID,
		SessionID:      sess.ID,
		ProfessionalID: sess.ProfessionalID,
		PetID:          ap.PetID,
		OrganizationID: sess.OrganizationID,
		RemindAt:       remindAt,
		Message:        message,
		Status:         string(StatusPending),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Cancel marks a pending reminder cancelled and reports whether it changed.
func Cancel(r *models.Reminder, now time.Time) bool {
	if Status(r.Status) != StatusPending {
		return false
	}
	r.Status = string(StatusCancelled)
	r.CancelledAt = &now
	r.UpdatedAt = now
	return true
}
