// Package cascade propagates session and schedule status changes to the
// entities that depend on them. It performs no I/O: callers persist the
// returned changes inside the same transaction that changed the parent.
package cascade

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

const ReasonSessionCancelled = "session_cancelled"

// Event describes one appointment status change caused by a cascade.
type Event struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uint      `json:"appointment_id"`
	SessionID     uint      `json:"session_id"`
	CustomerID    uint      `json:"customer_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Reason        string    `json:"reason"`
	At            time.Time `json:"at"`
}

// Change pairs an event with the appointment it modified.
type Change struct {
	Event       Event
	Appointment *models.Appointment
}

// OnSessionCancelled cancels every booked appointment of an already
// cancelled session. Arrived and fulfilled appointments are left alone, and
// the session's counters are not touched: they stay frozen as history.
func OnSessionCancelled(sess *models.Session, aps []models.Appointment, now time.Time) ([]Change, error) {
	if session.Status(sess.Status) != session.StatusCancelled {
		return nil, httperr.InvalidTransition("session", "cascade", sess.Status)
	}

	var changes []Change
	for i := range aps {
		ap := &aps[i]
		if ap.SessionID != sess.ID || appointment.Status(ap.Status) != appointment.StatusBooked {
			continue
		}

		from := ap.Status
		ap.Status = string(appointment.StatusCancelled)
		ap.CancelledAt = &now
		ap.UpdatedAt = now

		changes = append(changes, Change{
			Event: Event{
				ID:            uuid.New(),
				AppointmentID: ap.ID,
				SessionID:     sess.ID,
				CustomerID:    ap.CustomerID,
				From:          from,
				To:            ap.Status,
				Reason:        ReasonSessionCancelled,
				At:            now,
			},
			Appointment: ap,
		})
	}
	return changes, nil
}

// OnScheduleCancelled selects the sessions of a cancelled schedule that must
// be cancelled in turn: those still Scheduled. Sessions already started or
// completed keep their history.
func OnScheduleCancelled(s *models.Schedule, sessions []models.Session) ([]uint, error) {
	if schedule.Status(s.Status) != schedule.StatusCancelled {
		return nil, httperr.InvalidTransition("schedule", "cascade", s.Status)
	}

	var ids []uint
	for _, ss := range sessions {
		if ss.ScheduleID == nil || *ss.ScheduleID != s.ID {
			continue
		}
		if session.Status(ss.Status) == session.StatusScheduled {
			ids = append(ids, ss.ID)
		}
	}
	return ids, nil
}

// OnAppointmentCancelled cancels the pending reminders of an already
// cancelled appointment and returns the ones it changed.
func OnAppointmentCancelled(ap *models.Appointment, reminders []models.Reminder, now time.Time) ([]*models.Reminder, error) {
	if appointment.Status(ap.Status) != appointment.StatusCancelled {
		return nil, httperr.InvalidTransition("appointment", "cascade", ap.Status)
	}

	var changed []*models.Reminder
	for i := range reminders {
		r := &reminders[i]
		if r.AppointmentID != ap.ID {
			continue
		}
		if reminder.Cancel(r, now) {
			changed = append(changed, r)
		}
	}
	return changed, nil
}
