package appointment

import (
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func apply(ap *models.Appointment, sess *models.Session, action Action) error {
	current, err := ParseStatus(ap.Status)
	if err != nil {
		return err
	}
	next, err := Next(current, action)
	if err != nil {
		return err
	}
	if needsStartedSession[action] && session.Status(sess.Status) != session.StatusStarted {
		return httperr.InvalidTransition(
			"appointment",
			string(action),
			string(current)+" while session is "+sess.Status,
		)
	}
	ap.Status = string(next)
	return nil
}

func Attend(ap *models.Appointment, sess *models.Session, now time.Time) error {
	if err := apply(ap, sess, ActionAttend); err != nil {
		return err
	}
	ap.ArrivedAt = &now
	ap.UpdatedAt = now
	return nil
}

func Complete(ap *models.Appointment, sess *models.Session, now time.Time) error {
	if err := apply(ap, sess, ActionComplete); err != nil {
		return err
	}
	ap.FulfilledAt = &now
	ap.UpdatedAt = now
	return nil
}

// Cancel cancels a booked appointment and gives its slot back to the session.
// The token is not recycled.
func Cancel(ap *models.Appointment, sess *models.Session, now time.Time) error {
	from := Status(ap.Status)
	if err := apply(ap, sess, ActionCancel); err != nil {
		return err
	}
	ap.CancelledAt = &now
	ap.UpdatedAt = now
	if Holds(from) && !Holds(Status(ap.Status)) {
		session.Release(sess)
	}
	return nil
}
