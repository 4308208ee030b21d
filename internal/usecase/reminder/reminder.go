package reminder

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/cascade"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/reminder"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// CancelInTx cancels the pending reminders of an appointment that tx has
// just cancelled, and returns how many changed.
func CancelInTx(ctx context.Context, tx store.Store, ap *models.Appointment, now time.Time) (int, error) {
	rems, err := tx.ListRemindersForAppointment(ctx, ap.ID)
	if err != nil {
		return 0, err
	}

	changed, err := cascade.OnAppointmentCancelled(ap, rems, now)
	if err != nil {
		return 0, err
	}
	for _, r := range changed {
		if err := tx.SaveReminder(ctx, r); err != nil {
			return 0, err
		}
	}
	return len(changed), nil
}

// ======================================================
// CREATE
// ======================================================

type CreateReminderInput struct {
	ProfessionalID uint
	AppointmentID  uint
	RemindAt       time.Time
	Message        string
}

type CreateReminder struct {
	repo  store.Store
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCreateReminder(repo store.Store, audit *audit.Dispatcher, clock timezone.Clock) *CreateReminder {
	return &CreateReminder{repo: repo, audit: audit, clock: clock}
}

// Execute attaches a reminder to an appointment of the professional's own
// session. It runs under the session lock so it cannot race a cancellation.
func (uc *CreateReminder) Execute(ctx context.Context, in CreateReminderInput) (*models.Reminder, error) {
	now := uc.clock()

	current, err := uc.repo.LoadAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	var out models.Reminder
	err = uc.repo.WithSessionLock(ctx, current.SessionID, func(tx store.Store, s *models.Session) error {
		if s.ProfessionalID != in.ProfessionalID {
			return httperr.NotFound("appointment", in.AppointmentID)
		}
		ap, err := tx.LoadAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}

		r, err := domain.New(ap, s, in.RemindAt, in.Message, now)
		if err != nil {
			return err
		}
		if err := tx.SaveReminder(ctx, r); err != nil {
			return err
		}
		out = *r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: out.OrganizationID,
		ProfileID:      &in.ProfessionalID,
		Action:         audit.ActionReminderCreated,
		Entity:         "reminder",
		EntityID:       audit.Ref(out.ID),
		Metadata:       map[string]uint{"appointment_id": out.AppointmentID},
		At:             now,
	})

	return &out, nil
}

// ======================================================
// LIST
// ======================================================

type ListReminders struct {
	repo store.Store
}

func NewListReminders(repo store.Store) *ListReminders {
	return &ListReminders{repo: repo}
}

// Execute lists an appointment's reminders for its customer or for the
// session's professional.
func (uc *ListReminders) Execute(ctx context.Context, actorID, appointmentID uint) ([]models.Reminder, error) {
	ap, err := uc.repo.LoadAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap.CustomerID != actorID {
		s, err := uc.repo.LoadSession(ctx, ap.SessionID)
		if err != nil {
			return nil, err
		}
		if s.ProfessionalID != actorID {
			return nil, httperr.NotFound("appointment", appointmentID)
		}
	}
	return uc.repo.ListRemindersForAppointment(ctx, appointmentID)
}
