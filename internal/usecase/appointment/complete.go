package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// ProgressAppointment moves an appointment forward while its session is
// running: attend (booked to arrived) or complete (arrived to fulfilled).
// Only the session's professional may do it.
type ProgressAppointment struct {
	repo   store.Store
	audit  *audit.Dispatcher
	clock  timezone.Clock
	apply  func(*models.Appointment, *models.Session, time.Time) error
	action string
}

func NewAttendAppointment(repo store.Store, dispatcher *audit.Dispatcher, clock timezone.Clock) *ProgressAppointment {
	return &ProgressAppointment{repo: repo, audit: dispatcher, clock: clock, apply: domain.Attend, action: audit.ActionAppointmentArrived}
}

func NewCompleteAppointment(repo store.Store, dispatcher *audit.Dispatcher, clock timezone.Clock) *ProgressAppointment {
	return &ProgressAppointment{repo: repo, audit: dispatcher, clock: clock, apply: domain.Complete, action: audit.ActionAppointmentFulfilled}
}

func (uc *ProgressAppointment) Execute(ctx context.Context, professionalID, appointmentID uint) (*models.Appointment, error) {
	now := uc.clock()

	var (
		out   models.Appointment
		orgID uint
	)
	err := withAppointment(ctx, uc.repo, appointmentID, func(tx store.Store, ap *models.Appointment, s *models.Session) error {
		if s.ProfessionalID != professionalID {
			return httperr.NotFound("appointment", ap.ID)
		}

		if err := uc.apply(ap, s, now); err != nil {
			return err
		}
		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}

		out = *ap
		orgID = s.OrganizationID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		ProfileID:      &professionalID,
		Action:         uc.action,
		Entity:         "appointment",
		EntityID:       audit.Ref(out.ID),
		At:             now,
	})

	return &out, nil
}
