package appointment

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	reminders "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/reminder"
)

type CancelAppointment struct {
	repo  store.Store
	audit *audit.Dispatcher
	cache *cache.Availability
	clock timezone.Clock
}

func NewCancelAppointment(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
		clock: clock,
	}
}

// Execute cancels a booked appointment on behalf of its customer or of the
// session's professional, and frees the slot.
func (uc *CancelAppointment) Execute(ctx context.Context, actorID, appointmentID uint) (*models.Appointment, error) {
	now := uc.clock()

	var (
		out       models.Appointment
		orgID     uint
		cancelled int
	)
	err := withAppointment(ctx, uc.repo, appointmentID, func(tx store.Store, ap *models.Appointment, s *models.Session) error {
		if ap.CustomerID != actorID && s.ProfessionalID != actorID {
			return httperr.NotFound("appointment", ap.ID)
		}

		if err := domain.Cancel(ap, s, now); err != nil {
			return err
		}

		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		n, err := reminders.CancelInTx(ctx, tx, ap, now)
		if err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := tx.SaveSession(ctx, s); err != nil {
			return err
		}

		out = *ap
		orgID = s.OrganizationID
		cancelled = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, orgID)
	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		ProfileID:      &actorID,
		Action:         audit.ActionAppointmentCancelled,
		Entity:         "appointment",
		EntityID:       audit.Ref(out.ID),
		Metadata:       map[string]int{"reminders_cancelled": cancelled},
		At:             now,
	})

	return &out, nil
}
