package appointment

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	SessionID  uint
	CustomerID uint
	PetID      uint
	Note       string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  store.Store
	audit *audit.Dispatcher
	cache *cache.Availability
	clock timezone.Clock
}

func NewBookAppointment(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	clock timezone.Clock,
) *BookAppointment {
	return &BookAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
		clock: clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute takes one slot of the session. Capacity check, token allocation
// and both writes happen under the session lock, so concurrent bookers are
// serialized and a full session rejects every further attempt.
func (uc *BookAppointment) Execute(ctx context.Context, in BookAppointmentInput) (*models.Appointment, error) {
	req := booking.Request{
		PetID:      in.PetID,
		CustomerID: in.CustomerID,
		Note:       in.Note,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := uc.clock()

	var (
		out   models.Appointment
		orgID uint
	)
	err := uc.repo.WithSessionLock(ctx, in.SessionID, func(tx store.Store, s *models.Session) error {
		ap, err := booking.Allocate(s, req, now)
		if err != nil {
			return err
		}

		if err := tx.SaveAppointment(ctx, ap); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := tx.SaveSession(ctx, s); err != nil {
			return err
		}

		out = *ap
		orgID = s.OrganizationID
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, orgID)
	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		ProfileID:      &in.CustomerID,
		Action:         audit.ActionAppointmentBooked,
		Entity:         "appointment",
		EntityID:       audit.Ref(out.ID),
		Metadata: map[string]uint{
			"session_id": out.SessionID,
			"token":      uint(out.Token),
		},
		At: now,
	})

	return &out, nil
}
