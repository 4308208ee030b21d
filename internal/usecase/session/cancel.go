package session

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/cascade"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	reminders "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/reminder"
)

// CancelInTx cancels s and cascades to its booked appointments, and from
// them to their pending reminders, through tx.
// The caller must hold the session's lock; either every change is saved or
// the surrounding transaction is rolled back by the returned error.
func CancelInTx(ctx context.Context, tx store.Store, s *models.Session, now time.Time) ([]cascade.Event, error) {
	if err := domain.Cancel(s, now); err != nil {
		return nil, err
	}
	s.UpdatedAt = now

	aps, err := tx.LoadAppointmentsForSession(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	changes, err := cascade.OnSessionCancelled(s, aps, now)
	if err != nil {
		return nil, err
	}

	events := make([]cascade.Event, 0, len(changes))
	for _, ch := range changes {
		if err := tx.SaveAppointment(ctx, ch.Appointment); err != nil {
			return nil, err
		}
		if _, err := reminders.CancelInTx(ctx, tx, ch.Appointment, now); err != nil {
			return nil, err
		}
		events = append(events, ch.Event)
	}

	if err := tx.SaveSession(ctx, s); err != nil {
		return nil, err
	}
	return events, nil
}

// DispatchCancellation records a committed session cancellation.
func DispatchCancellation(d *audit.Dispatcher, s *models.Session, actorID *uint, events []cascade.Event, now time.Time) {
	d.Dispatch(audit.Event{
		OrganizationID: s.OrganizationID,
		ProfileID:      actorID,
		Action:         audit.ActionSessionCancelled,
		Entity:         "session",
		EntityID:       audit.Ref(s.ID),
		Metadata:       map[string]int{"appointments_cancelled": len(events)},
		At:             now,
	})

	for _, ev := range events {
		d.Dispatch(audit.Event{
			ID:             ev.ID,
			OrganizationID: s.OrganizationID,
			ProfileID:      actorID,
			Action:         audit.ActionAppointmentCascadeCanceled,
			Entity:         "appointment",
			EntityID:       audit.Ref(ev.AppointmentID),
			Metadata:       ev,
			At:             ev.At,
		})
	}
}

// ======================================================
// USE CASE
// ======================================================

type CancelSessionOutput struct {
	Session *models.Session
	Events  []cascade.Event
}

type CancelSession struct {
	repo  store.Store
	audit *audit.Dispatcher
	cache *cache.Availability
	clock timezone.Clock
}

func NewCancelSession(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	clock timezone.Clock,
) *CancelSession {
	return &CancelSession{
		repo:  repo,
		audit: audit,
		cache: cache,
		clock: clock,
	}
}

func (uc *CancelSession) Execute(ctx context.Context, professionalID, sessionID uint) (*CancelSessionOutput, error) {
	now := uc.clock()

	var (
		out    models.Session
		events []cascade.Event
	)
	err := uc.repo.WithSessionLock(ctx, sessionID, func(tx store.Store, s *models.Session) error {
		if err := ownedBy(s, professionalID); err != nil {
			return err
		}

		evs, err := CancelInTx(ctx, tx, s, now)
		if err != nil {
			return err
		}
		out = *s
		events = evs
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, out.OrganizationID)
	DispatchCancellation(uc.audit, &out, &professionalID, events, now)

	return &CancelSessionOutput{Session: &out, Events: events}, nil
}
