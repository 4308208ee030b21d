package schedule

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/cascade"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	sessiondomain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	sessionuc "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/session"
)

type CancelScheduleOutput struct {
	Schedule          *models.Schedule
	CancelledSessions []uint
	Events            []cascade.Event
}

// CancelSchedule cancels an active schedule together with every session of
// it that has not started yet, and their booked appointments, in one
// transaction.
type CancelSchedule struct {
	repo  store.Store
	audit *audit.Dispatcher
	cache *cache.Availability
	clock timezone.Clock
}

func NewCancelSchedule(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	clock timezone.Clock,
) *CancelSchedule {
	return &CancelSchedule{
		repo:  repo,
		audit: audit,
		cache: cache,
		clock: clock,
	}
}

func (uc *CancelSchedule) Execute(ctx context.Context, professionalID, scheduleID uint) (*CancelScheduleOutput, error) {
	now := uc.clock()

	out := &CancelScheduleOutput{}
	var cancelled []models.Session
	eventsBySession := map[uint][]cascade.Event{}

	err := uc.repo.WithScheduleLock(ctx, scheduleID, func(tx store.Store, s *models.Schedule) error {
		if err := ownedBy(s, professionalID); err != nil {
			return err
		}
		if err := domain.Cancel(s, now); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := tx.SaveSchedule(ctx, s); err != nil {
			return err
		}

		sessions, err := tx.ListSessions(ctx, store.SessionFilter{ScheduleID: s.ID})
		if err != nil {
			return err
		}
		ids, err := cascade.OnScheduleCancelled(s, sessions)
		if err != nil {
			return err
		}

		for _, id := range ids {
			err := tx.WithSessionLock(ctx, id, func(stx store.Store, ss *models.Session) error {
				// started since it was listed
				if ss.Status != string(sessiondomain.StatusScheduled) {
					return nil
				}
				evs, err := sessionuc.CancelInTx(ctx, stx, ss, now)
				if err != nil {
					return err
				}
				cancelled = append(cancelled, *ss)
				eventsBySession[ss.ID] = evs
				return nil
			})
			if err != nil {
				return err
			}
		}

		copied := *s
		out.Schedule = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, out.Schedule.OrganizationID)
	uc.audit.Dispatch(audit.Event{
		OrganizationID: out.Schedule.OrganizationID,
		ProfileID:      &professionalID,
		Action:         audit.ActionScheduleCancelled,
		Entity:         "schedule",
		EntityID:       audit.Ref(out.Schedule.ID),
		Metadata:       map[string]int{"sessions_cancelled": len(cancelled)},
		At:             now,
	})

	for i := range cancelled {
		ss := &cancelled[i]
		evs := eventsBySession[ss.ID]
		sessionuc.DispatchCancellation(uc.audit, ss, &professionalID, evs, now)
		out.CancelledSessions = append(out.CancelledSessions, ss.ID)
		out.Events = append(out.Events, evs...)
	}
	return out, nil
}
