package schedule

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
	"github.com/BruksfildServices01/petcare-scheduler/internal/usecase/materialize"
)

// ActivateSchedule moves a draft schedule to active and materializes its
// first window of sessions in the same transaction.
type ActivateSchedule struct {
	repo         store.Store
	audit        *audit.Dispatcher
	cache        *cache.Availability
	clock        timezone.Clock
	materializer *materialize.Materializer
}

func NewActivateSchedule(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	clock timezone.Clock,
	materializer *materialize.Materializer,
) *ActivateSchedule {
	return &ActivateSchedule{
		repo:         repo,
		audit:        audit,
		cache:        cache,
		clock:        clock,
		materializer: materializer,
	}
}

func (uc *ActivateSchedule) Execute(ctx context.Context, professionalID, scheduleID uint) (*models.Schedule, error) {
	now := uc.clock()

	var (
		out     models.Schedule
		created int
	)
	err := uc.repo.WithScheduleLock(ctx, scheduleID, func(tx store.Store, s *models.Schedule) error {
		if err := ownedBy(s, professionalID); err != nil {
			return err
		}
		if err := domain.Activate(s, now); err != nil {
			return err
		}
		s.UpdatedAt = now

		n, err := uc.materializer.Advance(ctx, tx, s, now)
		if err != nil {
			return err
		}
		created = n
		out = *s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, out.OrganizationID)
	uc.audit.Dispatch(audit.Event{
		OrganizationID: out.OrganizationID,
		ProfileID:      &professionalID,
		Action:         audit.ActionScheduleActivated,
		Entity:         "schedule",
		EntityID:       audit.Ref(out.ID),
		Metadata:       map[string]int{"sessions_created": created},
		At:             now,
	})
	return &out, nil
}
