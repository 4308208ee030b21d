package schedule

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// DeleteSchedule removes a draft schedule. Drafts never produced sessions.
type DeleteSchedule struct {
	repo  store.Store
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewDeleteSchedule(repo store.Store, audit *audit.Dispatcher, clock timezone.Clock) *DeleteSchedule {
	return &DeleteSchedule{repo: repo, audit: audit, clock: clock}
}

func (uc *DeleteSchedule) Execute(ctx context.Context, professionalID, scheduleID uint) error {
	var orgID uint
	err := uc.repo.WithScheduleLock(ctx, scheduleID, func(tx store.Store, s *models.Schedule) error {
		if err := ownedBy(s, professionalID); err != nil {
			return err
		}
		if err := domain.Delete(s); err != nil {
			return err
		}
		orgID = s.OrganizationID
		return tx.DeleteSchedule(ctx, s.ID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: orgID,
		ProfileID:      &professionalID,
		Action:         audit.ActionScheduleDeleted,
		Entity:         "schedule",
		EntityID:       audit.Ref(scheduleID),
		At:             uc.clock(),
	})
	return nil
}
