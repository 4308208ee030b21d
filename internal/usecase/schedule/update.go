package schedule

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

func ownedBy(s *models.Schedule, professionalID uint) error {
	if s.ProfessionalID != professionalID {
		return httperr.NotFound("schedule", s.ID)
	}
	return nil
}

type UpdateScheduleInput struct {
	RecurringRule string
	Timezone      string
	MaxAllowed    int
}

// UpdateSchedule edits a draft schedule. Active schedules are immutable.
type UpdateSchedule struct {
	repo  store.Store
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewUpdateSchedule(repo store.Store, audit *audit.Dispatcher, clock timezone.Clock) *UpdateSchedule {
	return &UpdateSchedule{repo: repo, audit: audit, clock: clock}
}

func (uc *UpdateSchedule) Execute(ctx context.Context, professionalID, scheduleID uint, in UpdateScheduleInput) (*models.Schedule, error) {
	now := uc.clock()

	var out models.Schedule
	err := uc.repo.WithScheduleLock(ctx, scheduleID, func(tx store.Store, s *models.Schedule) error {
		if err := ownedBy(s, professionalID); err != nil {
			return err
		}

		tz := strings.TrimSpace(in.Timezone)
		if tz == "" {
			tz = s.Timezone
		}
		if err := domain.Edit(s, strings.TrimSpace(in.RecurringRule), in.MaxAllowed, tz); err != nil {
			return err
		}

		s.UpdatedAt = now
		if err := tx.SaveSchedule(ctx, s); err != nil {
			return err
		}
		out = *s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: out.OrganizationID,
		ProfileID:      &professionalID,
		Action:         audit.ActionScheduleUpdated,
		Entity:         "schedule",
		EntityID:       audit.Ref(out.ID),
		At:             now,
	})
	return &out, nil
}
