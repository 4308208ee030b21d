package schedule

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateScheduleInput struct {
	ProfessionalID uint
	OrganizationID uint
	RecurringRule  string
	Timezone       string
	MaxAllowed     int
	// Activate creates the schedule directly in active status.
	Activate bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateSchedule struct {
	repo     store.Store
	audit    *audit.Dispatcher
	clock    timezone.Clock
	activate *ActivateSchedule
}

func NewCreateSchedule(
	repo store.Store,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	activate *ActivateSchedule,
) *CreateSchedule {
	return &CreateSchedule{
		repo:     repo,
		audit:    audit,
		clock:    clock,
		activate: activate,
	}
}

func (uc *CreateSchedule) Execute(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	now := uc.clock()

	tz := strings.TrimSpace(in.Timezone)
	if tz == "" {
		tz = timezone.Default()
	}

	s := &models.Schedule{
		ProfessionalID: in.ProfessionalID,
		OrganizationID: in.OrganizationID,
		RecurringRule:  strings.TrimSpace(in.RecurringRule),
		Timezone:       tz,
		MaxAllowed:     in.MaxAllowed,
		Status:         string(domain.InitialStatus()),
		Cycle:          string(domain.CycleInitial),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Validate up front so an activating create cannot leave a broken draft.
	if _, err := domain.Validate(s); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveSchedule(ctx, s); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OrganizationID: s.OrganizationID,
		ProfileID:      &in.ProfessionalID,
		Action:         audit.ActionScheduleCreated,
		Entity:         "schedule",
		EntityID:       audit.Ref(s.ID),
		At:             now,
	})

	if !in.Activate {
		return s, nil
	}
	return uc.activate.Execute(ctx, in.ProfessionalID, s.ID)
}
