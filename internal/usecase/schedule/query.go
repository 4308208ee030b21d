package schedule

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// Described pairs a schedule with the display form of its rule.
type Described struct {
	Schedule models.Schedule
	Display  recurrence.Display
}

func describe(s models.Schedule) Described {
	return Described{
		Schedule: s,
		Display:  recurrence.Describe(s.RecurringRule).Display(),
	}
}

type GetSchedule struct {
	repo store.Store
}

func NewGetSchedule(repo store.Store) *GetSchedule {
	return &GetSchedule{repo: repo}
}

func (uc *GetSchedule) Execute(ctx context.Context, professionalID, scheduleID uint) (*Described, error) {
	s, err := uc.repo.LoadSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := ownedBy(s, professionalID); err != nil {
		return nil, err
	}
	d := describe(*s)
	return &d, nil
}

type ListSchedules struct {
	repo store.Store
}

func NewListSchedules(repo store.Store) *ListSchedules {
	return &ListSchedules{repo: repo}
}

func (uc *ListSchedules) Execute(ctx context.Context, professionalID uint, status string) ([]Described, error) {
	schedules, err := uc.repo.ListSchedules(ctx, store.ScheduleFilter{
		ProfessionalID: professionalID,
		Status:         status,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Described, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, describe(s))
	}
	return out, nil
}
