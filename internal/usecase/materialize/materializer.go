// Package materialize turns active schedules into concrete sessions over a
// rolling window.
package materialize

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

const (
	DefaultHorizon = 20 * 24 * time.Hour
	DefaultMaxSpan = 365 * 24 * time.Hour
)

type Materializer struct {
	repo    store.Store
	audit   *audit.Dispatcher
	cache   *cache.Availability
	log     *zap.Logger
	clock   timezone.Clock
	horizon time.Duration
	maxSpan time.Duration
}

func NewMaterializer(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	log *zap.Logger,
	clock timezone.Clock,
	horizon time.Duration,
	maxSpan time.Duration,
) *Materializer {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if maxSpan <= 0 {
		maxSpan = DefaultMaxSpan
	}
	return &Materializer{
		repo:    repo,
		audit:   audit,
		cache:   cache,
		log:     log,
		clock:   clock,
		horizon: horizon,
		maxSpan: maxSpan,
	}
}

// ======================================================
// ADVANCE
// ======================================================

// Advance materializes the next window of s through tx and records the
// progress on s. The caller must hold the schedule's lock. It returns the
// number of sessions created.
func (m *Materializer) Advance(ctx context.Context, tx store.Store, s *models.Schedule, now time.Time) (int, error) {
	if schedule.Status(s.Status) != schedule.StatusActive || schedule.Cycle(s.Cycle) == schedule.CycleCompleted {
		return 0, nil
	}

	rule, err := schedule.Validate(s)
	if err != nil {
		return 0, err
	}
	loc := schedule.Location(s)

	first := rule.FirstInstant(loc)
	limit := first.Add(m.maxSpan)

	from := first
	if s.NextGenerationAt != nil {
		from = *s.NextGenerationAt
	}
	to := now.Add(m.horizon)
	if to.After(limit) {
		to = limit
	}
	if to.Before(from) {
		return 0, nil
	}

	batch, err := schedule.Materialize(s, from, to)
	if err != nil {
		return 0, err
	}
	if err := schedule.CheckMaterialization(s, batch.Sessions); err != nil {
		return 0, err
	}

	created, err := tx.CreateSessions(ctx, batch.Sessions)
	if err != nil {
		return 0, err
	}

	if batch.Next == nil || batch.Next.After(limit) {
		s.NextGenerationAt = nil
		s.Cycle = string(schedule.CycleCompleted)
	} else {
		next := *batch.Next
		s.NextGenerationAt = &next
		s.Cycle = string(schedule.CycleActive)
	}
	s.UpdatedAt = now

	if err := tx.SaveSchedule(ctx, s); err != nil {
		return 0, err
	}
	return created, nil
}

// ======================================================
// RUN ONCE
// ======================================================

// RunOnce advances every active schedule whose next window is due. A failing
// schedule is logged and skipped.
func (m *Materializer) RunOnce(ctx context.Context) (int, error) {
	now := m.clock()
	due := now.Add(m.horizon)

	schedules, err := m.repo.ListSchedules(ctx, store.ScheduleFilter{
		Status:    string(schedule.StatusActive),
		DueBefore: &due,
	})
	if err != nil {
		return 0, err
	}

	total := 0
	for _, candidate := range schedules {
		if schedule.Cycle(candidate.Cycle) == schedule.CycleCompleted {
			continue
		}

		var created int
		var orgID uint
		err := m.repo.WithScheduleLock(ctx, candidate.ID, func(tx store.Store, s *models.Schedule) error {
			orgID = s.OrganizationID
			n, err := m.Advance(ctx, tx, s, now)
			created = n
			return err
		})
		if err != nil {
			m.log.Error("materialization failed",
				zap.Uint("schedule_id", candidate.ID),
				zap.Error(err),
			)
			continue
		}
		if created == 0 {
			continue
		}

		total += created
		m.cache.Invalidate(ctx, orgID)
		m.audit.Dispatch(audit.Event{
			OrganizationID: orgID,
			Action:         audit.ActionSessionsMaterialized,
			Entity:         "schedule",
			EntityID:       audit.Ref(candidate.ID),
			Metadata:       map[string]int{"created": created},
			At:             now,
		})
	}

	m.log.Info("materialization finished",
		zap.Int("schedules", len(schedules)),
		zap.Int("sessions_created", total),
	)
	return total, nil
}
