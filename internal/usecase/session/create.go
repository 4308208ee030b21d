package session

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateSessionInput struct {
	ProfessionalID uint
	OrganizationID uint
	Start          time.Time
	MaxAllowed     int
}

// ======================================================
// USE CASE
// ======================================================

// CreateSession opens an ad-hoc session outside any schedule.
type CreateSession struct {
	repo  store.Store
	audit *audit.Dispatcher
	cache *cache.Availability
	clock timezone.Clock
}

func NewCreateSession(
	repo store.Store,
	audit *audit.Dispatcher,
	cache *cache.Availability,
	clock timezone.Clock,
) *CreateSession {
	return &CreateSession{
		repo:  repo,
		audit: audit,
		cache: cache,
		clock: clock,
	}
}

func (uc *CreateSession) Execute(ctx context.Context, in CreateSessionInput) (*models.Session, error) {
	s, err := domain.NewAdHoc(in.ProfessionalID, in.OrganizationID, in.Start, in.MaxAllowed)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	s.CreatedAt = now
	s.UpdatedAt = now

	if err := uc.repo.SaveSession(ctx, s); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, s.OrganizationID)
	uc.audit.Dispatch(audit.Event{
		OrganizationID: s.OrganizationID,
		ProfileID:      &in.ProfessionalID,
		Action:         audit.ActionSessionCreated,
		Entity:         "session",
		EntityID:       audit.Ref(s.ID),
		At:             now,
	})

	return s, nil
}
