package session

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

// ownedBy hides sessions of other professionals behind not_found.
func ownedBy(s *models.Session, professionalID uint) error {
	if s.ProfessionalID != professionalID {
		return httperr.NotFound("session", s.ID)
	}
	return nil
}

// TransitionSession applies start or complete to a session the caller owns.
type TransitionSession struct {
	repo   store.Store
	audit  *audit.Dispatcher
	cache  *cache.Availability
	clock  timezone.Clock
	apply  func(*models.Session, time.Time) error
	action string
}

func NewStartSession(repo store.Store, dispatcher *audit.Dispatcher, cache *cache.Availability, clock timezone.Clock) *TransitionSession {
	return &TransitionSession{repo: repo, audit: dispatcher, cache: cache, clock: clock, apply: domain.Start, action: audit.ActionSessionStarted}
}

func NewCompleteSession(repo store.Store, dispatcher *audit.Dispatcher, cache *cache.Availability, clock timezone.Clock) *TransitionSession {
	return &TransitionSession{repo: repo, audit: dispatcher, cache: cache, clock: clock, apply: domain.Complete, action: audit.ActionSessionCompleted}
}

func (uc *TransitionSession) Execute(ctx context.Context, professionalID, sessionID uint) (*models.Session, error) {
	now := uc.clock()

	var out models.Session
	err := uc.repo.WithSessionLock(ctx, sessionID, func(tx store.Store, s *models.Session) error {
		if err := ownedBy(s, professionalID); err != nil {
			return err
		}
		if err := uc.apply(s, now); err != nil {
			return err
		}
		s.UpdatedAt = now
		if err := tx.SaveSession(ctx, s); err != nil {
			return err
		}
		out = *s
		return nil
	})
	if err != nil {
		return nil, err
	}

	// a started session leaves the bookable set
	uc.cache.Invalidate(ctx, out.OrganizationID)
	uc.audit.Dispatch(audit.Event{
		OrganizationID: out.OrganizationID,
		ProfileID:      &professionalID,
		Action:         uc.action,
		Entity:         "session",
		EntityID:       audit.Ref(out.ID),
		At:             now,
	})

	return &out, nil
}
