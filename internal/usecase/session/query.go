package session

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/cache"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type GetSession struct {
	repo store.Store
}

func NewGetSession(repo store.Store) *GetSession {
	return &GetSession{repo: repo}
}

func (uc *GetSession) Execute(ctx context.Context, sessionID uint) (*models.Session, error) {
	return uc.repo.LoadSession(ctx, sessionID)
}

// ======================================================
// SEARCH
// ======================================================

type SearchSessions struct {
	repo  store.Store
	cache *cache.Availability
}

func NewSearchSessions(repo store.Store, cache *cache.Availability) *SearchSessions {
	return &SearchSessions{repo: repo, cache: cache}
}

// Execute lists sessions ascending by start. Searches for available sessions
// of one organization are served from the cache when possible.
func (uc *SearchSessions) Execute(ctx context.Context, f store.SessionFilter) ([]models.Session, error) {
	cacheable := f.OnlyAvailable && f.OrganizationID != 0

	var entry cache.Entry
	if cacheable {
		entry = uc.cache.Open(ctx, f.OrganizationID, cacheKey(f))
		if hit, ok := uc.cache.Get(ctx, entry); ok {
			return hit, nil
		}
	}

	sessions, err := uc.repo.ListSessions(ctx, f)
	if err != nil {
		return nil, err
	}

	if cacheable {
		uc.cache.Set(ctx, entry, sessions)
	}
	return sessions, nil
}

func cacheKey(f store.SessionFilter) string {
	unix := func(t *time.Time) int64 {
		if t == nil {
			return 0
		}
		return t.Unix()
	}
	return fmt.Sprintf("%d:%d:%d:%d:%s",
		unix(f.From), unix(f.To), f.ProfessionalID, f.ScheduleID, f.Status,
	)
}
