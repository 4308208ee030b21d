// Package cache keeps short-lived copies of session search results in Redis.
// Entries are grouped under a per-organization version; any booking change
// bumps the version so stale entries simply stop being read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

const keyPrefix = "sessions:"

// Availability is safe to use as a nil pointer: every method is then a no-op
// and lookups always miss.
type Availability struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewAvailability(client *redis.Client, ttl time.Duration, log *zap.Logger) *Availability {
	if client == nil {
		return nil
	}
	return &Availability{client: client, ttl: ttl, log: log}
}

// Connect builds the Redis client for addr. An empty addr disables caching.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func versionKey(orgID uint) string {
	return fmt.Sprintf("%sv:%d", keyPrefix, orgID)
}

func (a *Availability) version(ctx context.Context, orgID uint) string {
	v, err := a.client.Get(ctx, versionKey(orgID)).Result()
	if err == redis.Nil {
		return "0"
	}
	if err != nil {
		a.log.Warn("cache version lookup failed", zap.Error(err))
		return ""
	}
	return v
}

// Entry is one cached search pinned to the organization version read when it
// was opened. The zero Entry always misses and is never written.
type Entry struct {
	key string
}

// Open reads the current version once. Callers open the entry before querying
// the store and reuse it for Get and Set, so results computed before an
// Invalidate can only land under the superseded version.
func (a *Availability) Open(ctx context.Context, orgID uint, query string) Entry {
	if a == nil {
		return Entry{}
	}
	v := a.version(ctx, orgID)
	if v == "" {
		return Entry{}
	}
	return Entry{key: keyPrefix + strconv.FormatUint(uint64(orgID), 10) + ":" + v + ":" + query}
}

func (a *Availability) Get(ctx context.Context, e Entry) ([]models.Session, bool) {
	if a == nil || e.key == "" {
		return nil, false
	}

	data, err := a.client.Get(ctx, e.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			a.log.Warn("cache read failed", zap.String("key", e.key), zap.Error(err))
		}
		return nil, false
	}

	var out []models.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (a *Availability) Set(ctx context.Context, e Entry, sessions []models.Session) {
	if a == nil || e.key == "" {
		return
	}

	b, err := json.Marshal(sessions)
	if err != nil {
		return
	}
	if err := a.client.Set(ctx, e.key, b, a.ttl).Err(); err != nil {
		a.log.Warn("cache write failed", zap.String("key", e.key), zap.Error(err))
	}
}

// Invalidate drops every cached search of the organization.
func (a *Availability) Invalidate(ctx context.Context, orgID uint) {
	if a == nil {
		return
	}
	if err := a.client.Incr(ctx, versionKey(orgID)).Err(); err != nil {
		a.log.Warn("cache invalidation failed", zap.Uint("organization_id", orgID), zap.Error(err))
	}
}
