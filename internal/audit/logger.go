package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// Sink persists audit events.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	return l.db.WithContext(ctx).Create(toModel(ev)).Error
}

// ZapSink writes events to the process log, used when there is no database.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Log(_ context.Context, ev Event) error {
	m := toModel(ev)
	s.log.Info("audit",
		zap.String("event_id", m.EventID),
		zap.Uint("organization_id", m.OrganizationID),
		zap.String("action", m.Action),
		zap.String("entity", m.Entity),
		zap.Uintp("entity_id", m.EntityID),
		zap.String("metadata", m.Metadata),
	)
	return nil
}

func toModel(ev Event) *models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return &models.AuditLog{
		OrganizationID: ev.OrganizationID,
		ProfileID:      ev.ProfileID,
		EventID:        ev.ID.String(),
		Action:         ev.Action,
		Entity:         ev.Entity,
		EntityID:       ev.EntityID,
		Metadata:       metaJSON,
		CreatedAt:      ev.At,
	}
}
