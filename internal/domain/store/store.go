package store

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type ScheduleFilter struct {
	ProfessionalID uint
	Status         string
	// DueBefore selects active schedules whose next materialization is at or
	// before this instant (or not yet started).
	DueBefore *time.Time
}

type SessionFilter struct {
	From           *time.Time
	To             *time.Time
	OrganizationID uint
	ProfessionalID uint
	ScheduleID     uint
	Status         string
	OnlyAvailable  bool
}

type AppointmentFilter struct {
	SessionID  uint
	CustomerID uint
	Status     string
}

// Store is the persistence boundary of the scheduling core. Every load
// returns an httperr not_found error when the id does not exist.
type Store interface {
	// -------- Schedule --------
	LoadSchedule(ctx context.Context, id uint) (*models.Schedule, error)
	SaveSchedule(ctx context.Context, s *models.Schedule) error
	DeleteSchedule(ctx context.Context, id uint) error
	ListSchedules(ctx context.Context, f ScheduleFilter) ([]models.Schedule, error)

	// -------- Session --------
	LoadSession(ctx context.Context, id uint) (*models.Session, error)
	SaveSession(ctx context.Context, s *models.Session) error
	// CreateSessions inserts materialized sessions, skipping any whose
	// (schedule, start) already exists. It returns how many were inserted.
	CreateSessions(ctx context.Context, sessions []models.Session) (int, error)
	ListSessions(ctx context.Context, f SessionFilter) ([]models.Session, error)

	// -------- Appointment --------
	LoadAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	LoadAppointmentsForSession(ctx context.Context, sessionID uint) ([]models.Appointment, error)
	SaveAppointment(ctx context.Context, ap *models.Appointment) error
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error)

	// -------- Reminder --------
	SaveReminder(ctx context.Context, r *models.Reminder) error
	// ListRemindersForAppointment returns reminders ascending by remind time.
	ListRemindersForAppointment(ctx context.Context, appointmentID uint) ([]models.Reminder, error)

	// -------- Units of work --------

	// WithSessionLock runs fn in one transaction while holding the exclusive
	// lock of session id. fn receives a Store bound to that transaction and
	// the freshly loaded session. Nothing fn wrote is kept when it returns an
	// error.
	WithSessionLock(ctx context.Context, id uint, fn func(tx Store, s *models.Session) error) error

	// WithScheduleLock is the schedule counterpart of WithSessionLock.
	WithScheduleLock(ctx context.Context, id uint, fn func(tx Store, s *models.Schedule) error) error
}
