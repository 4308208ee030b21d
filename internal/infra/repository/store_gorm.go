package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// Postgres codes that mean another transaction won the race.
var concurrentCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"23505": true, // unique_violation
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps driver errors to business kinds.
func translate(err error, entity string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(entity, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && concurrentCodes[pgErr.Code] {
		return httperr.ConcurrentModification(entity, err)
	}
	return err
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (r *GormStore) LoadSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, "schedule", id)
	}
	return &s, nil
}

func (r *GormStore) SaveSchedule(ctx context.Context, s *models.Schedule) error {
	return translate(r.db.WithContext(ctx).Save(s).Error, "schedule", s.ID)
}

func (r *GormStore) DeleteSchedule(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Schedule{}, id)
	if res.Error != nil {
		return translate(res.Error, "schedule", id)
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("schedule", id)
	}
	return nil
}

func (r *GormStore) ListSchedules(ctx context.Context, f store.ScheduleFilter) ([]models.Schedule, error) {
	var out []models.Schedule
	if err := scheduleQuery(r.db.WithContext(ctx), f).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func scheduleQuery(db *gorm.DB, f store.ScheduleFilter) *gorm.DB {
	q := db.Model(&models.Schedule{})

	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DueBefore != nil {
		// The OR must not swallow the other filters.
		q = q.Where("(next_generation_at IS NULL OR next_generation_at <= ?)", *f.DueBefore)
	}
	return q.Order("id ASC")
}

// --------------------------------------------------
// Session
// --------------------------------------------------

func (r *GormStore) LoadSession(ctx context.Context, id uint) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, "session", id)
	}
	return &s, nil
}

func (r *GormStore) SaveSession(ctx context.Context, s *models.Session) error {
	return translate(r.db.WithContext(ctx).Save(s).Error, "session", s.ID)
}

func (r *GormStore) CreateSessions(ctx context.Context, sessions []models.Session) (int, error) {
	if len(sessions) == 0 {
		return 0, nil
	}

	res := insertSessions(r.db.WithContext(ctx), sessions)
	if res.Error != nil {
		return 0, translate(res.Error, "session", 0)
	}
	return int(res.RowsAffected), nil
}

// insertSessions skips rows whose (schedule_id, start) slot already exists.
func insertSessions(db *gorm.DB, sessions []models.Session) *gorm.DB {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sessions)
}

func (r *GormStore) ListSessions(ctx context.Context, f store.SessionFilter) ([]models.Session, error) {
	var out []models.Session
	if err := sessionQuery(r.db.WithContext(ctx), f).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func sessionQuery(db *gorm.DB, f store.SessionFilter) *gorm.DB {
	q := db.Model(&models.Session{})

	if f.From != nil {
		q = q.Where("start >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start < ?", *f.To)
	}
	if f.OrganizationID != 0 {
		q = q.Where("organization_id = ?", f.OrganizationID)
	}
	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	if f.ScheduleID != 0 {
		q = q.Where("schedule_id = ?", f.ScheduleID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OnlyAvailable {
		q = q.Where("status = ? AND booked < max_allowed", string(session.StatusScheduled))
	}
	return q.Order("start ASC, id ASC")
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *GormStore) LoadAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, translate(err, "appointment", id)
	}
	return &ap, nil
}

func (r *GormStore) LoadAppointmentsForSession(ctx context.Context, sessionID uint) ([]models.Appointment, error) {
	return r.ListAppointments(ctx, store.AppointmentFilter{SessionID: sessionID})
}

func (r *GormStore) SaveAppointment(ctx context.Context, ap *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Save(ap).Error, "appointment", ap.ID)
}

func (r *GormStore) ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := appointmentQuery(r.db.WithContext(ctx), f).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func appointmentQuery(db *gorm.DB, f store.AppointmentFilter) *gorm.DB {
	q := db.Model(&models.Appointment{})

	if f.SessionID != 0 {
		q = q.Where("session_id = ?", f.SessionID)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q.Order("session_id ASC, token ASC")
}

// --------------------------------------------------
// Reminder
// --------------------------------------------------

func (r *GormStore) SaveReminder(ctx context.Context, rem *models.Reminder) error {
	return translate(r.db.WithContext(ctx).Save(rem).Error, "reminder", rem.ID)
}

func (r *GormStore) ListRemindersForAppointment(ctx context.Context, appointmentID uint) ([]models.Reminder, error) {
	var out []models.Reminder
	if err := reminderQuery(r.db.WithContext(ctx), appointmentID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func reminderQuery(db *gorm.DB, appointmentID uint) *gorm.DB {
	return db.Model(&models.Reminder{}).
		Where("appointment_id = ?", appointmentID).
		Order("remind_at ASC, id ASC")
}

// --------------------------------------------------
// Units of work
// --------------------------------------------------

// WithSessionLock holds SELECT ... FOR UPDATE on the session row for the
// whole transaction. Nested calls reuse the outer transaction via savepoints.
func (r *GormStore) WithSessionLock(ctx context.Context, id uint, fn func(tx store.Store, s *models.Session) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.Session
		if err := forUpdate(tx).First(&s, id).Error; err != nil {
			return translate(err, "session", id)
		}
		return fn(&GormStore{db: tx}, &s)
	})
	return translate(err, "session", id)
}

func (r *GormStore) WithScheduleLock(ctx context.Context, id uint, fn func(tx store.Store, s *models.Schedule) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s models.Schedule
		if err := forUpdate(tx).First(&s, id).Error; err != nil {
			return translate(err, "schedule", id)
		}
		return fn(&GormStore{db: tx}, &s)
	})
	return translate(err, "schedule", id)
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Compile-time check
var _ store.Store = (*GormStore)(nil)
