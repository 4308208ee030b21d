// Package memory is an in-process implementation of store.Store. Each unit
// of work holds a per-entity mutex and buffers its writes in an overlay that
// is merged only when the work succeeds.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type state struct {
	mu           sync.Mutex
	nextID       uint
	schedules    map[uint]models.Schedule
	sessions     map[uint]models.Session
	appointments map[uint]models.Appointment
	reminders    map[uint]models.Reminder

	locksMu       sync.Mutex
	sessionLocks  map[uint]*sync.Mutex
	scheduleLocks map[uint]*sync.Mutex
}

type overlay struct {
	parent       *overlay
	schedules    map[uint]models.Schedule
	deleted      map[uint]bool
	sessions     map[uint]models.Session
	appointments map[uint]models.Appointment
	reminders    map[uint]models.Reminder
}

func newOverlay(parent *overlay) *overlay {
	return &overlay{
		parent:       parent,
		schedules:    map[uint]models.Schedule{},
		deleted:      map[uint]bool{},
		sessions:     map[uint]models.Session{},
		appointments: map[uint]models.Appointment{},
		reminders:    map[uint]models.Reminder{},
	}
}

type lockKey struct {
	kind string
	id   uint
}

type Store struct {
	st   *state
	ov   *overlay
	held map[lockKey]bool
}

func New() *Store {
	return &Store{
		st: &state{
			schedules:     map[uint]models.Schedule{},
			sessions:      map[uint]models.Session{},
			appointments:  map[uint]models.Appointment{},
			reminders:     map[uint]models.Reminder{},
			sessionLocks:  map[uint]*sync.Mutex{},
			scheduleLocks: map[uint]*sync.Mutex{},
		},
	}
}

func (s *Store) newID() uint {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.nextID++
	return s.st.nextID
}

// chain returns the overlays from the outermost to the innermost.
func (s *Store) chain() []*overlay {
	var out []*overlay
	for o := s.ov; o != nil; o = o.parent {
		out = append(out, o)
	}
	slices.Reverse(out)
	return out
}

// ======================================================
// Schedule
// ======================================================

func (s *Store) LoadSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	for o := s.ov; o != nil; o = o.parent {
		if o.deleted[id] {
			return nil, httperr.NotFound("schedule", id)
		}
		if v, ok := o.schedules[id]; ok {
			return &v, nil
		}
	}

	s.st.mu.Lock()
	v, ok := s.st.schedules[id]
	s.st.mu.Unlock()
	if !ok {
		return nil, httperr.NotFound("schedule", id)
	}
	return &v, nil
}

func (s *Store) SaveSchedule(ctx context.Context, sc *models.Schedule) error {
	if sc.ID == 0 {
		sc.ID = s.newID()
	}
	if s.ov != nil {
		s.ov.schedules[sc.ID] = *sc
		delete(s.ov.deleted, sc.ID)
		return nil
	}

	s.st.mu.Lock()
	s.st.schedules[sc.ID] = *sc
	s.st.mu.Unlock()
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id uint) error {
	if _, err := s.LoadSchedule(ctx, id); err != nil {
		return err
	}
	if s.ov != nil {
		delete(s.ov.schedules, id)
		s.ov.deleted[id] = true
		return nil
	}

	s.st.mu.Lock()
	delete(s.st.schedules, id)
	s.st.mu.Unlock()
	return nil
}

func (s *Store) ListSchedules(ctx context.Context, f store.ScheduleFilter) ([]models.Schedule, error) {
	all := s.mergedSchedules()

	out := make([]models.Schedule, 0, len(all))
	for _, sc := range all {
		if f.ProfessionalID != 0 && sc.ProfessionalID != f.ProfessionalID {
			continue
		}
		if f.Status != "" && sc.Status != f.Status {
			continue
		}
		if f.DueBefore != nil && sc.NextGenerationAt != nil && sc.NextGenerationAt.After(*f.DueBefore) {
			continue
		}
		out = append(out, sc)
	}

	slices.SortFunc(out, func(a, b models.Schedule) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (s *Store) mergedSchedules() map[uint]models.Schedule {
	s.st.mu.Lock()
	all := make(map[uint]models.Schedule, len(s.st.schedules))
	for id, v := range s.st.schedules {
		all[id] = v
	}
	s.st.mu.Unlock()

	for _, o := range s.chain() {
		for id := range o.deleted {
			delete(all, id)
		}
		for id, v := range o.schedules {
			all[id] = v
		}
	}
	return all
}

// ======================================================
// Session
// ======================================================

func (s *Store) LoadSession(ctx context.Context, id uint) (*models.Session, error) {
	for o := s.ov; o != nil; o = o.parent {
		if v, ok := o.sessions[id]; ok {
			return &v, nil
		}
	}

	s.st.mu.Lock()
	v, ok := s.st.sessions[id]
	s.st.mu.Unlock()
	if !ok {
		return nil, httperr.NotFound("session", id)
	}
	return &v, nil
}

func (s *Store) SaveSession(ctx context.Context, ss *models.Session) error {
	if ss.ID == 0 {
		ss.ID = s.newID()
	}
	if s.ov != nil {
		s.ov.sessions[ss.ID] = *ss
		return nil
	}

	s.st.mu.Lock()
	s.st.sessions[ss.ID] = *ss
	s.st.mu.Unlock()
	return nil
}

func (s *Store) CreateSessions(ctx context.Context, sessions []models.Session) (int, error) {
	type slot struct {
		schedule uint
		start    int64
	}

	existing := map[slot]bool{}
	for _, ss := range s.mergedSessions() {
		if ss.ScheduleID != nil {
			existing[slot{*ss.ScheduleID, ss.Start.UnixNano()}] = true
		}
	}

	created := 0
	for i := range sessions {
		ss := &sessions[i]
		if ss.ScheduleID != nil {
			key := slot{*ss.ScheduleID, ss.Start.UnixNano()}
			if existing[key] {
				continue
			}
			existing[key] = true
		}
		if err := s.SaveSession(ctx, ss); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Store) ListSessions(ctx context.Context, f store.SessionFilter) ([]models.Session, error) {
	out := []models.Session{}
	for _, ss := range s.mergedSessions() {
		if f.From != nil && ss.Start.Before(*f.From) {
			continue
		}
		if f.To != nil && !ss.Start.Before(*f.To) {
			continue
		}
		if f.OrganizationID != 0 && ss.OrganizationID != f.OrganizationID {
			continue
		}
		if f.ProfessionalID != 0 && ss.ProfessionalID != f.ProfessionalID {
			continue
		}
		if f.ScheduleID != 0 && (ss.ScheduleID == nil || *ss.ScheduleID != f.ScheduleID) {
			continue
		}
		if f.Status != "" && ss.Status != f.Status {
			continue
		}
		if f.OnlyAvailable && (ss.Status != string(session.StatusScheduled) || ss.Booked >= ss.MaxAllowed) {
			continue
		}
		out = append(out, ss)
	}

	slices.SortFunc(out, func(a, b models.Session) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
	return out, nil
}

func (s *Store) mergedSessions() map[uint]models.Session {
	s.st.mu.Lock()
	all := make(map[uint]models.Session, len(s.st.sessions))
	for id, v := range s.st.sessions {
		all[id] = v
	}
	s.st.mu.Unlock()

	for _, o := range s.chain() {
		for id, v := range o.sessions {
			all[id] = v
		}
	}
	return all
}

// ======================================================
// Appointment
// ======================================================

func (s *Store) LoadAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	for o := s.ov; o != nil; o = o.parent {
		if v, ok := o.appointments[id]; ok {
			return &v, nil
		}
	}

	s.st.mu.Lock()
	v, ok := s.st.appointments[id]
	s.st.mu.Unlock()
	if !ok {
		return nil, httperr.NotFound("appointment", id)
	}
	return &v, nil
}

func (s *Store) LoadAppointmentsForSession(ctx context.Context, sessionID uint) ([]models.Appointment, error) {
	return s.ListAppointments(ctx, store.AppointmentFilter{SessionID: sessionID})
}

func (s *Store) SaveAppointment(ctx context.Context, ap *models.Appointment) error {
	if ap.ID == 0 {
		ap.ID = s.newID()
	}
	if s.ov != nil {
		s.ov.appointments[ap.ID] = *ap
		return nil
	}

	s.st.mu.Lock()
	s.st.appointments[ap.ID] = *ap
	s.st.mu.Unlock()
	return nil
}

func (s *Store) ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]models.Appointment, error) {
	s.st.mu.Lock()
	all := make(map[uint]models.Appointment, len(s.st.appointments))
	for id, v := range s.st.appointments {
		all[id] = v
	}
	s.st.mu.Unlock()

	for _, o := range s.chain() {
		for id, v := range o.appointments {
			all[id] = v
		}
	}

	out := []models.Appointment{}
	for _, ap := range all {
		if f.SessionID != 0 && ap.SessionID != f.SessionID {
			continue
		}
		if f.CustomerID != 0 && ap.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		out = append(out, ap)
	}

	slices.SortFunc(out, func(a, b models.Appointment) int {
		if a.SessionID != b.SessionID {
			return int(a.SessionID) - int(b.SessionID)
		}
		return a.Token - b.Token
	})
	return out, nil
}

// ======================================================
// Reminder
// ======================================================

func (s *Store) SaveReminder(ctx context.Context, r *models.Reminder) error {
	if r.ID == 0 {
		r.ID = s.newID()
	}
	if s.ov != nil {
		s.ov.reminders[r.ID] = *r
		return nil
	}

	s.st.mu.Lock()
	s.st.reminders[r.ID] = *r
	s.st.mu.Unlock()
	return nil
}

func (s *Store) ListRemindersForAppointment(ctx context.Context, appointmentID uint) ([]models.Reminder, error) {
	s.st.mu.Lock()
	all := make(map[uint]models.Reminder, len(s.st.reminders))
	for id, v := range s.st.reminders {
		all[id] = v
	}
	s.st.mu.Unlock()

	for _, o := range s.chain() {
		for id, v := range o.reminders {
			all[id] = v
		}
	}

	out := []models.Reminder{}
	for _, r := range all {
		if r.AppointmentID == appointmentID {
			out = append(out, r)
		}
	}

	slices.SortFunc(out, func(a, b models.Reminder) int {
		if c := a.RemindAt.Compare(b.RemindAt); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
	return out, nil
}

// ======================================================
// Units of work
// ======================================================

func (s *Store) WithSessionLock(ctx context.Context, id uint, fn func(tx store.Store, ss *models.Session) error) error {
	return s.within(ctx, lockKey{"session", id}, func(tx *Store) error {
		ss, err := tx.LoadSession(ctx, id)
		if err != nil {
			return err
		}
		return fn(tx, ss)
	})
}

func (s *Store) WithScheduleLock(ctx context.Context, id uint, fn func(tx store.Store, sc *models.Schedule) error) error {
	return s.within(ctx, lockKey{"schedule", id}, func(tx *Store) error {
		sc, err := tx.LoadSchedule(ctx, id)
		if err != nil {
			return err
		}
		return fn(tx, sc)
	})
}

func (s *Store) within(ctx context.Context, key lockKey, fn func(tx *Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.held[key] {
		mu := s.lockFor(key)
		mu.Lock()
		defer mu.Unlock()
	}

	held := make(map[lockKey]bool, len(s.held)+1)
	for k := range s.held {
		held[k] = true
	}
	held[key] = true

	tx := &Store{st: s.st, ov: newOverlay(s.ov), held: held}
	if err := fn(tx); err != nil {
		return err
	}

	s.commit(tx.ov)
	return nil
}

func (s *Store) lockFor(key lockKey) *sync.Mutex {
	s.st.locksMu.Lock()
	defer s.st.locksMu.Unlock()

	locks := s.st.sessionLocks
	if key.kind == "schedule" {
		locks = s.st.scheduleLocks
	}
	mu, ok := locks[key.id]
	if !ok {
		mu = &sync.Mutex{}
		locks[key.id] = mu
	}
	return mu
}

// commit merges a finished child overlay into this store's own view.
func (s *Store) commit(child *overlay) {
	if s.ov != nil {
		for id := range child.deleted {
			delete(s.ov.schedules, id)
			s.ov.deleted[id] = true
		}
		for id, v := range child.schedules {
			s.ov.schedules[id] = v
			delete(s.ov.deleted, id)
		}
		for id, v := range child.sessions {
			s.ov.sessions[id] = v
		}
		for id, v := range child.appointments {
			s.ov.appointments[id] = v
		}
		for id, v := range child.reminders {
			s.ov.reminders[id] = v
		}
		return
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for id := range child.deleted {
		delete(s.st.schedules, id)
	}
	for id, v := range child.schedules {
		s.st.schedules[id] = v
	}
	for id, v := range child.sessions {
		s.st.sessions[id] = v
	}
	for id, v := range child.appointments {
		s.st.appointments[id] = v
	}
	for id, v := range child.reminders {
		s.st.reminders[id] = v
	}
}

// Compile-time check
var _ store.Store = (*Store)(nil)
