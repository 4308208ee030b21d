package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
	appointmentuc "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/usecase/materialize"
	sessionuc "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/session"
)

const (
	professionalID = 3
	januaryRule    = "DTSTART=20240101T090000;UNTIL=20240131T235900;FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=1"
)

var now = time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *memory.Store
	create   *CreateSchedule
	update   *UpdateSchedule
	activate *ActivateSchedule
	cancel   *CancelSchedule
	delete   *DeleteSchedule
	get      *GetSchedule
	list     *ListSchedules

	book         *appointmentuc.BookAppointment
	startSession *sessionuc.TransitionSession
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := memory.New()
	d := audit.NewDispatcher(audit.NewZapSink(zap.NewNop()), zap.NewNop())
	t.Cleanup(d.Close)
	clock := func() time.Time { return now }

	m := materialize.NewMaterializer(repo, d, nil, zap.NewNop(), clock, 0, 0)
	activate := NewActivateSchedule(repo, d, nil, clock, m)

	return &fixture{
		repo:     repo,
		create:   NewCreateSchedule(repo, d, clock, activate),
		update:   NewUpdateSchedule(repo, d, clock),
		activate: activate,
		cancel:   NewCancelSchedule(repo, d, nil, clock),
		delete:   NewDeleteSchedule(repo, d, clock),
		get:      NewGetSchedule(repo),
		list:     NewListSchedules(repo),

		book:         appointmentuc.NewBookAppointment(repo, d, nil, clock),
		startSession: sessionuc.NewStartSession(repo, d, nil, clock),
	}
}

func (f *fixture) draft(t *testing.T) *models.Schedule {
	t.Helper()
	s, err := f.create.Execute(context.Background(), CreateScheduleInput{
		ProfessionalID: professionalID,
		OrganizationID: 1,
		RecurringRule:  januaryRule,
		MaxAllowed:     2,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) sessions(t *testing.T, scheduleID uint) []models.Session {
	t.Helper()
	out, err := f.repo.ListSessions(context.Background(), store.SessionFilter{ScheduleID: scheduleID})
	require.NoError(t, err)
	return out
}

func TestCreate_DraftDoesNotMaterialize(t *testing.T) {
	f := newFixture(t)
	s := f.draft(t)

	assert.Equal(t, "draft", s.Status)
	assert.Equal(t, "UTC", s.Timezone)
	assert.Empty(t, f.sessions(t, s.ID))
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.create.Execute(ctx, CreateScheduleInput{ProfessionalID: 1, RecurringRule: januaryRule, MaxAllowed: 0})
	assert.ErrorIs(t, err, httperr.ErrValidation)

	_, err = f.create.Execute(ctx, CreateScheduleInput{ProfessionalID: 1, RecurringRule: "FREQ=WEEKLY", MaxAllowed: 2, Activate: true})
	assert.ErrorIs(t, err, httperr.ErrValidation)

	all, err := f.list.Execute(ctx, 1, "")
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is stored on a rejected create")
}

func TestCreate_ActiveMaterializesFirstWindow(t *testing.T) {
	f := newFixture(t)

	s, err := f.create.Execute(context.Background(), CreateScheduleInput{
		ProfessionalID: professionalID,
		OrganizationID: 1,
		RecurringRule:  januaryRule,
		Timezone:       "UTC",
		MaxAllowed:     2,
		Activate:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", s.Status)
	assert.Equal(t, "active", s.Cycle)

	sessions := f.sessions(t, s.ID)
	require.Len(t, sessions, 6)
	for _, ss := range sessions {
		assert.Equal(t, 2, ss.MaxAllowed)
		assert.Equal(t, "Scheduled", ss.Status)
		assert.Equal(t, uint(professionalID), ss.ProfessionalID)
	}
}

func TestActivate_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.draft(t)

	_, err := f.activate.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)

	_, err = f.activate.Execute(ctx, professionalID, s.ID)
	assert.ErrorIs(t, err, httperr.ErrInvalidTransition)
	assert.Len(t, f.sessions(t, s.ID), 6)
}

func TestUpdate_OnlyDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.draft(t)

	updated, err := f.update.Execute(ctx, professionalID, s.ID, UpdateScheduleInput{RecurringRule: januaryRule, MaxAllowed: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.MaxAllowed)
	assert.Equal(t, "UTC", updated.Timezone)

	_, err = f.update.Execute(ctx, 99, s.ID, UpdateScheduleInput{RecurringRule: januaryRule, MaxAllowed: 1})
	assert.ErrorIs(t, err, httperr.ErrNotFound)

	_, err = f.activate.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)

	_, err = f.update.Execute(ctx, professionalID, s.ID, UpdateScheduleInput{RecurringRule: januaryRule, MaxAllowed: 1})
	assert.ErrorIs(t, err, httperr.ErrInvalidTransition)
}

func TestDelete_OnlyDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d := f.draft(t)
	require.NoError(t, f.delete.Execute(ctx, professionalID, d.ID))
	_, err := f.get.Execute(ctx, professionalID, d.ID)
	assert.ErrorIs(t, err, httperr.ErrNotFound)

	a := f.draft(t)
	_, err = f.activate.Execute(ctx, professionalID, a.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.delete.Execute(ctx, professionalID, a.ID), httperr.ErrInvalidTransition)
}

func TestCancel_DraftIsRejected(t *testing.T) {
	f := newFixture(t)
	s := f.draft(t)

	_, err := f.cancel.Execute(context.Background(), professionalID, s.ID)
	assert.ErrorIs(t, err, httperr.ErrInvalidTransition)
}

func TestCancel_CascadesThroughSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.draft(t)

	_, err := f.activate.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	sessions := f.sessions(t, s.ID)
	require.Len(t, sessions, 6)

	first, second := sessions[0], sessions[1]
	for _, customer := range []uint{10, 11} {
		_, err := f.book.Execute(ctx, appointmentuc.BookAppointmentInput{
			SessionID: first.ID, CustomerID: customer, PetID: 1, Note: "grooming",
		})
		require.NoError(t, err)
	}
	_, err = f.book.Execute(ctx, appointmentuc.BookAppointmentInput{
		SessionID: second.ID, CustomerID: 12, PetID: 1, Note: "grooming",
	})
	require.NoError(t, err)
	_, err = f.startSession.Execute(ctx, professionalID, second.ID)
	require.NoError(t, err)

	out, err := f.cancel.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Schedule.Status)
	assert.Equal(t, "completed", out.Schedule.Cycle)
	assert.Len(t, out.CancelledSessions, 5)
	assert.Len(t, out.Events, 2)

	for _, ss := range f.sessions(t, s.ID) {
		if ss.ID == second.ID {
			assert.Equal(t, "Started", ss.Status)
			continue
		}
		assert.Equal(t, "Cancelled", ss.Status)
	}

	aps, err := f.repo.LoadAppointmentsForSession(ctx, first.ID)
	require.NoError(t, err)
	for _, ap := range aps {
		assert.Equal(t, "cancelled", ap.Status)
	}
	kept, err := f.repo.LoadAppointmentsForSession(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "booked", kept[0].Status)
}

func TestGetAndList_Describe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.draft(t)

	got, err := f.get.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mon, Wed", got.Display.Days)
	assert.Equal(t, "01/01/2024", got.Display.StartDate)
	assert.Equal(t, "31/01/2024", got.Display.EndDate)
	assert.Equal(t, "09:00 AM", got.Display.StartTime)

	_, err = f.get.Execute(ctx, 99, s.ID)
	assert.ErrorIs(t, err, httperr.ErrNotFound)

	list, err := f.list.Execute(ctx, professionalID, "draft")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = f.list.Execute(ctx, professionalID, "active")
	require.NoError(t, err)
	assert.Empty(t, list)
}
