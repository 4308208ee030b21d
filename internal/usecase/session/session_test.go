package session

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
)

const professionalID = 3

var now = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	repo     *memory.Store
	create   *CreateSession
	start    *TransitionSession
	complete *TransitionSession
	cancel   *CancelSession
	search   *SearchSessions
	get      *GetSession
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := memory.New()
	d := audit.NewDispatcher(audit.NewZapSink(zap.NewNop()), zap.NewNop())
	t.Cleanup(d.Close)
	clock := func() time.Time { return now }

	return &fixture{
		repo:     repo,
		create:   NewCreateSession(repo, d, nil, clock),
		start:    NewStartSession(repo, d, nil, clock),
		complete: NewCompleteSession(repo, d, nil, clock),
		cancel:   NewCancelSession(repo, d, nil, clock),
		search:   NewSearchSessions(repo, nil),
		get:      NewGetSession(repo),
	}
}

func (f *fixture) adHoc(t *testing.T, start time.Time, maxAllowed int) *models.Session {
	t.Helper()
	s, err := f.create.Execute(context.Background(), CreateSessionInput{
		ProfessionalID: professionalID,
		OrganizationID: 1,
		Start:          start,
		MaxAllowed:     maxAllowed,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) appointment(t *testing.T, sessionID uint, token int, status string) *models.Appointment {
	t.Helper()
	ap := &models.Appointment{SessionID: sessionID, Token: token, PetID: 1, CustomerID: uint(10 + token), Note: "check-up", Status: status}
	require.NoError(t, f.repo.SaveAppointment(context.Background(), ap))
	return ap
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.create.Execute(context.Background(), CreateSessionInput{ProfessionalID: 1, Start: now, MaxAllowed: 0})
	assert.ErrorIs(t, err, httperr.ErrValidation)

	s := f.adHoc(t, now.Add(time.Hour), 3)
	assert.Equal(t, "Scheduled", s.Status)
	assert.Nil(t, s.ScheduleID)
	assert.NotZero(t, s.ID)
}

func TestCancel_CascadesToBookedOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.adHoc(t, now.Add(time.Hour), 4)
	s.Booked = 4
	s.NextToken = 5
	require.NoError(t, f.repo.SaveSession(ctx, s))

	b1 := f.appointment(t, s.ID, 1, "booked")
	b2 := f.appointment(t, s.ID, 2, "booked")
	arrived := f.appointment(t, s.ID, 3, "arrived")
	fulfilled := f.appointment(t, s.ID, 4, "fulfilled")

	out, err := f.cancel.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", out.Session.Status)
	assert.Equal(t, 4, out.Session.Booked, "counts are frozen on cancel")
	require.Len(t, out.Events, 2)

	want := map[uint]string{
		b1.ID:        "cancelled",
		b2.ID:        "cancelled",
		arrived.ID:   "arrived",
		fulfilled.ID: "fulfilled",
	}
	for id, status := range want {
		ap, err := f.repo.LoadAppointment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, ap.Status, "appointment %d", id)
	}
}

func TestCancel_StartedSessionIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.adHoc(t, now.Add(time.Hour), 2)
	ap := f.appointment(t, s.ID, 1, "booked")

	_, err := f.start.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)

	_, err = f.cancel.Execute(ctx, professionalID, s.ID)
	assert.ErrorIs(t, err, httperr.ErrInvalidTransition)

	got, _ := f.repo.LoadSession(ctx, s.ID)
	assert.Equal(t, "Started", got.Status)
	stored, _ := f.repo.LoadAppointment(ctx, ap.ID)
	assert.Equal(t, "booked", stored.Status)
}

func TestCancel_OtherProfessional(t *testing.T) {
	f := newFixture(t)
	s := f.adHoc(t, now.Add(time.Hour), 2)

	_, err := f.cancel.Execute(context.Background(), 99, s.ID)
	assert.ErrorIs(t, err, httperr.ErrNotFound)
}

func TestStartCompleteReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.adHoc(t, now.Add(time.Hour), 2)

	_, err := f.complete.Execute(ctx, professionalID, s.ID)
	assert.ErrorIs(t, err, httperr.ErrInvalidTransition)

	started, err := f.start.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Started", started.Status)

	completed, err := f.complete.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", completed.Status)

	reopened, err := f.start.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Started", reopened.Status)
}

func TestSearch_OnlyAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	open := f.adHoc(t, now.Add(2*time.Hour), 2)
	full := f.adHoc(t, now.Add(time.Hour), 1)
	full.Booked = 1
	require.NoError(t, f.repo.SaveSession(ctx, full))
	cancelled := f.adHoc(t, now.Add(3*time.Hour), 2)
	_, err := f.cancel.Execute(ctx, professionalID, cancelled.ID)
	require.NoError(t, err)

	all, err := f.search.Execute(ctx, store.SessionFilter{OrganizationID: 1})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, full.ID, all[0].ID)

	available, err := f.search.Execute(ctx, store.SessionFilter{OrganizationID: 1, OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, open.ID, available[0].ID)

	got, err := f.get.Execute(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Available())
}

func TestCancel_CascadesToReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.adHoc(t, now.Add(time.Hour), 2)
	s.Booked = 2
	s.NextToken = 3
	require.NoError(t, f.repo.SaveSession(ctx, s))

	booked := f.appointment(t, s.ID, 1, "booked")
	arrived := f.appointment(t, s.ID, 2, "arrived")
	for _, ap := range []*models.Appointment{booked, arrived} {
		require.NoError(t, f.repo.SaveReminder(ctx, &models.Reminder{AppointmentID: ap.ID, SessionID: s.ID, RemindAt: now.Add(time.Hour), Message: "follow-up", Status: "pending"}))
	}

	_, err := f.cancel.Execute(ctx, professionalID, s.ID)
	require.NoError(t, err)

	got, err := f.repo.ListRemindersForAppointment(ctx, booked.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cancelled", got[0].Status)

	kept, err := f.repo.ListRemindersForAppointment(ctx, arrived.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "pending", kept[0].Status, "appointments the cascade leaves alone keep their reminders")
}
