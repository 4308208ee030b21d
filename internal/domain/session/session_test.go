package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

var now = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func scheduled() *models.Session {
	s, _ := NewAdHoc(3, 1, now, 4)
	s.ID = 11
	return s
}

func TestNewAdHoc(t *testing.T) {
	s, err := NewAdHoc(3, 1, now, 4)
	require.NoError(t, err)
	assert.Equal(t, string(StatusScheduled), s.Status)
	assert.Equal(t, 1, s.NextToken)
	assert.Equal(t, 0, s.Booked)
	assert.Nil(t, s.ScheduleID)

	_, err = NewAdHoc(3, 1, now, 0)
	assert.True(t, httperr.IsBusiness(err, "invalid_max_allowed"))

	_, err = NewAdHoc(3, 1, time.Time{}, 2)
	assert.True(t, httperr.IsBusiness(err, "missing_start"))
}

func TestNext_TransitionTable(t *testing.T) {
	all := []Status{StatusScheduled, StatusStarted, StatusCompleted, StatusCancelled}
	actions := []Action{ActionStart, ActionComplete, ActionCancel}

	legal := map[Status]map[Action]Status{
		StatusScheduled: {ActionStart: StatusStarted, ActionCancel: StatusCancelled},
		StatusStarted:   {ActionComplete: StatusCompleted},
		StatusCompleted: {ActionStart: StatusStarted},
	}

	for _, from := range all {
		for _, action := range actions {
			got, err := Next(from, action)
			if want, ok := legal[from][action]; ok {
				require.NoError(t, err)
				assert.Equal(t, want, got)
				continue
			}
			assert.ErrorIs(t, err, httperr.ErrInvalidTransition, "%s/%s", from, action)
		}
	}
}

func TestLifecycle(t *testing.T) {
	s := scheduled()

	require.NoError(t, Start(s, now))
	assert.Equal(t, string(StatusStarted), s.Status)
	assert.ErrorIs(t, Cancel(s, now), httperr.ErrInvalidTransition)

	done := now.Add(time.Hour)
	require.NoError(t, Complete(s, done))
	assert.Equal(t, done, *s.CompletedAt)

	// reopen
	require.NoError(t, Start(s, done.Add(time.Minute)))
	assert.Equal(t, string(StatusStarted), s.Status)
	assert.Nil(t, s.CompletedAt)
}

func TestCancel_IsTerminal(t *testing.T) {
	s := scheduled()
	require.NoError(t, Cancel(s, now))
	assert.NotNil(t, s.CancelledAt)

	assert.ErrorIs(t, Start(s, now), httperr.ErrInvalidTransition)
	assert.ErrorIs(t, Complete(s, now), httperr.ErrInvalidTransition)
	assert.ErrorIs(t, Cancel(s, now), httperr.ErrInvalidTransition)
}

func TestRelease(t *testing.T) {
	s := scheduled()
	s.Booked = 2

	Release(s)
	assert.Equal(t, 1, s.Booked)

	s.Booked = 0
	Release(s)
	assert.Equal(t, 0, s.Booked)

	s.Booked = 3
	s.Status = string(StatusCancelled)
	Release(s)
	assert.Equal(t, 3, s.Booked)
}

func TestParseStatus_IsCaseSensitive(t *testing.T) {
	_, err := ParseStatus("scheduled")
	assert.ErrorIs(t, err, httperr.ErrValidation)

	got, err := ParseStatus("Completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got)
}
