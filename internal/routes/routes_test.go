package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/petcare-scheduler/internal/audit"
	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	"github.com/BruksfildServices01/petcare-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/petcare-scheduler/internal/usecase/materialize"
	"github.com/BruksfildServices01/petcare-scheduler/internal/validators"
)

const (
	secret       = "test-secret"
	organization = 1
	professional = 3
	customer     = 10
	rule         = "DTSTART=20240101T090000;UNTIL=20240131T235900;FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=1"
)

var now = time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC)

type sessionBody struct {
	ID        uint   `json:"id"`
	Status    string `json:"status"`
	Booked    int    `json:"booked"`
	Available int    `json:"available"`
}

type appointmentBody struct {
	ID     uint   `json:"id"`
	Token  int    `json:"token"`
	Status string `json:"status"`
}

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.Register())

	repo := memory.New()
	log := zap.NewNop()
	d := audit.NewDispatcher(audit.NewZapSink(log), log)
	t.Cleanup(d.Close)
	clock := func() time.Time { return now }

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:       &config.Config{JWTSecret: secret, BookingRatePerMinute: 600},
		Log:          log,
		Store:        repo,
		Audit:        d,
		Materializer: materialize.NewMaterializer(repo, d, nil, log, clock, 20*24*time.Hour, 0),
		Clock:        clock,
	})
	return r
}

func bearer(t *testing.T, profileID uint) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":            profileID,
		"organizationId": organization,
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, r *gin.Engine, method, path string, profileID uint, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if profileID != 0 {
		req.Header.Set("Authorization", bearer(t, profileID))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createActiveSchedule(t *testing.T, r *gin.Engine, maxAllowed int) uint {
	t.Helper()
	w := call(t, r, http.MethodPost, "/api/schedules", professional, map[string]any{
		"recurring_rule": rule,
		"timezone":       "UTC",
		"max_allowed":    maxAllowed,
		"activate":       true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[struct {
		ID      uint   `json:"id"`
		Status  string `json:"status"`
		Display struct {
			Days string `json:"days"`
		} `json:"display"`
	}](t, w)
	assert.Equal(t, "active", created.Status)
	return created.ID
}

func availableSessions(t *testing.T, r *gin.Engine, profileID uint) []sessionBody {
	t.Helper()
	w := call(t, r, http.MethodGet, "/api/sessions?available=true&from=2024-01-01T00:00:00Z&to=2024-01-31T23:59:59Z", profileID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[struct {
		Data []sessionBody `json:"data"`
	}](t, w).Data
}

func TestBookingFlow(t *testing.T) {
	r := newServer(t)
	createActiveSchedule(t, r, 1)

	sessions := availableSessions(t, r, customer)
	require.Len(t, sessions, 6)
	first := sessions[0]
	assert.Equal(t, 1, first.Available)

	w := call(t, r, http.MethodPost, "/api/appointments", customer, map[string]any{
		"session_id": first.ID,
		"pet_id":     5,
		"note":       "annual checkup",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[appointmentBody](t, w)
	assert.Equal(t, 1, ap.Token)
	assert.Equal(t, "booked", ap.Status)

	// The session is full now.
	w = call(t, r, http.MethodPost, "/api/appointments", customer+1, map[string]any{
		"session_id": first.ID,
		"pet_id":     6,
		"note":       "vaccine",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, availableSessions(t, r, customer), 5)

	// Cancelling the session cascades to the appointment.
	w = call(t, r, http.MethodPatch, fmt.Sprintf("/api/sessions/%d/cancel", first.ID), professional, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := decode[struct {
		Session sessionBody `json:"session"`
		Events  []struct {
			AppointmentID uint   `json:"appointment_id"`
			To            string `json:"to"`
		} `json:"events"`
	}](t, w)
	assert.Equal(t, "Cancelled", cancelled.Session.Status)
	assert.Equal(t, 1, cancelled.Session.Booked)
	require.Len(t, cancelled.Events, 1)
	assert.Equal(t, ap.ID, cancelled.Events[0].AppointmentID)
	assert.Equal(t, "cancelled", cancelled.Events[0].To)

	w = call(t, r, http.MethodGet, "/api/appointments/mine", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[struct {
		Data  []appointmentBody `json:"data"`
		Total int               `json:"total"`
	}](t, w)
	require.Equal(t, 1, mine.Total)
	assert.Equal(t, "cancelled", mine.Data[0].Status)
}

func TestScheduleCancelCascades(t *testing.T) {
	r := newServer(t)
	id := createActiveSchedule(t, r, 3)

	w := call(t, r, http.MethodPatch, fmt.Sprintf("/api/schedules/%d/cancel", id), professional, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode[struct {
		CancelledSessions []uint `json:"cancelled_sessions"`
	}](t, w)
	assert.Len(t, out.CancelledSessions, 6)
	assert.Empty(t, availableSessions(t, r, customer))

	// Cancelled schedules are final.
	w = call(t, r, http.MethodPatch, fmt.Sprintf("/api/schedules/%d/activate", id), professional, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRejections(t *testing.T) {
	r := newServer(t)
	id := createActiveSchedule(t, r, 2)
	sessions := availableSessions(t, r, customer)
	require.NotEmpty(t, sessions)

	t.Run("missing token", func(t *testing.T) {
		w := call(t, r, http.MethodGet, "/api/schedules", 0, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		w := call(t, r, http.MethodPost, "/api/schedules", professional, map[string]any{
			"recurring_rule": rule,
			"timezone":       "Mars/Olympus",
			"max_allowed":    2,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed rule", func(t *testing.T) {
		w := call(t, r, http.MethodPost, "/api/schedules", professional, map[string]any{
			"recurring_rule": "FREQ=WEEKLY",
			"max_allowed":    2,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("active schedule is immutable", func(t *testing.T) {
		w := call(t, r, http.MethodPut, fmt.Sprintf("/api/schedules/%d", id), professional, map[string]any{
			"recurring_rule": rule,
			"max_allowed":    4,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("another professional sees nothing", func(t *testing.T) {
		w := call(t, r, http.MethodPatch, fmt.Sprintf("/api/sessions/%d/cancel", sessions[0].ID), professional+1, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing note", func(t *testing.T) {
		w := call(t, r, http.MethodPost, "/api/appointments", customer, map[string]any{
			"session_id": sessions[0].ID,
			"pet_id":     5,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := call(t, r, http.MethodGet, "/api/sessions/abc", customer, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := call(t, r, http.MethodGet, "/api/nothing-here", customer, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "route_not_found")
	})

	t.Run("bad date", func(t *testing.T) {
		w := call(t, r, http.MethodGet, "/api/sessions?from=yesterday", customer, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReminders(t *testing.T) {
	r := newServer(t)
	createActiveSchedule(t, r, 2)
	sessions := availableSessions(t, r, customer)
	require.NotEmpty(t, sessions)

	w := call(t, r, http.MethodPost, "/api/appointments", customer, map[string]any{
		"session_id": sessions[0].ID,
		"pet_id":     5,
		"note":       "annual checkup",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ap := decode[appointmentBody](t, w)

	remindAt := now.Add(6 * time.Hour).Format(time.RFC3339)
	w = call(t, r, http.MethodPost, "/api/reminders", professional, map[string]any{
		"appointment_id": ap.ID,
		"remind_at":      remindAt,
		"message":        "bring the vaccination card",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	type reminderBody struct {
		ID            uint   `json:"id"`
		AppointmentID uint   `json:"appointment_id"`
		Status        string `json:"status"`
	}
	created := decode[reminderBody](t, w)
	assert.Equal(t, ap.ID, created.AppointmentID)
	assert.Equal(t, "pending", created.Status)

	// Only the session's professional can attach reminders.
	w = call(t, r, http.MethodPost, "/api/reminders", customer, map[string]any{
		"appointment_id": ap.ID,
		"remind_at":      remindAt,
		"message":        "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, r, http.MethodPost, "/api/reminders", professional, map[string]any{
		"appointment_id": ap.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/appointments/%d/reminders", ap.ID)
	w = call(t, r, http.MethodGet, path, customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode[struct {
		Data  []reminderBody `json:"data"`
		Total int            `json:"total"`
	}](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, created.ID, list.Data[0].ID)

	w = call(t, r, http.MethodGet, path, customer+5, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Cancelling the appointment drops its pending reminders.
	w = call(t, r, http.MethodPatch, fmt.Sprintf("/api/appointments/%d/cancel", ap.ID), customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodGet, path, professional, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[struct {
		Data  []reminderBody `json:"data"`
		Total int            `json:"total"`
	}](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "cancelled", list.Data[0].Status)

	w = call(t, r, http.MethodPost, "/api/reminders", professional, map[string]any{
		"appointment_id": ap.ID,
		"remind_at":      remindAt,
		"message":        "too late",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
