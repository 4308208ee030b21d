package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKinds_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking: %w", CapacityExceeded(3))

	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, KindCapacityExceeded, KindOf(err))
	assert.True(t, IsBusiness(err, "session_full"))
}

func TestTransitionError(t *testing.T) {
	err := InvalidTransition("session", "start", "Cancelled")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
	assert.Contains(t, err.Error(), "cannot start session in status [Cancelled]")
}

func TestIs_MatchesCodeWhenGiven(t *testing.T) {
	err := NotFound("session", 4)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, BusinessError{Kind: KindNotFound, Code: "session_not_found"})
	assert.NotErrorIs(t, err, BusinessError{Kind: KindNotFound, Code: "schedule_not_found"})
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestFromError_StatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad", "bad input"), http.StatusBadRequest},
		{NotFound("appointment", 1), http.StatusNotFound},
		{InvalidTransition("schedule", "activate", "cancelled"), http.StatusConflict},
		{CapacityExceeded(1), http.StatusConflict},
		{SessionNotBookable(1, "Started"), http.StatusConflict},
		{ConcurrentModification("session", nil), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		FromError(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}

func TestFromError_HidesInternalText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errors.New("password=hunter2"))
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.Contains(t, w.Body.String(), "internal_error")
}
