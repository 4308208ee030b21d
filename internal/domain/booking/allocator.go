package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/session"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// ErrInvalidCounter reports a session whose token counter cannot be trusted.
// Issuing from it could hand out a token twice.
var ErrInvalidCounter = errors.New("invalid session token counter")

type Request struct {
	PetID      uint
	CustomerID uint
	Note       string
}

func (r Request) Validate() error {
	var missing []string
	if r.PetID == 0 {
		missing = append(missing, "pet")
	}
	if r.CustomerID == 0 {
		missing = append(missing, "customer")
	}
	if strings.TrimSpace(r.Note) == "" {
		missing = append(missing, "note")
	}
	if len(missing) > 0 {
		return httperr.Validation("missing_required_fields", "missing required fields - "+strings.Join(missing, " | "))
	}
	return nil
}

// Allocate books one slot of s for req. It checks every precondition before
// touching s, so a failed allocation leaves the session unchanged.
//
// Allocate is not safe for concurrent use on the same session: callers must
// hold the session's lock for the whole load-allocate-save sequence.
func Allocate(s *models.Session, req Request, now time.Time) (*models.Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if session.Status(s.Status) != session.StatusScheduled {
		return nil, httperr.SessionNotBookable(s.ID, s.Status)
	}
	if s.Booked >= s.MaxAllowed {
		return nil, httperr.CapacityExceeded(s.ID)
	}

	// Every held slot was issued a token below NextToken.
	if s.NextToken < 1 || s.NextToken <= s.Booked {
		return nil, fmt.Errorf("%w: session [%d] next token %d with %d booked",
			ErrInvalidCounter, s.ID, s.NextToken, s.Booked)
	}

	token := s.NextToken
	s.NextToken = token + 1
	s.Booked++

	return &models.Appointment{
		SessionID:  s.ID,
		Token:      token,
		PetID:      req.PetID,
		CustomerID: req.CustomerID,
		Note:       strings.TrimSpace(req.Note),
		Status:     string(appointment.InitialStatus()),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
