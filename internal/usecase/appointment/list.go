package appointment

import (
	"context"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

// ListSessionAppointments is the professional's roster for one session,
// ordered by token.
type ListSessionAppointments struct {
	repo store.Store
}

func NewListSessionAppointments(repo store.Store) *ListSessionAppointments {
	return &ListSessionAppointments{repo: repo}
}

func (uc *ListSessionAppointments) Execute(ctx context.Context, professionalID, sessionID uint) ([]models.Appointment, error) {
	s, err := uc.repo.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.ProfessionalID != professionalID {
		return nil, httperr.NotFound("session", sessionID)
	}
	return uc.repo.LoadAppointmentsForSession(ctx, sessionID)
}

type ListMyAppointments struct {
	repo store.Store
}

func NewListMyAppointments(repo store.Store) *ListMyAppointments {
	return &ListMyAppointments{repo: repo}
}

func (uc *ListMyAppointments) Execute(ctx context.Context, customerID uint, status string) ([]models.Appointment, error) {
	return uc.repo.ListAppointments(ctx, store.AppointmentFilter{
		CustomerID: customerID,
		Status:     status,
	})
}
