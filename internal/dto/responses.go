package dto

import (
	"time"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/cascade"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/petcare-scheduler/internal/models"
)

type ScheduleDTO struct {
	models.Schedule
	Display recurrence.Display `json:"display"`
}

func NewScheduleDTO(s models.Schedule) ScheduleDTO {
	return ScheduleDTO{
		Schedule: s,
		Display:  recurrence.Describe(s.RecurringRule).Display(),
	}
}

type SessionDTO struct {
	ID             uint      `json:"id"`
	ScheduleID     *uint     `json:"schedule_id"`
	ProfessionalID uint      `json:"professional_id"`
	OrganizationID uint      `json:"organization_id"`
	Start          time.Time `json:"start"`
	Status         string    `json:"status"`
	MaxAllowed     int       `json:"max_allowed"`
	Booked         int       `json:"booked"`
	Available      int       `json:"available"`
	NextToken      int       `json:"next_token"`
}

func NewSessionDTO(s models.Session) SessionDTO {
	return SessionDTO{
		ID:             s.ID,
		ScheduleID:     s.ScheduleID,
		ProfessionalID: s.ProfessionalID,
		OrganizationID: s.OrganizationID,
		Start:          s.Start,
		Status:         s.Status,
		MaxAllowed:     s.MaxAllowed,
		Booked:         s.Booked,
		Available:      s.Available(),
		NextToken:      s.NextToken,
	}
}

func NewSessionDTOs(in []models.Session) []SessionDTO {
	out := make([]SessionDTO, 0, len(in))
	for _, s := range in {
		out = append(out, NewSessionDTO(s))
	}
	return out
}

type CancelSessionResponse struct {
	Session SessionDTO      `json:"session"`
	Events  []cascade.Event `json:"events"`
}

type CancelScheduleResponse struct {
	Schedule          ScheduleDTO     `json:"schedule"`
	CancelledSessions []uint          `json:"cancelled_sessions"`
	Events            []cascade.Event `json:"events"`
}
