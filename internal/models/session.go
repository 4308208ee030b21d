package models

import "time"

type Session struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ScheduleID *uint `gorm:"uniqueIndex:idx_session_schedule_start" json:"schedule_id"`

	ProfessionalID uint `gorm:"index;not null" json:"professional_id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`

	Start time.Time `gorm:"uniqueIndex:idx_session_schedule_start;index;not null" json:"start"`

	MaxAllowed int `gorm:"not null" json:"max_allowed"`
	Booked     int `gorm:"not null;default:0" json:"booked"`
	NextToken  int `gorm:"not null;default:1" json:"next_token"`

	Status string `gorm:"size:20;default:'Scheduled';index" json:"status"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Available is the number of slots left to book.
func (s *Session) Available() int {
	if s.Booked >= s.MaxAllowed {
		return 0
	}
	return s.MaxAllowed - s.Booked
}
