package models

import "time"

// Reminder is a note the professional attaches to an appointment for a later
// date. Delivery happens outside this service.
type Reminder struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID  uint `gorm:"index;not null" json:"appointment_id"`
	SessionID      uint `gorm:"index;not null" json:"session_id"`
	ProfessionalID uint `gorm:"index;not null" json:"professional_id"`
	PetID          uint `gorm:"not null" json:"pet_id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`

	RemindAt time.Time `gorm:"not null;index" json:"remind_at"`
	Message  string    `gorm:"size:500;not null" json:"message"`
	Status   string    `gorm:"size:20;default:'pending';index" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
