package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SessionID uint `gorm:"uniqueIndex:idx_appointment_session_token;not null" json:"session_id"`
	Token     int  `gorm:"uniqueIndex:idx_appointment_session_token;not null" json:"token"`

	PetID      uint `gorm:"index;not null" json:"pet_id"`
	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	Note   string `gorm:"size:500" json:"note"`
	Status string `gorm:"size:20;default:'booked';index" json:"status"`

	ArrivedAt   *time.Time `json:"arrived_at"`
	FulfilledAt *time.Time `json:"fulfilled_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
