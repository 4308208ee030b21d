package dto

import "time"

type CreateScheduleRequest struct {
	RecurringRule string `json:"recurring_rule" binding:"required"`
	Timezone      string `json:"timezone" binding:"omitempty,iana_tz"`
	MaxAllowed    int    `json:"max_allowed" binding:"required,gt=0"`
	Activate      bool   `json:"activate"`
}

type UpdateScheduleRequest struct {
	RecurringRule string `json:"recurring_rule" binding:"required"`
	Timezone      string `json:"timezone" binding:"omitempty,iana_tz"`
	MaxAllowed    int    `json:"max_allowed" binding:"required,gt=0"`
}

type CreateSessionRequest struct {
	Start      time.Time `json:"start" binding:"required"`
	MaxAllowed int       `json:"max_allowed" binding:"required,gt=0"`
}

// BookAppointmentRequest leaves the note unchecked here: an empty note is a
// domain validation failure reported with the other missing fields.
type BookAppointmentRequest struct {
	SessionID uint   `json:"session_id" binding:"required"`
	PetID     uint   `json:"pet_id"`
	Note      string `json:"note" binding:"max=500"`
}

type CreateReminderRequest struct {
	AppointmentID uint      `json:"appointment_id" binding:"required"`
	RemindAt      time.Time `json:"remind_at" binding:"required"`
	Message       string    `json:"message" binding:"required,max=500"`
}
