package models

import "time"

type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint `gorm:"index;not null" json:"professional_id"`
	OrganizationID uint `gorm:"index" json:"organization_id"`

	RecurringRule string `gorm:"size:255;not null" json:"recurring_rule"`
	Timezone      string `gorm:"size:64" json:"timezone"`
	MaxAllowed    int    `gorm:"not null" json:"max_allowed"`

	Status string `gorm:"size:20;default:'draft';index" json:"status"`

	Cycle            string     `gorm:"size:20;default:'initial'" json:"cycle"`
	NextGenerationAt *time.Time `json:"next_generation_at"`

	ActivatedAt *time.Time `json:"activated_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
