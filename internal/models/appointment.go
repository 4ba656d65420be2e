package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SlotID uint `gorm:"index" json:"slot_id"`
	Slot   Slot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"slot"`

	ProfessionalID uint `gorm:"index:idx_appointments_prof_start" json:"professional_id"`
	Professional   User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ClientID uint `gorm:"index" json:"client_id"`
	Client   User `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Title       string `gorm:"size:100" json:"title"`
	Description string `gorm:"size:255" json:"description"`

	ProfessionalNotes string `gorm:"size:255" json:"professional_notes"`
	ClientNotes       string `gorm:"size:255" json:"client_notes"`

	Status   string `gorm:"size:20;default:'scheduled'" json:"status"`
	Priority string `gorm:"size:20;default:'normal'" json:"priority"`

	PriceCents int64  `json:"price_cents"`
	Currency   string `gorm:"size:3;default:'ARS'" json:"currency"`

	Timezone string `gorm:"size:64" json:"timezone"`

	ScheduledStart time.Time `gorm:"index:idx_appointments_prof_start" json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`

	CancelledAt        *time.Time `json:"cancelled_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CancellationReason string     `gorm:"size:30" json:"cancellation_reason"`
	CancellationDetail string     `gorm:"size:255" json:"cancellation_detail"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
