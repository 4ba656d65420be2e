package models

import "time"

const (
	SlotAvailable = "available"
	SlotBooked    = "booked"
	SlotBlocked   = "blocked"
)

// Slot es una unidad reservable concreta. Start/End se guardan
// siempre como instantes UTC; la zona horaria es solo presentación.
type Slot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint `gorm:"index:idx_slots_prof_start" json:"professional_id"`

	// nil para bloqueos manuales sin regla de origen
	ConfigID *uint               `gorm:"index" json:"config_id"`
	Config   *AvailabilityConfig `gorm:"foreignKey:ConfigID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StartTime time.Time `gorm:"index:idx_slots_prof_start" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'available'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
