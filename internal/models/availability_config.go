package models

import (
	"strconv"
	"strings"
	"time"
)

type AvailabilityConfig struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ProfessionalID uint `gorm:"index" json:"professional_id"`
	Professional   User `gorm:"foreignKey:ProfessionalID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:255" json:"description"`
	Active      bool   `gorm:"default:true" json:"active"`

	// none | daily | weekly | monthly | custom
	RecurrenceKind string `gorm:"size:20;not null" json:"recurrence_kind"`
	Interval       int    `gorm:"default:1" json:"interval"`
	// días 0=domingo .. 6=sábado, separados por coma ("1,3,5")
	DaysOfWeek string `gorm:"size:20" json:"days_of_week"`
	DayOfMonth int    `json:"day_of_month"`
	RRule      string `gorm:"size:255" json:"rrule"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	// ventana diaria, hora local "15:04"
	StartTime       string `gorm:"size:5;not null" json:"start_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`

	Timezone string `gorm:"size:64;not null" json:"timezone"`
	// auto | ignore | fixed_offset
	DSTHandling string `gorm:"size:20;default:'auto'" json:"dst_handling"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DaysOfWeekList parsea la columna csv a la lista de weekdays.
func (c *AvailabilityConfig) DaysOfWeekList() []int {
	if c.DaysOfWeek == "" {
		return nil
	}

	parts := strings.Split(c.DaysOfWeek, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if d, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, d)
		}
	}
	return out
}

func (c *AvailabilityConfig) SetDaysOfWeek(days []int) {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	c.DaysOfWeek = strings.Join(parts, ",")
}
