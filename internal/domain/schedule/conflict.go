package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

// ===============================
// Conflict checking
// ===============================

const (
	EntitySlot        = "slot"
	EntityAppointment = "appointment"
)

// BusyInterval es un intervalo ocupado ya persistido: un slot booked o
// blocked, o un turno activo.
type BusyInterval struct {
	EntityID   uint
	EntityType string
	Status     string
	Start      time.Time
	End        time.Time
}

type Conflict struct {
	EntityID   uint      `json:"entity_id"`
	EntityType string    `json:"entity_type"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Message    string    `json:"message"`
}

type ConflictResult struct {
	Valid     bool       `json:"valid"`
	Conflicts []Conflict `json:"conflicts"`
}

// Overlaps usa semántica de intervalos semiabiertos [start, end): un
// turno que termina 10:00 no choca con uno que empieza 10:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// conflictingSlotStatuses / conflictingAppointmentStatuses definen qué
// cuenta como ocupado: available nunca, cancelled/completed/no_show
// tampoco.
var conflictingSlotStatuses = []string{models.SlotBooked, models.SlotBlocked}

var conflictingAppointmentStatuses = []string{"scheduled", "confirmed", "in_progress"}

func ConflictingSlotStatuses() []string {
	return conflictingSlotStatuses
}

func ConflictingAppointmentStatuses() []string {
	return conflictingAppointmentStatuses
}

// FindConflicts cruza los candidatos contra los intervalos ocupados y
// devuelve los choques ordenados por inicio del intervalo ocupado. El
// caller muestra solo el primero, pero recibe la lista completa.
func FindConflicts(candidates []SlotWindow, busy []BusyInterval) ConflictResult {
	var conflicts []Conflict
	seen := make(map[string]bool)

	for _, b := range busy {
		for _, c := range candidates {
			if !Overlaps(c.Start, c.End, b.Start, b.End) {
				continue
			}

			key := fmt.Sprintf("%s:%d", b.EntityType, b.EntityID)
			if seen[key] {
				continue
			}
			seen[key] = true

			conflicts = append(conflicts, Conflict{
				EntityID:   b.EntityID,
				EntityType: b.EntityType,
				Start:      b.Start,
				End:        b.End,
				Message: fmt.Sprintf(
					"Se superpone con %s #%d (%s – %s).",
					b.EntityType, b.EntityID,
					b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339),
				),
			})
			break
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Start.Before(conflicts[j].Start)
	})

	return ConflictResult{
		Valid:     len(conflicts) == 0,
		Conflicts: conflicts,
	}
}

// BusyFromSlots filtra los slots ocupados, excluyendo opcionalmente el
// propio slot candidato.
func BusyFromSlots(slots []models.Slot, excludeID uint) []BusyInterval {
	var out []BusyInterval
	for _, s := range slots {
		if s.ID == excludeID {
			continue
		}
		if s.Status != models.SlotBooked && s.Status != models.SlotBlocked {
			continue
		}
		out = append(out, BusyInterval{
			EntityID:   s.ID,
			EntityType: EntitySlot,
			Status:     s.Status,
			Start:      s.StartTime,
			End:        s.EndTime,
		})
	}
	return out
}

func BusyFromAppointments(apps []models.Appointment, excludeID uint) []BusyInterval {
	active := make(map[string]bool, len(conflictingAppointmentStatuses))
	for _, s := range conflictingAppointmentStatuses {
		active[s] = true
	}

	var out []BusyInterval
	for _, ap := range apps {
		if ap.ID == excludeID {
			continue
		}
		if !active[ap.Status] {
			continue
		}
		out = append(out, BusyInterval{
			EntityID:   ap.ID,
			EntityType: EntityAppointment,
			Status:     ap.Status,
			Start:      ap.ScheduledStart,
			End:        ap.ScheduledEnd,
		})
	}
	return out
}
