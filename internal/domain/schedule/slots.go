package schedule

import (
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

// SlotWindow es un candidato a slot, ya resuelto a instantes UTC.
type SlotWindow struct {
	Start time.Time
	End   time.Time
}

// ParseHM valida y descompone una hora "15:04" en minutos desde
// medianoche.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, httperr.ErrBusinessMsg(httperr.CodeValidation, "Hora inválida, se espera HH:MM.")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// BuildDaySlots recorre la ventana diaria de la configuración para una
// fecha concreta y devuelve los candidatos en UTC. El recorrido es por
// hora de pared (minutos desde medianoche), así un slot de 09:00 sigue
// siendo 09:00 local aunque ese día cambie el offset. Un resto menor a
// la duración al final de la ventana se descarta.
func BuildDaySlots(cfg *models.AvailabilityConfig, date time.Time) ([]SlotWindow, error) {
	startMin, err := ParseHM(cfg.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseHM(cfg.EndTime)
	if err != nil {
		return nil, err
	}

	if cfg.DurationMinutes <= 0 || endMin <= startMin {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Ventana diaria inválida.")
	}

	loc := timezone.Location(cfg.Timezone)

	var out []SlotWindow
	for cur := startMin; cur+cfg.DurationMinutes <= endMin; cur += cfg.DurationMinutes {
		start := timezone.ResolveLocal(date, cur, loc, cfg.DSTHandling, cfg.StartDate)
		end := timezone.ResolveLocal(date, cur+cfg.DurationMinutes, loc, cfg.DSTHandling, cfg.StartDate)

		out = append(out, SlotWindow{
			Start: start.UTC(),
			End:   end.UTC(),
		})
	}

	return out, nil
}

// RecurrenceFromConfig arma la regla pura a partir del modelo. Asume
// que la configuración ya pasó por ValidateConfig.
func RecurrenceFromConfig(cfg *models.AvailabilityConfig) Recurrence {
	loc := timezone.Location(cfg.Timezone)

	var end *time.Time
	if cfg.EndDate != nil {
		e := midnight(*cfg.EndDate, loc)
		end = &e
	}

	return Recurrence{
		Kind:       RecurrenceKind(cfg.RecurrenceKind),
		Interval:   cfg.Interval,
		DaysOfWeek: cfg.DaysOfWeekList(),
		DayOfMonth: cfg.DayOfMonth,
		RRule:      cfg.RRule,
		StartDate:  midnight(cfg.StartDate, loc),
		EndDate:    end,
	}
}

// ValidateConfig aplica las invariantes de una regla de disponibilidad.
// La divisibilidad de la duración en la ventana NO se exige: el slot
// parcial final se trunca en la generación.
func ValidateConfig(cfg *models.AvailabilityConfig) error {
	if !IsValidKind(cfg.RecurrenceKind) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Tipo de recurrencia desconocido.")
	}

	if !timezone.IsValid(cfg.Timezone) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Zona horaria inválida.")
	}

	if !timezone.IsValidDSTMode(cfg.DSTHandling) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Modo de DST inválido.")
	}

	startMin, err := ParseHM(cfg.StartTime)
	if err != nil {
		return err
	}
	endMin, err := ParseHM(cfg.EndTime)
	if err != nil {
		return err
	}

	if startMin >= endMin {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "La hora de inicio debe ser anterior a la de fin.")
	}

	if cfg.DurationMinutes <= 0 || cfg.DurationMinutes > endMin-startMin {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "La duración del slot no entra en la ventana diaria.")
	}

	if cfg.EndDate != nil && cfg.EndDate.Before(cfg.StartDate) {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "La fecha de fin es anterior a la de inicio.")
	}

	switch RecurrenceKind(cfg.RecurrenceKind) {
	case RecurrenceWeekly:
		days := cfg.DaysOfWeekList()
		if len(days) == 0 {
			return httperr.ErrBusinessMsg(httperr.CodeValidation, "Una regla semanal necesita al menos un día.")
		}
		for _, d := range days {
			if d < 0 || d > 6 {
				return httperr.ErrBusinessMsg(httperr.CodeValidation, "Día de la semana fuera de rango.")
			}
		}
	case RecurrenceMonthly:
		if cfg.DayOfMonth < 1 || cfg.DayOfMonth > 31 {
			return httperr.ErrBusinessMsg(httperr.CodeValidation, "Día del mes fuera de rango.")
		}
	case RecurrenceCustom:
		if cfg.RRule == "" {
			return httperr.ErrBusinessMsg(httperr.CodeValidation, "Una regla custom necesita un RRULE.")
		}
	}

	return nil
}
