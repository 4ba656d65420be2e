package schedule

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
)

// ===============================
// Recurrence
// ===============================

type RecurrenceKind string

const (
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
	RecurrenceCustom  RecurrenceKind = "custom"
)

func IsValidKind(kind string) bool {
	switch RecurrenceKind(kind) {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// Recurrence describe la regla ya validada, con las fechas ancladas a
// medianoche en la zona de la configuración.
type Recurrence struct {
	Kind       RecurrenceKind
	Interval   int
	DaysOfWeek []int // 0=domingo .. 6=sábado
	DayOfMonth int
	RRule      string

	StartDate time.Time
	EndDate   *time.Time
}

// Expand produce la secuencia ordenada y sin duplicados de fechas de
// calendario dentro de [windowStart, windowEnd] que cumplen la regla.
// Ventana invertida o fuera de la validez → secuencia vacía, no error.
func (r Recurrence) Expand(windowStart, windowEnd time.Time) ([]time.Time, error) {
	loc := r.StartDate.Location()

	from := midnight(windowStart, loc)
	to := midnight(windowEnd, loc)

	start := midnight(r.StartDate, loc)
	if start.After(from) {
		from = start
	}
	if r.EndDate != nil {
		end := midnight(*r.EndDate, loc)
		if end.Before(to) {
			to = end
		}
	}

	if to.Before(from) {
		return nil, nil
	}

	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	switch r.Kind {
	case RecurrenceNone:
		if !start.Before(from) && !start.After(to) {
			return []time.Time{start}, nil
		}
		return nil, nil

	case RecurrenceDaily:
		return r.expandDaily(start, from, to, interval), nil

	case RecurrenceWeekly:
		return r.expandWeekly(start, from, to, interval), nil

	case RecurrenceMonthly:
		return r.expandMonthly(start, from, to, interval), nil

	case RecurrenceCustom:
		return r.expandCustom(start, from, to, loc)
	}

	return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Tipo de recurrencia desconocido.")
}

func (r Recurrence) expandDaily(start, from, to time.Time, interval int) []time.Time {
	// primer múltiplo de `interval` días desde el inicio que cae en la ventana
	cur := start
	if from.After(start) {
		days := daysBetween(start, from)
		steps := (days + interval - 1) / interval
		cur = start.AddDate(0, 0, steps*interval)
	}

	var out []time.Time
	for !cur.After(to) {
		out = append(out, cur)
		cur = cur.AddDate(0, 0, interval)
	}
	return out
}

func (r Recurrence) expandWeekly(start, from, to time.Time, interval int) []time.Time {
	allowed := make(map[int]bool, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		allowed[d] = true
	}

	// semana 0 = la semana (domingo a sábado) que contiene el inicio
	base := weekStart(start)

	var out []time.Time
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		if !allowed[int(cur.Weekday())] {
			continue
		}
		weeks := daysBetween(base, weekStart(cur)) / 7
		if weeks%interval != 0 {
			continue
		}
		out = append(out, cur)
	}
	return out
}

func (r Recurrence) expandMonthly(start, from, to time.Time, interval int) []time.Time {
	loc := start.Location()

	var out []time.Time
	for m := 0; ; m += interval {
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, m, 0)
		if month.After(to) {
			break
		}

		day := r.DayOfMonth
		if last := lastDayOfMonth(month); day > last {
			// 31 en febrero → último día del mes
			day = last
		}

		date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, loc)
		if date.Before(from) || date.After(to) {
			continue
		}
		out = append(out, date)
	}
	return out
}

func (r Recurrence) expandCustom(start, from, to time.Time, loc *time.Location) ([]time.Time, error) {
	opt, err := rrule.StrToROption(r.RRule)
	if err != nil {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Regla de recurrencia inválida.")
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = start
	}

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Regla de recurrencia inválida.")
	}

	var out []time.Time
	seen := make(map[string]bool)
	for _, occ := range rule.Between(from, to.Add(24*time.Hour-time.Nanosecond), true) {
		date := midnight(occ.In(loc), loc)
		key := date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, date)
	}
	return out, nil
}

// ===============================
// Calendar helpers
// ===============================

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func weekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// daysBetween cuenta días de calendario entre dos medianoches de la
// misma zona, estable frente a cambios de offset.
func daysBetween(a, b time.Time) int {
	days := 0
	for cur := a; cur.Before(b); cur = cur.AddDate(0, 0, 1) {
		days++
	}
	return days
}

func lastDayOfMonth(month time.Time) int {
	return month.AddDate(0, 1, -1).Day()
}
