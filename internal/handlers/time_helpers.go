package handlers

import (
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

// fechas de calendario en la zona indicada

func parseDateIn(tz string, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(tz),
	)
}

// instantes ISO-8601 con offset explícito o Z

func parseInstant(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
