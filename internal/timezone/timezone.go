package timezone

import "time"

const DefaultTimezone = "America/Buenos_Aires"

// Modos de manejo de horario de verano para la generación de slots.
const (
	DSTAuto        = "auto"
	DSTIgnore      = "ignore"
	DSTFixedOffset = "fixed_offset"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

func IsValidDSTMode(mode string) bool {
	switch mode {
	case DSTAuto, DSTIgnore, DSTFixedOffset:
		return true
	}
	return false
}

// ResolveLocal arma un instante a partir de una fecha de calendario y
// minutos desde medianoche, según el modo de DST:
//
//   - auto: hora de pared en la zona; 09:00 local sigue siendo 09:00
//     local aunque cambie el offset UTC.
//   - fixed_offset: congela el offset vigente en `reference` (el inicio
//     de validez de la regla) aunque la hora de pared aparente correrse.
//   - ignore: usa el offset estándar de la zona, sin horario de verano.
func ResolveLocal(date time.Time, minutes int, loc *time.Location, mode string, reference time.Time) time.Time {
	switch mode {
	case DSTFixedOffset:
		loc = frozenZone(loc, reference)
	case DSTIgnore:
		loc = standardZone(loc, date.Year())
	}

	return time.Date(
		date.Year(), date.Month(), date.Day(),
		minutes/60, minutes%60, 0, 0,
		loc,
	)
}

// frozenZone fija el offset que regía en el instante de referencia.
func frozenZone(loc *time.Location, reference time.Time) *time.Location {
	name, offset := reference.In(loc).Zone()
	return time.FixedZone(name, offset)
}

// standardZone devuelve el offset sin DST de la zona. Se muestrea enero
// y julio: el menor de los dos es el offset estándar en cualquier
// hemisferio, porque el horario de verano solo suma tiempo.
func standardZone(loc *time.Location, year int) *time.Location {
	jan := time.Date(year, time.January, 1, 12, 0, 0, 0, loc)
	jul := time.Date(year, time.July, 1, 12, 0, 0, 0, loc)

	_, offJan := jan.Zone()
	_, offJul := jul.Zone()

	off := offJan
	if offJul < offJan {
		off = offJul
	}
	return time.FixedZone(loc.String(), off)
}
