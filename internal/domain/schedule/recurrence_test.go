package schedule

import (
	"testing"
	"time"
)

func date(loc *time.Location, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func mustExpand(t *testing.T, rec Recurrence, from, to time.Time) []time.Time {
	t.Helper()
	dates, err := rec.Expand(from, to)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return dates
}

func assertIncreasing(t *testing.T, dates []time.Time) {
	t.Helper()
	for i := 1; i < len(dates); i++ {
		if !dates[i-1].Before(dates[i]) {
			t.Fatalf("dates not strictly increasing: %v then %v", dates[i-1], dates[i])
		}
	}
}

func TestExpandNone(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{Kind: RecurrenceNone, StartDate: date(loc, 2025, time.March, 10)}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 1), date(loc, 2025, time.March, 31))
	if len(dates) != 1 || !dates[0].Equal(rec.StartDate) {
		t.Fatalf("expected exactly the start date, got %v", dates)
	}

	dates = mustExpand(t, rec, date(loc, 2025, time.April, 1), date(loc, 2025, time.April, 30))
	if len(dates) != 0 {
		t.Fatalf("start date outside window should yield nothing, got %v", dates)
	}
}

func TestExpandInvertedWindowIsEmpty(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{Kind: RecurrenceDaily, Interval: 1, StartDate: date(loc, 2025, time.January, 1)}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 31), date(loc, 2025, time.March, 1))
	if len(dates) != 0 {
		t.Fatalf("inverted window should be empty, got %v", dates)
	}
}

func TestExpandDailyInterval(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{
		Kind:      RecurrenceDaily,
		Interval:  3,
		StartDate: date(loc, 2025, time.March, 1),
	}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 5), date(loc, 2025, time.March, 14))
	assertIncreasing(t, dates)

	// la serie es 1, 4, 7, 10, 13...; en [5, 14] caen 7, 10 y 13
	want := []int{7, 10, 13}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %v", len(want), dates)
	}
	for i, d := range dates {
		if d.Day() != want[i] {
			t.Fatalf("expected day %d at position %d, got %v", want[i], i, d)
		}
	}
}

func TestExpandWeeklyCompleteWeeks(t *testing.T) {
	loc := time.UTC
	// 2025-03-02 es domingo; dos semanas completas hasta el sábado 15
	rec := Recurrence{
		Kind:       RecurrenceWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3, 5}, // lun, mié, vie
		StartDate:  date(loc, 2025, time.March, 2),
	}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 2), date(loc, 2025, time.March, 15))
	assertIncreasing(t, dates)

	// N semanas completas × k días = 2 × 3
	if len(dates) != 6 {
		t.Fatalf("expected 6 dates for 2 weeks x 3 days, got %d: %v", len(dates), dates)
	}

	for _, d := range dates {
		switch d.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
		default:
			t.Fatalf("unexpected weekday %v in %v", d.Weekday(), d)
		}
	}
}

func TestExpandWeeklyInterval(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{
		Kind:       RecurrenceWeekly,
		Interval:   2,
		DaysOfWeek: []int{1}, // lunes
		StartDate:  date(loc, 2025, time.March, 2),
	}

	// cuatro semanas: solo las semanas 0 y 2 aportan lunes
	dates := mustExpand(t, rec, date(loc, 2025, time.March, 2), date(loc, 2025, time.March, 29))
	if len(dates) != 2 {
		t.Fatalf("expected 2 mondays with interval 2, got %v", dates)
	}
	if dates[0].Day() != 3 || dates[1].Day() != 17 {
		t.Fatalf("expected March 3 and 17, got %v", dates)
	}
}

func TestExpandMonthlyClampsToLastDay(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{
		Kind:       RecurrenceMonthly,
		Interval:   1,
		DayOfMonth: 31,
		StartDate:  date(loc, 2025, time.January, 1),
	}

	dates := mustExpand(t, rec, date(loc, 2025, time.January, 1), date(loc, 2025, time.April, 30))
	assertIncreasing(t, dates)

	want := []time.Time{
		date(loc, 2025, time.January, 31),
		date(loc, 2025, time.February, 28), // 2025 no es bisiesto
		date(loc, 2025, time.March, 31),
		date(loc, 2025, time.April, 30),
	}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %v", len(want), dates)
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("expected %v at position %d, got %v", want[i], i, dates[i])
		}
	}
}

func TestExpandMonthlyLeapFebruary(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{
		Kind:       RecurrenceMonthly,
		Interval:   1,
		DayOfMonth: 31,
		StartDate:  date(loc, 2024, time.January, 1),
	}

	dates := mustExpand(t, rec, date(loc, 2024, time.February, 1), date(loc, 2024, time.February, 29))
	if len(dates) != 1 || dates[0].Day() != 29 {
		t.Fatalf("expected Feb 29 in a leap year, got %v", dates)
	}
}

func TestExpandCustomRRule(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{
		Kind:      RecurrenceCustom,
		RRule:     "FREQ=WEEKLY;BYDAY=TU,TH",
		StartDate: date(loc, 2025, time.March, 2),
	}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 2), date(loc, 2025, time.March, 15))
	assertIncreasing(t, dates)

	if len(dates) != 4 {
		t.Fatalf("expected 4 dates (2 weeks x tue/thu), got %v", dates)
	}
	for _, d := range dates {
		if wd := d.Weekday(); wd != time.Tuesday && wd != time.Thursday {
			t.Fatalf("unexpected weekday %v", wd)
		}
	}
}

func TestExpandRespectsValidityWindow(t *testing.T) {
	loc := time.UTC
	end := date(loc, 2025, time.March, 10)
	rec := Recurrence{
		Kind:      RecurrenceDaily,
		Interval:  1,
		StartDate: date(loc, 2025, time.March, 5),
		EndDate:   &end,
	}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 1), date(loc, 2025, time.March, 31))
	if len(dates) != 6 {
		t.Fatalf("expected 6 dates clamped to validity [5, 10], got %v", dates)
	}
	if dates[0].Day() != 5 || dates[len(dates)-1].Day() != 10 {
		t.Fatalf("validity window not respected: %v", dates)
	}
}

func TestExpandNoDuplicates(t *testing.T) {
	loc := time.UTC
	rec := Recurrence{
		Kind:       RecurrenceWeekly,
		Interval:   1,
		DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6},
		StartDate:  date(loc, 2025, time.March, 1),
	}

	dates := mustExpand(t, rec, date(loc, 2025, time.March, 1), date(loc, 2025, time.March, 31))
	seen := make(map[string]bool)
	for _, d := range dates {
		key := d.Format("2006-01-02")
		if seen[key] {
			t.Fatalf("duplicate date %s", key)
		}
		seen[key] = true
	}
	if len(dates) != 31 {
		t.Fatalf("expected every day of March, got %d", len(dates))
	}
}
