package schedule

import (
	"testing"
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

func baseConfig() *models.AvailabilityConfig {
	cfg := &models.AvailabilityConfig{
		ProfessionalID:  1,
		Title:           "Mañanas",
		Active:          true,
		RecurrenceKind:  string(RecurrenceWeekly),
		Interval:        1,
		StartDate:       time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		EndTime:         "11:00",
		DurationMinutes: 60,
		Timezone:        "America/Buenos_Aires",
		DSTHandling:     timezone.DSTAuto,
	}
	cfg.SetDaysOfWeek([]int{1, 3, 5})
	return cfg
}

func TestParseHM(t *testing.T) {
	min, err := ParseHM("09:30")
	if err != nil {
		t.Fatalf("ParseHM: %v", err)
	}
	if min != 9*60+30 {
		t.Fatalf("expected 570 minutes, got %d", min)
	}

	if _, err := ParseHM("25:00"); err == nil {
		t.Fatal("expected error for 25:00")
	}
	if _, err := ParseHM("9am"); err == nil {
		t.Fatal("expected error for 9am")
	}
}

func TestBuildDaySlotsBuenosAires(t *testing.T) {
	cfg := baseConfig()
	day := date(time.UTC, 2025, time.March, 3) // lunes

	slots, err := BuildDaySlots(cfg, day)
	if err != nil {
		t.Fatalf("BuildDaySlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots of 60m in 09:00-11:00, got %d", len(slots))
	}

	// Buenos Aires es UTC-3 todo el año
	want0 := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	if !slots[0].Start.Equal(want0) {
		t.Fatalf("expected first slot at %v UTC, got %v", want0, slots[0].Start)
	}
	if !slots[0].End.Equal(slots[1].Start) {
		t.Fatalf("slots should be contiguous: %v vs %v", slots[0].End, slots[1].Start)
	}
	for _, s := range slots {
		if s.Start.Location() != time.UTC || s.End.Location() != time.UTC {
			t.Fatal("slot windows must be UTC")
		}
	}
}

func TestBuildDaySlotsTruncatesPartialSlot(t *testing.T) {
	cfg := baseConfig()
	cfg.EndTime = "10:30" // 90 minutos de ventana, duración 60

	slots, err := BuildDaySlots(cfg, date(time.UTC, 2025, time.March, 3))
	if err != nil {
		t.Fatalf("BuildDaySlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("partial final slot must be dropped, got %d slots", len(slots))
	}
}

func TestBuildDaySlotsDSTModes(t *testing.T) {
	// Madrid: +1 en invierno, +2 en verano. La regla arranca en invierno
	// y generamos un día de verano.
	mk := func(mode string) *models.AvailabilityConfig {
		cfg := baseConfig()
		cfg.Timezone = "Europe/Madrid"
		cfg.DSTHandling = mode
		cfg.StartDate = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
		return cfg
	}
	summer := date(time.UTC, 2025, time.July, 15)

	cases := []struct {
		mode    string
		wantUTC int // hora UTC del primer slot (09:00 local)
	}{
		{timezone.DSTAuto, 7},        // 09:00 CEST = 07:00 UTC
		{timezone.DSTFixedOffset, 8}, // offset congelado de enero (+1)
		{timezone.DSTIgnore, 8},      // offset estándar, sin verano
	}

	for _, tc := range cases {
		slots, err := BuildDaySlots(mk(tc.mode), summer)
		if err != nil {
			t.Fatalf("%s: BuildDaySlots: %v", tc.mode, err)
		}
		if len(slots) != 2 {
			t.Fatalf("%s: expected 2 slots, got %d", tc.mode, len(slots))
		}
		if got := slots[0].Start.UTC().Hour(); got != tc.wantUTC {
			t.Fatalf("%s: expected first slot at %02d:00 UTC, got %02d:00", tc.mode, tc.wantUTC, got)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.AvailabilityConfig)
		ok     bool
	}{
		{"valid weekly", func(c *models.AvailabilityConfig) {}, true},
		{"unknown kind", func(c *models.AvailabilityConfig) { c.RecurrenceKind = "biweekly" }, false},
		{"bad timezone", func(c *models.AvailabilityConfig) { c.Timezone = "Marte/Olympus" }, false},
		{"bad dst mode", func(c *models.AvailabilityConfig) { c.DSTHandling = "maybe" }, false},
		{"start after end", func(c *models.AvailabilityConfig) { c.StartTime = "11:00"; c.EndTime = "09:00" }, false},
		{"duration too long", func(c *models.AvailabilityConfig) { c.DurationMinutes = 180 }, false},
		{"zero duration", func(c *models.AvailabilityConfig) { c.DurationMinutes = 0 }, false},
		{"end date before start", func(c *models.AvailabilityConfig) {
			e := c.StartDate.AddDate(0, 0, -1)
			c.EndDate = &e
		}, false},
		{"weekly without days", func(c *models.AvailabilityConfig) { c.DaysOfWeek = "" }, false},
		{"weekly day out of range", func(c *models.AvailabilityConfig) { c.SetDaysOfWeek([]int{7}) }, false},
		{"monthly without day", func(c *models.AvailabilityConfig) {
			c.RecurrenceKind = string(RecurrenceMonthly)
			c.DayOfMonth = 0
		}, false},
		{"monthly valid", func(c *models.AvailabilityConfig) {
			c.RecurrenceKind = string(RecurrenceMonthly)
			c.DayOfMonth = 15
		}, true},
		{"custom without rrule", func(c *models.AvailabilityConfig) {
			c.RecurrenceKind = string(RecurrenceCustom)
			c.RRule = ""
		}, false},
		{"custom valid", func(c *models.AvailabilityConfig) {
			c.RecurrenceKind = string(RecurrenceCustom)
			c.RRule = "FREQ=WEEKLY;BYDAY=MO"
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig()
			tc.mutate(cfg)

			err := ValidateConfig(cfg)
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
