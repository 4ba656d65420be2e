package appointment

import (
	"testing"
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

var now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func newAppointment(status Status, startsIn time.Duration) *models.Appointment {
	start := now.Add(startsIn)
	return &models.Appointment{
		ID:             1,
		SlotID:         10,
		ProfessionalID: 2,
		ClientID:       3,
		Status:         string(status),
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
	}
}

func TestCanModifyEnforces24HourWindow(t *testing.T) {
	if err := CanModify(newAppointment(StatusScheduled, 48*time.Hour), now); err != nil {
		t.Fatalf("48h ahead should be modifiable: %v", err)
	}

	err := CanModify(newAppointment(StatusScheduled, 2*time.Hour), now)
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("2h ahead should fail the 24h rule, got %v", err)
	}

	// exactamente 24h tampoco alcanza: se exige MÁS de 24h
	err = CanModify(newAppointment(StatusScheduled, 24*time.Hour), now)
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("exactly 24h ahead should fail, got %v", err)
	}
}

func TestCanModifyRejectsTerminal(t *testing.T) {
	err := CanModify(newAppointment(StatusCompleted, 48*time.Hour), now)
	if !httperr.IsBusiness(err, httperr.CodeInvalidTransition) {
		t.Fatalf("terminal appointment must not be modifiable, got %v", err)
	}
}

func TestTransitionSetsCompletedAt(t *testing.T) {
	ap := newAppointment(StatusInProgress, -time.Hour)

	if err := Transition(ap, StatusCompleted, now); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Fatalf("status not applied: %s", ap.Status)
	}
	if ap.CompletedAt == nil || !ap.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt not set: %v", ap.CompletedAt)
	}
}

func TestTransitionRejectsSkippingSteps(t *testing.T) {
	ap := newAppointment(StatusScheduled, 48*time.Hour)

	err := Transition(ap, StatusCompleted, now)
	if !httperr.IsBusiness(err, httperr.CodeInvalidTransition) {
		t.Fatalf("scheduled -> completed must be rejected, got %v", err)
	}
	if ap.Status != string(StatusScheduled) {
		t.Fatal("rejected transition must not mutate the appointment")
	}
}

func TestCancelHappyPath(t *testing.T) {
	ap := newAppointment(StatusConfirmed, 48*time.Hour)

	if err := Cancel(ap, ReasonIllness, "", now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Fatalf("status not applied: %s", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatalf("CancelledAt not set: %v", ap.CancelledAt)
	}
	if ap.CancellationReason != string(ReasonIllness) {
		t.Fatalf("reason not recorded: %s", ap.CancellationReason)
	}
}

func TestCancelValidation(t *testing.T) {
	cases := []struct {
		name   string
		reason CancellationReason
		detail string
	}{
		{"missing reason", "", ""},
		{"unknown reason", "vacation", ""},
		{"other without detail", ReasonOther, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ap := newAppointment(StatusScheduled, 48*time.Hour)
			err := Cancel(ap, tc.reason, tc.detail, now)
			if !httperr.IsBusiness(err, httperr.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ap.Status != string(StatusScheduled) {
				t.Fatal("failed cancel must not mutate the appointment")
			}
		})
	}
}

func TestCancelOtherWithDetail(t *testing.T) {
	ap := newAppointment(StatusScheduled, 48*time.Hour)
	if err := Cancel(ap, ReasonOther, "viaje imprevisto", now); err != nil {
		t.Fatalf("other + detail should pass: %v", err)
	}
	if ap.CancellationDetail != "viaje imprevisto" {
		t.Fatalf("detail not recorded: %s", ap.CancellationDetail)
	}
}

func TestCancelWithin24HoursRejected(t *testing.T) {
	ap := newAppointment(StatusConfirmed, 2*time.Hour)
	err := Cancel(ap, ReasonEmergency, "", now)
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("cancel inside the 24h window must fail, got %v", err)
	}
}
