package appointment

import (
	"testing"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
)

func TestCanTransitionMatrix(t *testing.T) {
	all := []Status{
		StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}

	allowed := map[[2]Status]bool{
		{StatusScheduled, StatusConfirmed}:   true,
		{StatusConfirmed, StatusInProgress}:  true,
		{StatusInProgress, StatusCompleted}:  true,
		{StatusScheduled, StatusCancelled}:   true,
		{StatusConfirmed, StatusCancelled}:   true,
		{StatusInProgress, StatusCancelled}:  true,
		{StatusScheduled, StatusNoShow}:      true,
		{StatusConfirmed, StatusNoShow}:      true,
	}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s should be allowed: %v", from, to, err)
				}
				continue
			}
			if err == nil {
				t.Errorf("%s -> %s should be rejected", from, to)
				continue
			}
			if !httperr.IsBusiness(err, httperr.CodeInvalidTransition) {
				t.Errorf("%s -> %s: expected invalid_transition, got %v", from, to, err)
			}
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	terminals := []Status{StatusCompleted, StatusCancelled, StatusNoShow}
	targets := []Status{
		StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}

	for _, from := range terminals {
		if !IsTerminal(from) {
			t.Fatalf("%s must be terminal", from)
		}
		for _, to := range targets {
			if err := CanTransition(from, to); err == nil {
				t.Errorf("terminal %s must not transition to %s", from, to)
			}
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{"scheduled", "confirmed", "in_progress", "completed", "cancelled", "no_show"} {
		if !IsValidStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "done", "Scheduled"} {
		if IsValidStatus(s) {
			t.Errorf("%s should be invalid", s)
		}
	}
}

func TestIsValidReason(t *testing.T) {
	for _, r := range []string{"schedule_conflict", "emergency", "illness", "transportation", "other"} {
		if !IsValidReason(r) {
			t.Errorf("%s should be valid", r)
		}
	}
	if IsValidReason("vacation") || IsValidReason("") {
		t.Error("unknown reasons should be invalid")
	}
}
