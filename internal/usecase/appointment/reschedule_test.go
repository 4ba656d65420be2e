package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

func rescheduleFixture(startsIn time.Duration) (*fakeRepo, *models.Appointment, *models.Slot) {
	ap := activeAppointment(startsIn)

	current := &models.Slot{
		ID:             10,
		ProfessionalID: proID,
		Status:         models.SlotBooked,
		StartTime:      ap.ScheduledStart,
		EndTime:        ap.ScheduledEnd,
	}
	target := &models.Slot{
		ID:             20,
		ProfessionalID: proID,
		Status:         models.SlotAvailable,
		StartTime:      ap.ScheduledStart.Add(24 * time.Hour),
		EndTime:        ap.ScheduledEnd.Add(24 * time.Hour),
	}

	return newFakeRepo(ap, current, target), ap, target
}

func TestRescheduleAppointmentMovesSlot(t *testing.T) {
	repo, _, target := rescheduleFixture(48 * time.Hour)
	uc := NewRescheduleAppointment(repo, fakeLocker{}, nil, nil)

	out, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: 1,
		ActorID:       clientID,
		NewSlotID:     20,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if out.SlotID != 20 {
		t.Fatalf("appointment must point to the new slot, got %d", out.SlotID)
	}
	if !out.ScheduledStart.Equal(target.StartTime) {
		t.Fatalf("appointment times must follow the new slot, got %v", out.ScheduledStart)
	}
	if repo.slots[20].Status != models.SlotBooked {
		t.Fatal("new slot must end up booked")
	}
	if repo.slots[10].Status != models.SlotAvailable {
		t.Fatal("old slot must be released")
	}
}

func TestRescheduleAppointmentWithin24Hours(t *testing.T) {
	repo, _, _ := rescheduleFixture(2 * time.Hour)
	uc := NewRescheduleAppointment(repo, fakeLocker{}, nil, nil)

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: 1,
		ActorID:       clientID,
		NewSlotID:     20,
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("reschedule inside the 24h window must fail, got %v", err)
	}
}

func TestRescheduleAppointmentForeignSlot(t *testing.T) {
	repo, _, _ := rescheduleFixture(48 * time.Hour)
	repo.slots[20].ProfessionalID = 999
	uc := NewRescheduleAppointment(repo, fakeLocker{}, nil, nil)

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: 1,
		ActorID:       clientID,
		NewSlotID:     20,
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("slot of another professional must be rejected, got %v", err)
	}
}

func TestRescheduleAppointmentTargetUnavailable(t *testing.T) {
	repo, _, _ := rescheduleFixture(48 * time.Hour)
	repo.slots[20].Status = models.SlotBlocked
	uc := NewRescheduleAppointment(repo, fakeLocker{}, nil, nil)

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: 1,
		ActorID:       clientID,
		NewSlotID:     20,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotUnavailable) {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}
}

func TestRescheduleAppointmentConflictWithBlockedOverlap(t *testing.T) {
	repo, _, target := rescheduleFixture(48 * time.Hour)

	// un bloqueo manual pisa el horario destino
	repo.slots[30] = &models.Slot{
		ID:             30,
		ProfessionalID: proID,
		Status:         models.SlotBlocked,
		StartTime:      target.StartTime.Add(30 * time.Minute),
		EndTime:        target.EndTime.Add(30 * time.Minute),
	}
	uc := NewRescheduleAppointment(repo, fakeLocker{}, nil, nil)

	_, err := uc.Execute(context.Background(), RescheduleAppointmentInput{
		AppointmentID: 1,
		ActorID:       clientID,
		NewSlotID:     20,
	})
	if !httperr.IsBusiness(err, httperr.CodeConflictDetected) {
		t.Fatalf("expected conflict_detected, got %v", err)
	}
	if repo.slots[20].Status != models.SlotAvailable {
		t.Fatal("target slot must stay available on failure")
	}
}
