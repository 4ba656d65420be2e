package availability

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/MarcosHerrera95/changanet-agenda/internal/audit"
	"github.com/MarcosHerrera95/changanet-agenda/internal/cache"
	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

// ======================================================
// TOGGLE (available ↔ blocked)
// ======================================================

type ToggleSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *cache.Service
}

func NewToggleSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache *cache.Service,
) *ToggleSlot {
	return &ToggleSlot{repo: repo, audit: audit, cache: cache}
}

func (uc *ToggleSlot) Execute(
	ctx context.Context,
	professionalID uint,
	slotID uint,
	status string,
) (*models.Slot, error) {

	if status != models.SlotAvailable && status != models.SlotBlocked {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Estado de slot inválido.")
	}

	slot, err := uc.repo.GetSlotByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Slot no encontrado.")
		}
		return nil, err
	}

	if slot.ProfessionalID != professionalID {
		return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Slot no encontrado.")
	}

	// un slot reservado solo se libera cancelando el turno
	if slot.Status == models.SlotBooked {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeSlotUnavailable,
			"El slot está reservado; cancelá el turno para liberarlo.",
		)
	}

	if slot.Status != status {
		slot.Status = status
		if err := uc.repo.UpdateSlot(ctx, slot); err != nil {
			return nil, err
		}
	}

	uc.invalidateDay(ctx, slot)

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: professionalID,
			UserID:         &professionalID,
			Action:         "slot_" + status,
			Entity:         "slot",
			EntityID:       &slot.ID,
		})
	}

	return slot, nil
}

func (uc *ToggleSlot) invalidateDay(ctx context.Context, slot *models.Slot) {
	if uc.cache == nil {
		return
	}
	uc.cache.InvalidateDay(ctx, slot.ProfessionalID, slot.StartTime)
}

// ======================================================
// BLOCK (bloqueo manual sin regla de origen)
// ======================================================

type BlockSlotInput struct {
	ProfessionalID uint
	Start          time.Time
	End            time.Time
}

type BlockSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *cache.Service
}

func NewBlockSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache *cache.Service,
) *BlockSlot {
	return &BlockSlot{repo: repo, audit: audit, cache: cache}
}

func (uc *BlockSlot) Execute(
	ctx context.Context,
	in BlockSlotInput,
) (*models.Slot, error) {

	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Rango horario inválido.")
	}

	candidate := domain.SlotWindow{Start: in.Start.UTC(), End: in.End.UTC()}

	busySlots, err := uc.repo.ListSlotsInRange(
		ctx, in.ProfessionalID, candidate.Start, candidate.End,
		domain.ConflictingSlotStatuses(),
	)
	if err != nil {
		return nil, err
	}
	busyApps, err := uc.repo.ListAppointmentsInRange(ctx, in.ProfessionalID, candidate.Start, candidate.End)
	if err != nil {
		return nil, err
	}

	busy := append(
		domain.BusyFromSlots(busySlots, 0),
		domain.BusyFromAppointments(busyApps, 0)...,
	)

	if check := domain.FindConflicts([]domain.SlotWindow{candidate}, busy); !check.Valid {
		return nil, httperr.ErrBusinessDetails(
			httperr.CodeConflictDetected,
			check.Conflicts[0].Message,
			check.Conflicts,
		)
	}

	created := []models.Slot{{
		ProfessionalID: in.ProfessionalID,
		StartTime:      candidate.Start,
		EndTime:        candidate.End,
		Status:         models.SlotBlocked,
	}}

	if err := uc.repo.CreateSlots(ctx, created); err != nil {
		return nil, err
	}
	slot := &created[0]

	if uc.cache != nil {
		uc.cache.InvalidateRange(ctx, in.ProfessionalID, candidate.Start, candidate.End)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: in.ProfessionalID,
			UserID:         &in.ProfessionalID,
			Action:         "slot_blocked_manual",
			Entity:         "slot",
		})
	}

	return slot, nil
}
