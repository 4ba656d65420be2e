package availability

import (
	"context"
	"time"

	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

// ======================================================
// INPUT
// ======================================================

const (
	CandidateSlot               = "slot"
	CandidateAppointment        = "appointment"
	CandidateAvailabilityConfig = "availability_config"
)

type CheckConflictsInput struct {
	ProfessionalID uint
	EntityType     string

	// candidato puntual (slot / appointment)
	Start time.Time
	End   time.Time

	// candidato availability_config: se expande la recurrencia
	// completa sobre la ventana propuesta
	Config      *models.AvailabilityConfig
	WindowStart time.Time
	WindowEnd   time.Time

	// para excluir la propia entidad al revalidar
	ExcludeSlotID        uint
	ExcludeAppointmentID uint
}

// ======================================================
// USE CASE
// ======================================================

type CheckConflicts struct {
	repo domain.Repository
}

func NewCheckConflicts(repo domain.Repository) *CheckConflicts {
	return &CheckConflicts{repo: repo}
}

func (uc *CheckConflicts) Execute(
	ctx context.Context,
	in CheckConflictsInput,
) (*domain.ConflictResult, error) {

	candidates, err := uc.buildCandidates(in)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return &domain.ConflictResult{Valid: true, Conflicts: []domain.Conflict{}}, nil
	}

	rangeStart := candidates[0].Start
	rangeEnd := candidates[0].End
	for _, c := range candidates[1:] {
		if c.Start.Before(rangeStart) {
			rangeStart = c.Start
		}
		if c.End.After(rangeEnd) {
			rangeEnd = c.End
		}
	}

	busySlots, err := uc.repo.ListSlotsInRange(
		ctx, in.ProfessionalID, rangeStart, rangeEnd,
		domain.ConflictingSlotStatuses(),
	)
	if err != nil {
		return nil, err
	}

	busyApps, err := uc.repo.ListAppointmentsInRange(ctx, in.ProfessionalID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	busy := append(
		domain.BusyFromSlots(busySlots, in.ExcludeSlotID),
		domain.BusyFromAppointments(busyApps, in.ExcludeAppointmentID)...,
	)

	result := domain.FindConflicts(candidates, busy)
	if result.Conflicts == nil {
		result.Conflicts = []domain.Conflict{}
	}
	return &result, nil
}

func (uc *CheckConflicts) buildCandidates(in CheckConflictsInput) ([]domain.SlotWindow, error) {
	switch in.EntityType {
	case CandidateSlot, CandidateAppointment:
		if !in.Start.Before(in.End) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Rango horario inválido.")
		}
		return []domain.SlotWindow{{Start: in.Start.UTC(), End: in.End.UTC()}}, nil

	case CandidateAvailabilityConfig:
		if in.Config == nil {
			return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Falta la configuración a verificar.")
		}
		if err := domain.ValidateConfig(in.Config); err != nil {
			return nil, err
		}

		rec := domain.RecurrenceFromConfig(in.Config)
		dates, err := rec.Expand(in.WindowStart, in.WindowEnd)
		if err != nil {
			return nil, err
		}

		var out []domain.SlotWindow
		for _, date := range dates {
			day, err := domain.BuildDaySlots(in.Config, date)
			if err != nil {
				return nil, err
			}
			out = append(out, day...)
		}
		return out, nil
	}

	return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Tipo de entidad desconocido.")
}
