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
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GenerateSlotsInput struct {
	ConfigID       uint
	ProfessionalID uint

	// fechas de calendario, inclusive
	StartDate time.Time
	EndDate   time.Time

	ForceRegenerate bool
}

type GenerateSlotsResult struct {
	Created int           `json:"created"`
	Kept    int           `json:"kept"`
	Skipped int           `json:"skipped"`
	Slots   []models.Slot `json:"slots"`
}

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *cache.Service
}

func NewGenerateSlots(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache *cache.Service,
) *GenerateSlots {
	return &GenerateSlots{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

// Execute materializa los slots de una regla en la ventana pedida. La
// generación va en tandas de un mes para acotar cada operación; los
// slots booked se preservan siempre, con o sin force.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) (*GenerateSlotsResult, error) {

	cfg, err := uc.repo.GetConfigByID(ctx, in.ConfigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Regla de disponibilidad no encontrada.")
		}
		return nil, err
	}

	if cfg.ProfessionalID != in.ProfessionalID {
		return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Regla de disponibilidad no encontrada.")
	}

	if !cfg.Active {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "La regla está desactivada.")
	}

	if err := domain.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	loc := timezone.Location(cfg.Timezone)
	from := dayIn(in.StartDate, loc)
	to := dayIn(in.EndDate, loc)

	if to.Before(from) {
		return &GenerateSlotsResult{Slots: []models.Slot{}}, nil
	}

	rec := domain.RecurrenceFromConfig(cfg)
	result := &GenerateSlotsResult{Slots: []models.Slot{}}

	// una tanda por mes calendario
	for chunkFrom := from; !chunkFrom.After(to); {
		chunkTo := endOfMonth(chunkFrom)
		if chunkTo.After(to) {
			chunkTo = to
		}

		if err := uc.generateChunk(ctx, cfg, rec, chunkFrom, chunkTo, in.ForceRegenerate, result); err != nil {
			return nil, err
		}

		chunkFrom = chunkTo.AddDate(0, 0, 1)
	}

	if uc.cache != nil {
		uc.cache.InvalidateRange(ctx, cfg.ProfessionalID, from, to)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: cfg.ProfessionalID,
			UserID:         &in.ProfessionalID,
			Action:         "slots_generated",
			Entity:         "availability_config",
			EntityID:       &cfg.ID,
			Metadata: map[string]any{
				"from":    from.Format("2006-01-02"),
				"to":      to.Format("2006-01-02"),
				"force":   in.ForceRegenerate,
				"created": result.Created,
			},
		})
	}

	return result, nil
}

func (uc *GenerateSlots) generateChunk(
	ctx context.Context,
	cfg *models.AvailabilityConfig,
	rec domain.Recurrence,
	chunkFrom time.Time,
	chunkTo time.Time,
	force bool,
	result *GenerateSlotsResult,
) error {

	dates, err := rec.Expand(chunkFrom, chunkTo)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		return nil
	}

	rangeStart := chunkFrom.UTC()
	rangeEnd := chunkTo.AddDate(0, 0, 1).UTC()

	if force {
		if err := uc.repo.DeleteRegenerableSlots(ctx, cfg.ID, rangeStart, rangeEnd, true); err != nil {
			return err
		}
	}

	existing, err := uc.repo.ListSlotsForConfig(ctx, cfg.ID, rangeStart, rangeEnd)
	if err != nil {
		return err
	}

	existingByStart := make(map[int64]models.Slot, len(existing))
	for _, s := range existing {
		existingByStart[s.StartTime.Unix()] = s
	}

	// lo ocupado por otros slots o turnos del profesional no se pisa
	busySlots, err := uc.repo.ListSlotsInRange(
		ctx, cfg.ProfessionalID, rangeStart, rangeEnd,
		domain.ConflictingSlotStatuses(),
	)
	if err != nil {
		return err
	}
	busyApps, err := uc.repo.ListAppointmentsInRange(ctx, cfg.ProfessionalID, rangeStart, rangeEnd)
	if err != nil {
		return err
	}

	busy := append(
		domain.BusyFromSlots(busySlots, 0),
		domain.BusyFromAppointments(busyApps, 0)...,
	)

	var toCreate []models.Slot

	for _, date := range dates {
		candidates, err := domain.BuildDaySlots(cfg, date)
		if err != nil {
			return err
		}

		for _, cand := range candidates {
			if s, ok := existingByStart[cand.Start.Unix()]; ok {
				// regeneración idempotente: el slot ya existe
				result.Kept++
				result.Slots = append(result.Slots, s)
				continue
			}

			if check := domain.FindConflicts([]domain.SlotWindow{cand}, busy); !check.Valid {
				result.Skipped++
				continue
			}

			toCreate = append(toCreate, models.Slot{
				ProfessionalID: cfg.ProfessionalID,
				ConfigID:       &cfg.ID,
				StartTime:      cand.Start,
				EndTime:        cand.End,
				Status:         models.SlotAvailable,
			})
		}
	}

	if err := uc.repo.CreateSlots(ctx, toCreate); err != nil {
		return err
	}

	result.Created += len(toCreate)
	result.Slots = append(result.Slots, toCreate...)
	return nil
}

// --------------------------------------------------
// calendar helpers
// --------------------------------------------------

// dayIn reinterpreta el valor como fecha de calendario en la zona de
// la configuración, sin convertir el instante.
func dayIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfMonth(day time.Time) time.Time {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return first.AddDate(0, 1, -1)
}
