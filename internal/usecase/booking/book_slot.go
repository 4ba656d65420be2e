package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MarcosHerrera95/changanet-agenda/internal/audit"
	"github.com/MarcosHerrera95/changanet-agenda/internal/cache"
	domainap "github.com/MarcosHerrera95/changanet-agenda/internal/domain/appointment"
	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/lock"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/retry"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookSlotInput struct {
	SlotID   uint
	ClientID uint

	Title       string
	Description string
	ClientNotes string
	Priority    string

	PriceCents int64
	Currency   string
	Timezone   string
}

// ======================================================
// USE CASE
// ======================================================

type BookSlot struct {
	repo   domain.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	cache  *cache.Service
	retry  retry.Policy
}

func NewBookSlot(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	cache *cache.Service,
) *BookSlot {
	return &BookSlot{
		repo:   repo,
		locker: locker,
		audit:  audit,
		cache:  cache,
		retry:  retry.Default,
	}
}

// Execute reserva un slot disponible para un cliente. El chequeo de
// conflictos y la mutación corren bajo el lock del profesional, así
// dos clientes nunca reservan el mismo horario.
func (uc *BookSlot) Execute(
	ctx context.Context,
	in BookSlotInput,
) (*models.Appointment, error) {

	// 1) slot
	slot, err := uc.repo.GetSlotByID(ctx, in.SlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Slot no encontrado.")
		}
		return nil, err
	}

	// 2) disponibilidad
	if slot.Status != models.SlotAvailable {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeSlotUnavailable,
			"El horario ya no está disponible.",
		)
	}

	ap := &models.Appointment{
		SlotID:         slot.ID,
		ProfessionalID: slot.ProfessionalID,
		ClientID:       in.ClientID,
		Title:          in.Title,
		Description:    in.Description,
		ClientNotes:    in.ClientNotes,
		Priority:       defaultStr(in.Priority, "normal"),
		PriceCents:     in.PriceCents,
		Currency:       defaultStr(in.Currency, "ARS"),
		Timezone:       defaultStr(in.Timezone, timezone.DefaultTimezone),
		Status:         string(domainap.InitialStatus()),
		ScheduledStart: slot.StartTime,
		ScheduledEnd:   slot.EndTime,
	}

	// 3 + 4) conflictos y reserva, serializados por profesional
	err = uc.locker.WithProfessionalLock(ctx, slot.ProfessionalID, func(ctx context.Context) error {
		if err := uc.assertNoConflicts(ctx, slot); err != nil {
			return err
		}

		return uc.retry.Do(ctx, httperr.IsAnyBusiness, func(ctx context.Context) error {
			return uc.repo.BookSlotAndCreateAppointment(ctx, slot.ID, ap)
		})
	})

	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, httperr.ErrBusinessMsg(
				httperr.CodeSlotUnavailable,
				"El horario está siendo reservado por otro cliente, probá de nuevo.",
			)
		}
		if httperr.IsAnyBusiness(err) {
			return nil, err
		}
		// reintentos agotados → falla genérica de infraestructura
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeUnavailable,
			"El servicio de reservas no está disponible, probá más tarde.",
		)
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, slot.ProfessionalID, slot.StartTime)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: slot.ProfessionalID,
			UserID:         &in.ClientID,
			Action:         "appointment_booked",
			Entity:         "appointment",
			EntityID:       &ap.ID,
		})
	}

	return ap, nil
}

// assertNoConflicts corre el chequeo de intervalos sobre el rango del
// slot, excluyendo el propio slot candidato.
func (uc *BookSlot) assertNoConflicts(ctx context.Context, slot *models.Slot) error {
	busySlots, err := uc.repo.ListSlotsInRange(
		ctx, slot.ProfessionalID, slot.StartTime, slot.EndTime,
		domain.ConflictingSlotStatuses(),
	)
	if err != nil {
		return err
	}

	busyApps, err := uc.repo.ListAppointmentsInRange(ctx, slot.ProfessionalID, slot.StartTime, slot.EndTime)
	if err != nil {
		return err
	}

	busy := append(
		domain.BusyFromSlots(busySlots, slot.ID),
		domain.BusyFromAppointments(busyApps, 0)...,
	)

	candidate := domain.SlotWindow{Start: slot.StartTime, End: slot.EndTime}
	if check := domain.FindConflicts([]domain.SlotWindow{candidate}, busy); !check.Valid {
		return httperr.ErrBusinessDetails(
			httperr.CodeConflictDetected,
			check.Conflicts[0].Message,
			check.Conflicts,
		)
	}

	return nil
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
