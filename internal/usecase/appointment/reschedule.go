package appointment

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
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

type RescheduleAppointmentInput struct {
	AppointmentID uint
	ActorID       uint
	NewSlotID     uint
}

type RescheduleAppointment struct {
	repo   domain.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	cache  *cache.Service
}

func NewRescheduleAppointment(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	cache *cache.Service,
) *RescheduleAppointment {
	return &RescheduleAppointment{repo: repo, locker: locker, audit: audit, cache: cache}
}

// Execute mueve un turno a otro slot disponible del mismo profesional.
// Aplica la regla de las 24 horas y corre bajo el lock del profesional
// como cualquier otra mutación de agenda.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Turno no encontrado.")
		}
		return nil, err
	}

	if !isParty(ap, in.ActorID) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Turno no encontrado.")
	}

	now := timezone.NowIn(ap.Timezone)
	if err := domainap.CanModify(ap, now); err != nil {
		return nil, err
	}

	newSlot, err := uc.repo.GetSlotByID(ctx, in.NewSlotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Slot no encontrado.")
		}
		return nil, err
	}

	if newSlot.ProfessionalID != ap.ProfessionalID {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"El slot nuevo pertenece a otro profesional.",
		)
	}
	if newSlot.Status != models.SlotAvailable {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeSlotUnavailable,
			"El horario nuevo no está disponible.",
		)
	}

	var moved *models.Appointment
	err = uc.locker.WithProfessionalLock(ctx, ap.ProfessionalID, func(ctx context.Context) error {
		if err := uc.assertNoConflicts(ctx, ap, newSlot); err != nil {
			return err
		}

		m, err := uc.repo.MoveAppointmentToSlot(ctx, ap.ID, newSlot.ID)
		if err != nil {
			return err
		}
		moved = m
		return nil
	})

	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, httperr.ErrBusinessMsg(
				httperr.CodeSlotUnavailable,
				"La agenda está ocupada, probá de nuevo.",
			)
		}
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, ap.ProfessionalID, ap.ScheduledStart)
		uc.cache.InvalidateDay(ctx, ap.ProfessionalID, moved.ScheduledStart)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: ap.ProfessionalID,
			UserID:         &in.ActorID,
			Action:         "appointment_rescheduled",
			Entity:         "appointment",
			EntityID:       &ap.ID,
		})
	}

	return moved, nil
}

func (uc *RescheduleAppointment) assertNoConflicts(
	ctx context.Context,
	ap *models.Appointment,
	newSlot *models.Slot,
) error {

	busySlots, err := uc.repo.ListSlotsInRange(
		ctx, ap.ProfessionalID, newSlot.StartTime, newSlot.EndTime,
		domain.ConflictingSlotStatuses(),
	)
	if err != nil {
		return err
	}
	busyApps, err := uc.repo.ListAppointmentsInRange(ctx, ap.ProfessionalID, newSlot.StartTime, newSlot.EndTime)
	if err != nil {
		return err
	}

	// se excluyen el slot destino, el slot actual y el propio turno
	busy := domain.BusyFromSlots(busySlots, newSlot.ID)
	filtered := busy[:0]
	for _, b := range busy {
		if b.EntityType == domain.EntitySlot && b.EntityID == ap.SlotID {
			continue
		}
		filtered = append(filtered, b)
	}
	busy = append(filtered, domain.BusyFromAppointments(busyApps, ap.ID)...)

	candidate := domain.SlotWindow{Start: newSlot.StartTime, End: newSlot.EndTime}
	if check := domain.FindConflicts([]domain.SlotWindow{candidate}, busy); !check.Valid {
		return httperr.ErrBusinessDetails(
			httperr.CodeConflictDetected,
			check.Conflicts[0].Message,
			check.Conflicts,
		)
	}

	return nil
}
