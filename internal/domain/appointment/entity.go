package appointment

import (
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ModificationWindow es la antelación mínima para cancelar o
// reprogramar un turno.
const ModificationWindow = 24 * time.Hour

// CanModify aplica la regla de las 24 horas: un turno solo se cancela
// o reprograma mientras falte más de 24h para el inicio y el estado no
// sea terminal.
func CanModify(ap *models.Appointment, now time.Time) error {
	if IsTerminal(Status(ap.Status)) {
		return httperr.ErrBusinessDetails(
			httperr.CodeInvalidTransition,
			"El turno ya está en un estado terminal.",
			map[string]string{"current": ap.Status},
		)
	}

	if !now.Add(ModificationWindow).Before(ap.ScheduledStart) {
		return httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"El turno solo puede modificarse con más de 24 horas de antelación.",
		)
	}

	return nil
}

// Transition aplica un paso hacia adelante de la máquina de estados
// (confirmed, in_progress, completed o no_show).
func Transition(ap *models.Appointment, requested Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), requested); err != nil {
		return err
	}

	ap.Status = string(requested)
	if requested == StatusCompleted {
		ap.CompletedAt = &now
	}
	return nil
}

// Cancel exige un motivo del conjunto fijo; con `other` el detalle
// libre es obligatorio.
func Cancel(ap *models.Appointment, reason CancellationReason, detail string, now time.Time) error {
	if reason == "" {
		return httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"La cancelación necesita un motivo.",
		)
	}
	if !IsValidReason(string(reason)) {
		return httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"Motivo de cancelación desconocido.",
		)
	}
	if reason == ReasonOther && detail == "" {
		return httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"El motivo 'other' necesita un detalle.",
		)
	}

	if err := CanModify(ap, now); err != nil {
		return err
	}
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancellationReason = string(reason)
	ap.CancellationDetail = detail
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
