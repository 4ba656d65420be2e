package appointment

import (
	"fmt"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// cadena hacia adelante, manejada por el profesional
var forwardNext = map[Status]Status{
	StatusScheduled:  StatusConfirmed,
	StatusConfirmed:  StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// estados desde los que se puede cancelar (con motivo) o marcar no_show
var cancellableFrom = map[Status]bool{
	StatusScheduled:  true,
	StatusConfirmed:  true,
	StatusInProgress: true,
}

var noShowFrom = map[Status]bool{
	StatusScheduled: true,
	StatusConfirmed: true,
}

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func IsTerminal(s Status) bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// InvalidTransitionError nombra el estado actual y el pedido.
type InvalidTransitionError struct {
	Current   Status
	Requested Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.Current, e.Requested)
}

func errTransition(current, requested Status) error {
	return httperr.ErrBusinessDetails(
		httperr.CodeInvalidTransition,
		(&InvalidTransitionError{Current: current, Requested: requested}).Error(),
		map[string]string{
			"current":   string(current),
			"requested": string(requested),
		},
	)
}

// CanTransition valida un paso de la máquina de estados sin aplicarlo.
func CanTransition(current, requested Status) error {
	switch requested {
	case StatusConfirmed, StatusInProgress, StatusCompleted:
		if forwardNext[current] != requested {
			return errTransition(current, requested)
		}
		return nil

	case StatusCancelled:
		if !cancellableFrom[current] {
			return errTransition(current, requested)
		}
		return nil

	case StatusNoShow:
		if !noShowFrom[current] {
			return errTransition(current, requested)
		}
		return nil
	}

	return errTransition(current, requested)
}

// ===============================
// Cancellation reasons
// ===============================

type CancellationReason string

const (
	ReasonScheduleConflict CancellationReason = "schedule_conflict"
	ReasonEmergency        CancellationReason = "emergency"
	ReasonIllness          CancellationReason = "illness"
	ReasonTransportation   CancellationReason = "transportation"
	ReasonOther            CancellationReason = "other"
)

func IsValidReason(r string) bool {
	switch CancellationReason(r) {
	case ReasonScheduleConflict, ReasonEmergency, ReasonIllness,
		ReasonTransportation, ReasonOther:
		return true
	}
	return false
}
