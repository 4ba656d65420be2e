package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/MarcosHerrera95/changanet-agenda/internal/audit"
	domainap "github.com/MarcosHerrera95/changanet-agenda/internal/domain/appointment"
	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

// TransitionAppointment aplica los pasos hacia adelante de la máquina
// de estados (confirmed, in_progress, completed, no_show). Solo el
// profesional dueño del turno puede ejecutarlos; la cancelación tiene
// su propio caso de uso.
type TransitionAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewTransitionAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *TransitionAppointment {
	return &TransitionAppointment{repo: repo, audit: audit}
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	professionalID uint,
	appointmentID uint,
	requested string,
) (*models.Appointment, error) {

	if !domainap.IsValidStatus(requested) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "Estado desconocido.")
	}
	if requested == string(domainap.StatusCancelled) {
		return nil, httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"La cancelación necesita un motivo; usá el endpoint de cancelación.",
		)
	}

	ap, err := uc.loadForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(ap.Timezone)
	if err := domainap.Transition(ap, domainap.Status(requested), now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: professionalID,
			UserID:         &professionalID,
			Action:         "appointment_" + requested,
			Entity:         "appointment",
			EntityID:       &ap.ID,
		})
	}

	return ap, nil
}

func (uc *TransitionAppointment) loadForProfessional(
	ctx context.Context,
	appointmentID uint,
	professionalID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Turno no encontrado.")
		}
		return nil, err
	}

	if ap.ProfessionalID != professionalID {
		return nil, httperr.ErrBusinessMsg(httperr.CodeNotFound, "Turno no encontrado.")
	}

	return ap, nil
}
