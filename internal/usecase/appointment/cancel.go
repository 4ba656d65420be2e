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
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

type CancelAppointmentInput struct {
	AppointmentID uint
	ActorID       uint
	ActorRole     string

	Reason string
	Detail string
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *cache.Service
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	cache *cache.Service,
) *CancelAppointment {
	return &CancelAppointment{repo: repo, audit: audit, cache: cache}
}

// Execute cancela un turno. Puede hacerlo cualquiera de las dos partes
// con más de 24h de antelación; el slot vuelve a available si ningún
// otro turno activo lo referencia.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
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
	if err := domainap.Cancel(ap, domainap.CancellationReason(in.Reason), in.Detail, now); err != nil {
		return nil, err
	}

	// la cancelación y la liberación del slot van en una sola
	// transacción: si algo falla, el turno sigue activo y se puede
	// reintentar
	if err := uc.repo.CancelAppointmentAndReleaseSlot(ctx, ap); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.InvalidateDay(ctx, ap.ProfessionalID, ap.ScheduledStart)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			ProfessionalID: ap.ProfessionalID,
			UserID:         &in.ActorID,
			Action:         "appointment_cancelled",
			Entity:         "appointment",
			EntityID:       &ap.ID,
			Metadata:       map[string]string{"reason": in.Reason},
		})
	}

	return ap, nil
}

func isParty(ap *models.Appointment, actorID uint) bool {
	return ap.ProfessionalID == actorID || ap.ClientID == actorID
}
