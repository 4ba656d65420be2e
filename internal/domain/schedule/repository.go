package schedule

import (
	"context"
	"time"

	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

type Repository interface {
	// -------- Availability config --------
	GetConfigByID(
		ctx context.Context,
		id uint,
	) (*models.AvailabilityConfig, error)

	ListConfigsByProfessional(
		ctx context.Context,
		professionalID uint,
	) ([]models.AvailabilityConfig, error)

	CreateConfig(
		ctx context.Context,
		cfg *models.AvailabilityConfig,
	) error

	UpdateConfig(
		ctx context.Context,
		cfg *models.AvailabilityConfig,
	) error

	DeleteConfig(
		ctx context.Context,
		id uint,
	) error

	// -------- Slots --------
	GetSlotByID(
		ctx context.Context,
		id uint,
	) (*models.Slot, error)

	ListSlotsInRange(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
		statuses []string,
	) ([]models.Slot, error)

	ListSlotsForConfig(
		ctx context.Context,
		configID uint,
		start time.Time,
		end time.Time,
	) ([]models.Slot, error)

	CreateSlots(
		ctx context.Context,
		slots []models.Slot,
	) error

	UpdateSlot(
		ctx context.Context,
		slot *models.Slot,
	) error

	// DeleteRegenerableSlots borra los slots regenerables de una
	// configuración en una ventana: available siempre, blocked solo
	// con force. Los booked nunca se tocan.
	DeleteRegenerableSlots(
		ctx context.Context,
		configID uint,
		start time.Time,
		end time.Time,
		force bool,
	) error

	// CancelAppointmentAndReleaseSlot persiste la cancelación y libera
	// el slot en una sola transacción: o quedan las dos cosas, o
	// ninguna. Un turno cancelado nunca puede dejar su slot colgado en
	// booked.
	CancelAppointmentAndReleaseSlot(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Booking (transaccional) --------
	// BookSlotAndCreateAppointment marca el slot como booked y crea el
	// turno en una sola transacción, revalidando con lock de fila que
	// el slot siga available.
	BookSlotAndCreateAppointment(
		ctx context.Context,
		slotID uint,
		ap *models.Appointment,
	) error

	// MoveAppointmentToSlot reprograma un turno a otro slot en una sola
	// transacción: reserva el slot nuevo bajo lock de fila, actualiza
	// los horarios del turno y libera el slot anterior.
	MoveAppointmentToSlot(
		ctx context.Context,
		appointmentID uint,
		newSlotID uint,
	) (*models.Appointment, error)

	// -------- Appointments --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointmentsInRange(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForUser(
		ctx context.Context,
		userID uint,
		role string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
