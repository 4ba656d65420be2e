package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Availability config
// --------------------------------------------------

func (r *ScheduleGormRepository) GetConfigByID(
	ctx context.Context,
	id uint,
) (*models.AvailabilityConfig, error) {

	var cfg models.AvailabilityConfig
	if err := r.db.WithContext(ctx).First(&cfg, id).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ScheduleGormRepository) ListConfigsByProfessional(
	ctx context.Context,
	professionalID uint,
) ([]models.AvailabilityConfig, error) {

	var cfgs []models.AvailabilityConfig
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("created_at ASC").
		Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *ScheduleGormRepository) CreateConfig(
	ctx context.Context,
	cfg *models.AvailabilityConfig,
) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *ScheduleGormRepository) UpdateConfig(
	ctx context.Context,
	cfg *models.AvailabilityConfig,
) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *ScheduleGormRepository) DeleteConfig(
	ctx context.Context,
	id uint,
) error {
	// los slots generados quedan, solo pierden la referencia
	return r.db.WithContext(ctx).Delete(&models.AvailabilityConfig{}, id).Error
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSlotByID(
	ctx context.Context,
	id uint,
) (*models.Slot, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) ListSlotsInRange(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
	statuses []string,
) ([]models.Slot, error) {

	q := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND start_time < ? AND end_time > ?",
			professionalID, end, start,
		)

	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}

	var slots []models.Slot
	if err := q.Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) ListSlotsForConfig(
	ctx context.Context,
	configID uint,
	start time.Time,
	end time.Time,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where(
			"config_id = ? AND start_time >= ? AND start_time < ?",
			configID, start, end,
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *ScheduleGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.Slot,
) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(slots, 200).Error
}

func (r *ScheduleGormRepository) UpdateSlot(
	ctx context.Context,
	slot *models.Slot,
) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *ScheduleGormRepository) DeleteRegenerableSlots(
	ctx context.Context,
	configID uint,
	start time.Time,
	end time.Time,
	force bool,
) error {

	statuses := []string{models.SlotAvailable}
	if force {
		statuses = append(statuses, models.SlotBlocked)
	}

	return r.db.WithContext(ctx).
		Where(
			"config_id = ? AND start_time >= ? AND start_time < ? AND status IN ?",
			configID, start, end, statuses,
		).
		Delete(&models.Slot{}).Error
}

// releaseSlotTx vuelve un slot booked a available si ningún turno
// activo lo referencia; corre dentro de la transacción del caller.
func releaseSlotTx(tx *gorm.DB, slotID uint) error {
	var slot models.Slot
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&slot, slotID).Error; err != nil {
		return err
	}

	if slot.Status != models.SlotBooked {
		return nil
	}

	var active int64
	if err := tx.
		Model(&models.Appointment{}).
		Where(
			"slot_id = ? AND status IN ?",
			slotID, domain.ConflictingAppointmentStatuses(),
		).
		Count(&active).Error; err != nil {
		return err
	}

	if active > 0 {
		return nil
	}

	slot.Status = models.SlotAvailable
	return tx.Save(&slot).Error
}

// CancelAppointmentAndReleaseSlot guarda el turno ya marcado como
// cancelled y libera su slot en la misma transacción. Como el turno se
// persiste primero, el conteo de turnos activos dentro de
// releaseSlotTx ya no lo ve.
func (r *ScheduleGormRepository) CancelAppointmentAndReleaseSlot(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(ap).Error; err != nil {
			return err
		}
		return releaseSlotTx(tx, ap.SlotID)
	})
}

// --------------------------------------------------
// Booking (transaccional)
// --------------------------------------------------

func (r *ScheduleGormRepository) BookSlotAndCreateAppointment(
	ctx context.Context,
	slotID uint,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.Slot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, slotID).Error; err != nil {
			return err
		}

		// revalidación bajo lock de fila: otro caller pudo ganar
		if slot.Status != models.SlotAvailable {
			return httperr.ErrBusinessMsg(
				httperr.CodeSlotUnavailable,
				"El horario ya no está disponible.",
			)
		}

		slot.Status = models.SlotBooked
		if err := tx.Save(&slot).Error; err != nil {
			return err
		}

		ap.SlotID = slot.ID
		ap.ScheduledStart = slot.StartTime
		ap.ScheduledEnd = slot.EndTime

		return tx.Create(ap).Error
	})
}

func (r *ScheduleGormRepository) MoveAppointmentToSlot(
	ctx context.Context,
	appointmentID uint,
	newSlotID uint,
) (*models.Appointment, error) {

	var moved models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, appointmentID).Error; err != nil {
			return err
		}

		var newSlot models.Slot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&newSlot, newSlotID).Error; err != nil {
			return err
		}

		if newSlot.Status != models.SlotAvailable {
			return httperr.ErrBusinessMsg(
				httperr.CodeSlotUnavailable,
				"El horario nuevo ya no está disponible.",
			)
		}

		oldSlotID := ap.SlotID

		newSlot.Status = models.SlotBooked
		if err := tx.Save(&newSlot).Error; err != nil {
			return err
		}

		ap.SlotID = newSlot.ID
		ap.ScheduledStart = newSlot.StartTime
		ap.ScheduledEnd = newSlot.EndTime
		if err := tx.Save(&ap).Error; err != nil {
			return err
		}

		if oldSlotID != 0 && oldSlotID != newSlot.ID {
			if err := tx.
				Model(&models.Slot{}).
				Where("id = ? AND status = ?", oldSlotID, models.SlotBooked).
				Update("status", models.SlotAvailable).Error; err != nil {
				return err
			}
		}

		moved = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &moved, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) ListAppointmentsInRange(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND scheduled_start < ? AND scheduled_end > ?",
			professionalID, end, start,
		).
		Order("scheduled_start ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForUser(
	ctx context.Context,
	userID uint,
	role string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	column := "client_id"
	if role == models.RoleProfessional {
		column = "professional_id"
	}

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Professional").
		Where(
			column+" = ? AND scheduled_start >= ? AND scheduled_start < ?",
			userID, start, end,
		).
		Order("scheduled_start ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
