package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domainap "github.com/MarcosHerrera95/changanet-agenda/internal/domain/appointment"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httpresp"
	"github.com/MarcosHerrera95/changanet-agenda/internal/middleware"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
	ucAppointment "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	transition  *ucAppointment.TransitionAppointment
	cancel      *ucAppointment.CancelAppointment
	reschedule  *ucAppointment.RescheduleAppointment
	listByDate  *ucAppointment.ListAppointmentsByDate
	listByMonth *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	transition *ucAppointment.TransitionAppointment,
	cancel *ucAppointment.CancelAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:          db,
		transition:  transition,
		cancel:      cancel,
		reschedule:  reschedule,
		listByDate:  listByDate,
		listByMonth: listByMonth,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	tz := c.DefaultQuery("timezone", timezone.DefaultTimezone)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "invalid_date", "Falta date (YYYY-MM-DD).")
		return
	}

	date, err := parseDateIn(tz, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), userID, role, tz, date)
	if err != nil {
		httperr.Internal(c, "appointment_list_failed", "Error al listar turnos.")
		return
	}

	httpresp.List(c, items)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	tz := c.DefaultQuery("timezone", timezone.DefaultTimezone)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Faltan year y month válidos.")
		return
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), userID, role, tz, year, month)
	if err != nil {
		httperr.Internal(c, "appointment_list_failed", "Error al listar turnos.")
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	ap, ok := h.loadForParty(c, userID)
	if !ok {
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE (campos mutables, no el estado)
// ======================================================

type UpdateAppointmentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
	Priority    *string `json:"priority"`
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	ap, ok := h.loadForParty(c, userID)
	if !ok {
		return
	}

	if domainap.IsTerminal(domainap.Status(ap.Status)) {
		httperr.Respond(c, httperr.ErrBusinessMsg(
			httperr.CodeInvalidTransition,
			"El turno ya está en un estado terminal.",
		))
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	// las notas son campos separados por parte
	if req.Notes != nil {
		if role == models.RoleProfessional {
			ap.ProfessionalNotes = *req.Notes
		} else {
			ap.ClientNotes = *req.Notes
		}
	}
	if req.Title != nil {
		ap.Title = *req.Title
	}
	if req.Description != nil {
		ap.Description = *req.Description
	}
	if req.Priority != nil && role == models.RoleProfessional {
		ap.Priority = *req.Priority
	}

	if err := h.db.Save(ap).Error; err != nil {
		httperr.Internal(c, "appointment_update_failed", "Error al actualizar el turno.")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATE MACHINE
// ======================================================

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AppointmentHandler) Status(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), professionalID, id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
	Detail string `json:"detail"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrBusinessMsg(
			httperr.CodeValidation,
			"La cancelación necesita un motivo.",
		))
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		AppointmentID: id,
		ActorID:       userID,
		ActorRole:     role,
		Reason:        req.Reason,
		Detail:        req.Detail,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

type RescheduleRequest struct {
	SlotID uint `json:"slot_id" binding:"required"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleAppointmentInput{
		AppointmentID: id,
		ActorID:       userID,
		NewSlotID:     req.SlotID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func (h *AppointmentHandler) loadForParty(c *gin.Context, userID uint) (*models.Appointment, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var ap models.Appointment
	if err := h.db.
		Preload("Slot").
		Preload("Client").
		Preload("Professional").
		First(&ap, id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Turno no encontrado.")
		return nil, false
	}

	if ap.ProfessionalID != userID && ap.ClientID != userID {
		httperr.NotFound(c, "appointment_not_found", "Turno no encontrado.")
		return nil, false
	}

	return &ap, true
}
