package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httpresp"
	"github.com/MarcosHerrera95/changanet-agenda/internal/middleware"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	ucAvailability "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/availability"
)

type ConflictHandler struct {
	check *ucAvailability.CheckConflicts
}

func NewConflictHandler(check *ucAvailability.CheckConflicts) *ConflictHandler {
	return &ConflictHandler{check: check}
}

type CheckConflictsRequest struct {
	EntityType     string `json:"entity_type" binding:"required,oneof=slot appointment availability_config"`
	ProfessionalID uint   `json:"professional_id"`

	Start string `json:"start"`
	End   string `json:"end"`

	Config      *ConfigRequest `json:"config"`
	WindowStart string         `json:"window_start"`
	WindowEnd   string         `json:"window_end"`

	ExcludeSlotID        uint `json:"exclude_slot_id"`
	ExcludeAppointmentID uint `json:"exclude_appointment_id"`
}

func (h *ConflictHandler) Check(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CheckConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	professionalID := req.ProfessionalID
	if professionalID == 0 {
		professionalID = userID
	}

	in := ucAvailability.CheckConflictsInput{
		ProfessionalID:       professionalID,
		EntityType:           req.EntityType,
		ExcludeSlotID:        req.ExcludeSlotID,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	}

	switch req.EntityType {
	case ucAvailability.CandidateSlot, ucAvailability.CandidateAppointment:
		start, err := parseInstant(req.Start)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Inicio inválido, se espera ISO-8601.")
			return
		}
		end, err := parseInstant(req.End)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Fin inválido, se espera ISO-8601.")
			return
		}
		in.Start = start
		in.End = end

	case ucAvailability.CandidateAvailabilityConfig:
		if req.Config == nil || req.WindowStart == "" || req.WindowEnd == "" {
			httperr.BadRequest(c, "invalid_request", "Faltan config y ventana propuesta.")
			return
		}

		cfg := models.AvailabilityConfig{ProfessionalID: professionalID}
		if err := req.Config.apply(&cfg); err != nil {
			httperr.Respond(c, err)
			return
		}

		ws, err := parseDateIn(cfg.Timezone, req.WindowStart)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ventana inválida.")
			return
		}
		we, err := parseDateIn(cfg.Timezone, req.WindowEnd)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Ventana inválida.")
			return
		}

		in.Config = &cfg
		in.WindowStart = ws
		in.WindowEnd = we
	}

	result, err := h.check.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, result)
}
