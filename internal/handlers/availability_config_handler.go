package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httpresp"
	"github.com/MarcosHerrera95/changanet-agenda/internal/middleware"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
	ucAvailability "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityConfigHandler struct {
	db       *gorm.DB
	generate *ucAvailability.GenerateSlots
}

func NewAvailabilityConfigHandler(
	db *gorm.DB,
	generate *ucAvailability.GenerateSlots,
) *AvailabilityConfigHandler {
	return &AvailabilityConfigHandler{
		db:       db,
		generate: generate,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ConfigRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`

	RecurrenceKind string `json:"recurrence_kind" binding:"required"`
	Interval       int    `json:"interval"`
	DaysOfWeek     []int  `json:"days_of_week"`
	DayOfMonth     int    `json:"day_of_month"`
	RRule          string `json:"rrule"`

	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"`

	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`

	Timezone    string `json:"timezone"`
	DSTHandling string `json:"dst_handling"`
}

func (req *ConfigRequest) apply(cfg *models.AvailabilityConfig) error {
	tz := req.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}

	startDate, err := parseDateIn(tz, req.StartDate)
	if err != nil {
		return httperr.ErrBusinessMsg(httperr.CodeValidation, "Fecha de inicio inválida.")
	}

	cfg.Title = req.Title
	cfg.Description = req.Description
	if req.Active != nil {
		cfg.Active = *req.Active
	} else {
		cfg.Active = true
	}

	cfg.RecurrenceKind = req.RecurrenceKind
	cfg.Interval = req.Interval
	cfg.SetDaysOfWeek(req.DaysOfWeek)
	cfg.DayOfMonth = req.DayOfMonth
	cfg.RRule = req.RRule

	cfg.StartDate = startDate
	cfg.EndDate = nil
	if req.EndDate != "" {
		endDate, err := parseDateIn(tz, req.EndDate)
		if err != nil {
			return httperr.ErrBusinessMsg(httperr.CodeValidation, "Fecha de fin inválida.")
		}
		cfg.EndDate = &endDate
	}

	cfg.StartTime = req.StartTime
	cfg.EndTime = req.EndTime
	cfg.DurationMinutes = req.DurationMinutes
	cfg.Timezone = tz
	if req.DSTHandling != "" {
		cfg.DSTHandling = req.DSTHandling
	} else if cfg.DSTHandling == "" {
		cfg.DSTHandling = timezone.DSTAuto
	}

	return domain.ValidateConfig(cfg)
}

// ======================================================
// CRUD
// ======================================================

func (h *AvailabilityConfigHandler) List(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	var cfgs []models.AvailabilityConfig
	if err := h.db.
		Where("professional_id = ?", professionalID).
		Order("created_at ASC").
		Find(&cfgs).Error; err != nil {
		httperr.Internal(c, "config_list_failed", "Error al listar reglas.")
		return
	}

	httpresp.List(c, cfgs)
}

func (h *AvailabilityConfigHandler) Create(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	cfg := models.AvailabilityConfig{ProfessionalID: professionalID}
	if err := req.apply(&cfg); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.Create(&cfg).Error; err != nil {
		httperr.Internal(c, "config_create_failed", "Error al crear la regla.")
		return
	}

	httpresp.Created(c, cfg)
}

func (h *AvailabilityConfigHandler) Get(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	cfg, ok := h.loadOwned(c, professionalID)
	if !ok {
		return
	}

	httpresp.OK(c, cfg)
}

func (h *AvailabilityConfigHandler) Update(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	cfg, ok := h.loadOwned(c, professionalID)
	if !ok {
		return
	}

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if err := req.apply(cfg); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.Save(cfg).Error; err != nil {
		httperr.Internal(c, "config_update_failed", "Error al actualizar la regla.")
		return
	}

	httpresp.OK(c, cfg)
}

func (h *AvailabilityConfigHandler) Delete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	cfg, ok := h.loadOwned(c, professionalID)
	if !ok {
		return
	}

	// los slots ya generados quedan, solo pierden la referencia
	if err := h.db.Delete(cfg).Error; err != nil {
		httperr.Internal(c, "config_delete_failed", "Error al borrar la regla.")
		return
	}

	c.Status(204)
}

// ======================================================
// GENERATE
// ======================================================

type GenerateRequest struct {
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	ForceRegenerate bool   `json:"force_regenerate"`
}

func (h *AvailabilityConfigHandler) Generate(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	start, err := parseDateIn("", req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha de inicio inválida.")
		return
	}
	end, err := parseDateIn("", req.EndDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha de fin inválida.")
		return
	}

	result, err := h.generate.Execute(c.Request.Context(), ucAvailability.GenerateSlotsInput{
		ConfigID:        uint(id),
		ProfessionalID:  professionalID,
		StartDate:       start,
		EndDate:         end,
		ForceRegenerate: req.ForceRegenerate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, result)
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func (h *AvailabilityConfigHandler) loadOwned(c *gin.Context, professionalID uint) (*models.AvailabilityConfig, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var cfg models.AvailabilityConfig
	if err := h.db.
		Where("id = ? AND professional_id = ?", id, professionalID).
		First(&cfg).Error; err != nil {
		httperr.NotFound(c, "config_not_found", "Regla no encontrada.")
		return nil, false
	}

	return &cfg, true
}
