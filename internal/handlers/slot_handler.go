package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MarcosHerrera95/changanet-agenda/internal/cache"
	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httperr"
	"github.com/MarcosHerrera95/changanet-agenda/internal/httpresp"
	"github.com/MarcosHerrera95/changanet-agenda/internal/middleware"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
	ucAvailability "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/availability"
	ucBooking "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	repo   domain.Repository
	cache  *cache.Service
	toggle *ucAvailability.ToggleSlot
	block  *ucAvailability.BlockSlot
	book   *ucBooking.BookSlot
}

func NewSlotHandler(
	repo domain.Repository,
	cacheSvc *cache.Service,
	toggle *ucAvailability.ToggleSlot,
	block *ucAvailability.BlockSlot,
	book *ucBooking.BookSlot,
) *SlotHandler {
	return &SlotHandler{
		repo:   repo,
		cache:  cacheSvc,
		toggle: toggle,
		block:  block,
		book:   book,
	}
}

// ======================================================
// LIST
// ======================================================

// List responde los slots de un profesional para un día. El día
// completo sin filtro de estado sale del cache; cualquier mutación de
// agenda lo invalida.
func (h *SlotHandler) List(c *gin.Context) {
	professionalID, err := strconv.Atoi(c.Query("professional_id"))
	if err != nil || professionalID <= 0 {
		httperr.BadRequest(c, "invalid_professional", "Falta professional_id.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "invalid_date", "Falta date (YYYY-MM-DD).")
		return
	}

	tz := c.DefaultQuery("timezone", timezone.DefaultTimezone)
	day, err := parseDateIn(tz, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	status := c.Query("status")

	ctx := c.Request.Context()
	// solo se cachea el día completo en la zona canónica: un día local
	// de otra zona cruza dos días canónicos y no tiene clave propia
	cacheable := status == "" && h.cache != nil && tz == timezone.DefaultTimezone
	key := cache.DayKey(uint(professionalID), day)

	if cacheable {
		var cached []models.Slot
		if hit, err := h.cache.Get(ctx, key, &cached); err == nil && hit {
			httpresp.List(c, cached)
			return
		}
	}

	var statuses []string
	if status != "" {
		statuses = []string{status}
	}

	slots, err := h.repo.ListSlotsInRange(
		ctx,
		uint(professionalID),
		day,
		day.AddDate(0, 0, 1),
		statuses,
	)
	if err != nil {
		httperr.Internal(c, "slot_list_failed", "Error al listar slots.")
		return
	}

	if cacheable {
		_ = h.cache.Set(ctx, key, slots)
	}

	httpresp.List(c, slots)
}

// ======================================================
// TOGGLE (available ↔ blocked)
// ======================================================

type ToggleSlotRequest struct {
	Status string `json:"status" binding:"required,oneof=available blocked"`
}

func (h *SlotHandler) Toggle(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req ToggleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	slot, err := h.toggle.Execute(c.Request.Context(), professionalID, uint(id), req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, slot)
}

// ======================================================
// BLOCK (bloqueo manual)
// ======================================================

type BlockSlotRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

func (h *SlotHandler) Block(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)

	var req BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

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

	slot, err := h.block.Execute(c.Request.Context(), ucAvailability.BlockSlotInput{
		ProfessionalID: professionalID,
		Start:          start,
		End:            end,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, slot)
}

// ======================================================
// BOOK
// ======================================================

type BookSlotRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Priority    string `json:"priority"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	Timezone    string `json:"timezone"`
}

func (h *SlotHandler) Book(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucBooking.BookSlotInput{
		SlotID:      uint(id),
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		ClientNotes: req.Notes,
		Priority:    req.Priority,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Timezone:    req.Timezone,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}
