package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/MarcosHerrera95/changanet-agenda/internal/audit"
	"github.com/MarcosHerrera95/changanet-agenda/internal/cache"
	"github.com/MarcosHerrera95/changanet-agenda/internal/config"
	"github.com/MarcosHerrera95/changanet-agenda/internal/handlers"
	infraRepo "github.com/MarcosHerrera95/changanet-agenda/internal/infra/repository"
	"github.com/MarcosHerrera95/changanet-agenda/internal/lock"
	"github.com/MarcosHerrera95/changanet-agenda/internal/middleware"
	ucAppointment "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/appointment"
	ucAvailability "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/availability"
	ucBooking "github.com/MarcosHerrera95/changanet-agenda/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	cacheSvc := cache.NewService(rdb, cfg.AvailabilityCacheTTL)
	locker := lock.NewRedisLocker(rdb, cfg.BookingLockTTL)

	// ======================================================
	// USE CASES
	// ======================================================
	generateSlotsUC := ucAvailability.NewGenerateSlots(
		scheduleRepo,
		auditDispatcher,
		cacheSvc,
	)

	checkConflictsUC := ucAvailability.NewCheckConflicts(scheduleRepo)

	toggleSlotUC := ucAvailability.NewToggleSlot(
		scheduleRepo,
		auditDispatcher,
		cacheSvc,
	)

	blockSlotUC := ucAvailability.NewBlockSlot(
		scheduleRepo,
		auditDispatcher,
		cacheSvc,
	)

	bookSlotUC := ucBooking.NewBookSlot(
		scheduleRepo,
		locker,
		auditDispatcher,
		cacheSvc,
	)

	transitionUC := ucAppointment.NewTransitionAppointment(
		scheduleRepo,
		auditDispatcher,
	)

	cancelUC := ucAppointment.NewCancelAppointment(
		scheduleRepo,
		auditDispatcher,
		cacheSvc,
	)

	rescheduleUC := ucAppointment.NewRescheduleAppointment(
		scheduleRepo,
		locker,
		auditDispatcher,
		cacheSvc,
	)

	listByDateUC := ucAppointment.NewListAppointmentsByDate(scheduleRepo)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	configHandler := handlers.NewAvailabilityConfigHandler(db, generateSlotsUC)
	slotHandler := handlers.NewSlotHandler(
		scheduleRepo,
		cacheSvc,
		toggleSlotUC,
		blockSlotUC,
		bookSlotUC,
	)
	conflictHandler := handlers.NewConflictHandler(checkConflictsUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		transitionUC,
		cancelUC,
		rescheduleUC,
		listByDateUC,
		listByMonthUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// DISPONIBILIDAD (solo profesionales)
			// ------------------------------
			pro := secured.Group("/availability")
			pro.Use(middleware.RequireProfessional())
			{
				pro.GET("/configs", configHandler.List)
				pro.POST("/configs", configHandler.Create)
				pro.GET("/configs/:id", configHandler.Get)
				pro.PUT("/configs/:id", configHandler.Update)
				pro.DELETE("/configs/:id", configHandler.Delete)
				pro.POST("/configs/:id/generate", configHandler.Generate)

				pro.PUT("/slots/:id", slotHandler.Toggle)
				pro.POST("/slots/block", slotHandler.Block)
			}

			// ------------------------------
			// SLOTS / CONFLICTOS (ambas partes)
			// ------------------------------
			secured.GET("/availability/slots", slotHandler.List)
			secured.POST("/availability/slots/:id/book", slotHandler.Book)
			secured.POST("/availability/conflicts/check", conflictHandler.Check)

			// ------------------------------
			// TURNOS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/status", appointmentHandler.Status)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.DELETE("/appointments/:id", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			secured.GET("/audit-logs", middleware.RequireProfessional(), auditLogsHandler.List)
		}
	}
}
