package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/config"
	"github.com/lacquerlab/salon-scheduler/internal/domain/schedule"
	"github.com/lacquerlab/salon-scheduler/internal/handlers"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/notify"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
	"github.com/lacquerlab/salon-scheduler/internal/storage"
	ucBooking "github.com/lacquerlab/salon-scheduler/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	hub *notify.Hub,
	tenants *repository.Tenants,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	uploader := storage.NewS3Uploader(cfg)

	var rewardPolicy schedule.RewardPolicy
	switch cfg.RewardMode {
	case "random":
		rewardPolicy = schedule.RandomPercentPolicy{Percents: cfg.RewardPercents}
	default:
		rewardPolicy = schedule.FixedPercentPolicy{Percent: cfg.RewardPercent}
	}

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		tenants,
		hub,
		auditDispatcher,
		rewardPolicy,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		tenants,
		hub,
		auditDispatcher,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(
		tenants,
		hub,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(tenants, cfg, auditDispatcher)
	availabilityHandler := handlers.NewAvailabilityHandler(tenants, hub, auditDispatcher)
	appointmentHandler := handlers.NewAppointmentHandler(
		tenants,
		hub,
		auditDispatcher,
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
	)
	couponHandler := handlers.NewCouponHandler(tenants, hub, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(tenants, hub, auditDispatcher)
	inventoryHandler := handlers.NewInventoryHandler(tenants, hub, auditDispatcher)
	reportHandler := handlers.NewReportHandler(tenants)
	attachmentHandler := handlers.NewAttachmentHandler(tenants, hub, auditDispatcher, uploader)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	eventsHandler := handlers.NewEventsHandler(hub)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/events", eventsHandler.Stream)
		api.POST("/super-admin/login", authHandler.SuperAdminLogin)

		instance := api.Group("/:instanceId")
		{
			instance.POST("/login", authHandler.Login)

			instance.GET("/availability", availabilityHandler.GetAll)
			instance.GET("/availability/dates", availabilityHandler.ListDates)
			instance.GET("/availability/:date", availabilityHandler.GetDay)

			instance.POST("/appointments", appointmentHandler.Create)
			instance.GET("/coupons/:code/validate", couponHandler.Validate)
		}

		// ------------------------------
		// PRIVATE (instance admins, superadmin passes everywhere)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", authHandler.Me)

			admin := secured.Group("/:instanceId")
			admin.Use(middleware.RequireInstanceAdmin())
			{
				admin.POST("/admins", authHandler.RegisterAdmin)

				admin.POST("/availability", availabilityHandler.Set)

				admin.GET("/appointments", appointmentHandler.List)
				admin.DELETE("/appointments/:id", appointmentHandler.Cancel)
				admin.POST("/appointments/:id/complete", appointmentHandler.Complete)
				admin.PATCH("/appointments/:id", appointmentHandler.Rename)
				admin.POST("/appointments/:id/notes", appointmentHandler.AddNote)
				admin.PUT("/appointments/:id/notes/:index", appointmentHandler.EditNote)
				admin.DELETE("/appointments/:id/notes/:index", appointmentHandler.RemoveNote)
				admin.POST("/appointments/:id/image", attachmentHandler.Upload)

				admin.GET("/coupons", couponHandler.List)
				admin.POST("/coupons", couponHandler.Issue)
				admin.DELETE("/coupons/:id", couponHandler.Delete)
				admin.POST("/coupons/redeem", couponHandler.Redeem)

				admin.GET("/services", serviceHandler.List)
				admin.POST("/services", serviceHandler.Create)
				admin.DELETE("/services/:id", serviceHandler.Delete)

				admin.GET("/inventory", inventoryHandler.List)
				admin.POST("/inventory", inventoryHandler.Create)
				admin.PATCH("/inventory/:id", inventoryHandler.Adjust)
				admin.DELETE("/inventory/:id", inventoryHandler.Delete)

				admin.GET("/reports/summary", reportHandler.Summary)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
