package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonpuntos/loyalty-scheduler/internal/audit"
	"github.com/salonpuntos/loyalty-scheduler/internal/cache"
	"github.com/salonpuntos/loyalty-scheduler/internal/config"
	"github.com/salonpuntos/loyalty-scheduler/internal/handlers"
	"github.com/salonpuntos/loyalty-scheduler/internal/infra/repository"
	"github.com/salonpuntos/loyalty-scheduler/internal/middleware"
	"github.com/salonpuntos/loyalty-scheduler/internal/models"
	"github.com/salonpuntos/loyalty-scheduler/internal/storage"
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/appointment"
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/points"
	"github.com/salonpuntos/loyalty-scheduler/internal/usecase/redemption"
)

// RegisterRoutes wires repositories, use cases and handlers onto the
// router. Three surfaces: public auth, the owner panel under /api and the
// client portal under /api/portal.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	slots *cache.SlotCache,
	media *storage.MediaStore,
	dispatcher *audit.Dispatcher,
) {

	scheduleRepo := repository.NewScheduleGormRepository(db)
	ledgerRepo := repository.NewLedgerGormRepository(db)

	// Use cases.
	getAvailability := appointment.NewGetAvailability(scheduleRepo, slots)
	createAppointment := appointment.NewCreateAppointment(scheduleRepo, slots, dispatcher)
	setStatus := appointment.NewSetStatus(scheduleRepo, slots, dispatcher)
	listAppointments := appointment.NewListAppointments(scheduleRepo)

	earnPoints := points.NewEarnPoints(ledgerRepo, dispatcher)
	redeemDirect := points.NewRedeemDirect(ledgerRepo, dispatcher)

	requestRedemption := redemption.NewRequestRedemption(ledgerRepo, dispatcher)
	confirmRedemption := redemption.NewConfirmRedemption(ledgerRepo, dispatcher)
	cancelRedemption := redemption.NewCancelRedemption(ledgerRepo, dispatcher)
	findRedemption := redemption.NewFindRedemptionByCode(ledgerRepo)
	listRedemptions := redemption.NewListRedemptions(ledgerRepo)

	// Handlers.
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	establishmentHandler := handlers.NewEstablishmentHandler(db, media)
	clientHandler := handlers.NewClientHandler(db)
	employeeHandler := handlers.NewEmployeeHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	rewardHandler := handlers.NewRewardHandler(db, media)
	pointsHandler := handlers.NewPointsHandler(earnPoints, redeemDirect)
	redemptionHandler := handlers.NewRedemptionHandler(
		db, requestRedemption, confirmRedemption, cancelRedemption,
		findRedemption, listRedemptions)
	appointmentHandler := handlers.NewAppointmentHandler(
		db, getAvailability, createAppointment, setStatus, listAppointments)
	transactionHandler := handlers.NewTransactionHandler(db, ledgerRepo)
	auditLogHandler := handlers.NewAuditLogHandler(db)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register-owner", authHandler.RegisterOwner)
		auth.POST("/register-client", authHandler.RegisterClient)
		auth.POST("/login", authHandler.Login)
	}

	secured := r.Group("/api")
	secured.Use(middleware.AuthMiddleware(cfg))

	secured.GET("/me", meHandler.GetMe)

	owner := secured.Group("")
	owner.Use(middleware.RequireRole(models.RoleOwner))
	{
		owner.GET("/establishment", establishmentHandler.Get)
		owner.PUT("/establishment", establishmentHandler.Update)
		owner.GET("/establishment/hours", establishmentHandler.GetHours)
		owner.PUT("/establishment/hours", establishmentHandler.UpdateHours)
		owner.POST("/establishment/logo", establishmentHandler.UploadLogo)

		owner.GET("/clients", clientHandler.List)
		owner.POST("/clients", clientHandler.Create)
		owner.GET("/clients/code/:code", clientHandler.GetByCode)
		owner.GET("/clients/:id", clientHandler.Get)
		owner.PUT("/clients/:id", clientHandler.Update)
		owner.DELETE("/clients/:id", clientHandler.Delete)
		owner.GET("/clients/:id/qr", clientHandler.QRCode)
		owner.GET("/clients/:id/transactions", transactionHandler.ListByClient)
		owner.GET("/clients/:id/redemptions", redemptionHandler.ListByClient)

		owner.GET("/employees", employeeHandler.List)
		owner.POST("/employees", employeeHandler.Create)
		owner.GET("/employees/:id", employeeHandler.Get)
		owner.PUT("/employees/:id", employeeHandler.Update)
		owner.DELETE("/employees/:id", employeeHandler.Delete)
		owner.GET("/employees/:id/hours", employeeHandler.GetHours)
		owner.PUT("/employees/:id/hours", employeeHandler.UpdateHours)

		owner.GET("/services", serviceHandler.List)
		owner.POST("/services", serviceHandler.Create)
		owner.GET("/services/:id", serviceHandler.Get)
		owner.PUT("/services/:id", serviceHandler.Update)
		owner.DELETE("/services/:id", serviceHandler.Delete)

		owner.GET("/rewards", rewardHandler.List)
		owner.POST("/rewards", rewardHandler.Create)
		owner.GET("/rewards/:id", rewardHandler.Get)
		owner.PUT("/rewards/:id", rewardHandler.Update)
		owner.DELETE("/rewards/:id", rewardHandler.Delete)
		owner.POST("/rewards/:id/image", rewardHandler.UploadImage)

		owner.POST("/points/earn", pointsHandler.Earn)
		owner.POST("/points/redeem", pointsHandler.RedeemDirect)

		owner.GET("/appointments", appointmentHandler.ListByDate)
		owner.GET("/appointments/month", appointmentHandler.ListByMonth)
		owner.GET("/appointments/stats", appointmentHandler.DayStats)
		owner.GET("/appointments/availability", appointmentHandler.Availability)
		owner.POST("/appointments", appointmentHandler.Create)
		owner.PATCH("/appointments/:id/status", appointmentHandler.SetStatus)

		owner.GET("/redemptions/pending", redemptionHandler.ListPending)
		owner.GET("/redemptions/code/:code", redemptionHandler.FindByCode)
		owner.POST("/redemptions/:id/confirm", redemptionHandler.Confirm)
		owner.POST("/redemptions/:id/cancel", redemptionHandler.Cancel)

		owner.GET("/transactions/stats", transactionHandler.DayStats)

		owner.GET("/audit-logs", auditLogHandler.List)
	}

	portal := secured.Group("/portal")
	portal.Use(middleware.RequireRole(models.RoleClient))
	{
		portal.GET("/services", serviceHandler.List)
		portal.GET("/employees", employeeHandler.List)
		portal.GET("/rewards", rewardHandler.List)

		portal.GET("/availability", appointmentHandler.Availability)
		portal.GET("/appointments", appointmentHandler.ListOwn)
		portal.POST("/appointments", appointmentHandler.CreateOwn)
		portal.POST("/appointments/:id/cancel", appointmentHandler.CancelOwn)

		portal.POST("/redemptions", redemptionHandler.Request)
		portal.GET("/redemptions/pending", redemptionHandler.ListOwnPending)
		portal.GET("/redemptions/history", redemptionHandler.ListOwnHistory)
		portal.POST("/redemptions/:id/cancel", redemptionHandler.CancelOwn)

		portal.GET("/transactions", transactionHandler.ListOwn)
	}
}
