package api

import (
	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/rest/middleware"
	"github.com/medroute/medroute/internal/types"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	v1 "github.com/medroute/medroute/internal/api/v1"
)

type Handlers struct {
	Health        *v1.HealthHandler
	Auth          *v1.AuthHandler
	Billing       *v1.BillingHandler
	Trip          *v1.TripHandler
	ManagedClient *v1.ManagedClientHandler
	Facility      *v1.FacilityHandler
	Invoice       *v1.InvoiceHandler
	Payment       *v1.PaymentHandler
	Notification  *v1.NotificationHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	public := router.Group("/v1")
	{
		public.GET("/health", handlers.Health.Health)
		public.POST("/auth/signup", handlers.Auth.SignUp)
		public.POST("/auth/login", handlers.Auth.Login)
	}

	private := router.Group("/v1")
	if cfg.Deployment.Mode == types.ModeLocal && cfg.Auth.Secret == "" {
		logger.Warn("auth secret not configured, running with guest authentication")
		private.Use(middleware.GuestAuthenticateMiddleware)
	} else {
		private.Use(middleware.AuthenticateMiddleware(cfg, logger))
	}
	registerV1Routes(private, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	billing := router.Group("/billing")
	{
		billing.GET("", handlers.Billing.GetMonthlyBilling)
		billing.GET("/client-summary", handlers.Billing.GetClientSummary)
		billing.POST("", handlers.Billing.CreateInvoice)
	}

	trips := router.Group("/trips")
	{
		trips.POST("", handlers.Trip.CreateTrip)
		trips.GET("", handlers.Trip.ListTrips)
		trips.GET("/:id", handlers.Trip.GetTrip)
		trips.PUT("/:id/status", handlers.Trip.UpdateTripStatus)
	}

	managedClients := router.Group("/managed-clients")
	{
		managedClients.POST("", handlers.ManagedClient.CreateManagedClient)
		managedClients.GET("", handlers.ManagedClient.ListManagedClients)
		managedClients.GET("/:id", handlers.ManagedClient.GetManagedClient)
	}

	facilities := router.Group("/facilities")
	{
		facilities.POST("", handlers.Facility.CreateFacility)
		facilities.GET("", handlers.Facility.ListFacilities)
		facilities.GET("/:id", handlers.Facility.GetFacility)
		facilities.PUT("/:id", handlers.Facility.UpdateFacility)
	}

	invoices := router.Group("/invoices")
	{
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.POST("/:id/pay", handlers.Invoice.MarkInvoicePaid)
	}

	payments := router.Group("/payments")
	{
		payments.POST("/setup-intent", handlers.Payment.CreateSetupIntent)
		payments.POST("/payment-intent", handlers.Payment.CreatePaymentIntent)
		payments.GET("/payment-intent/:id/verify", handlers.Payment.VerifyPaymentIntent)
	}

	notifications := router.Group("/notifications")
	{
		notifications.POST("", handlers.Notification.SendNotification)
	}
}
