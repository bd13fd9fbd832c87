package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medroute/medroute/internal/api"
	v1 "github.com/medroute/medroute/internal/api/v1"
	"github.com/medroute/medroute/internal/cache"
	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/httpclient"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/postgres"
	"github.com/medroute/medroute/internal/repository"
	"github.com/medroute/medroute/internal/service"
	"github.com/medroute/medroute/internal/validator"
	"go.uber.org/fx"
)

// @title MedRoute Facility Portal API
// @version 1.0
// @description Transportation booking and billing portal for healthcare facilities
// @BasePath /v1
// @schemes http https

func init() {
	// All billing period math is UTC
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// Postgres
			postgres.NewClient,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Repositories
			repository.NewTripRepository,
			repository.NewProfileRepository,
			repository.NewManagedClientRepository,
			repository.NewFacilityRepository,
			repository.NewInvoiceRepository,
			repository.NewPaymentRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewAuthService,
			service.NewBillingService,
			service.NewTripService,
			service.NewManagedClientService,
			service.NewFacilityService,
			service.NewInvoiceService,
			service.NewPaymentService,
			service.NewNotificationService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	authService service.AuthService,
	billingService service.BillingService,
	tripService service.TripService,
	managedClientService service.ManagedClientService,
	facilityService service.FacilityService,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	notificationService service.NotificationService,
) api.Handlers {
	return api.Handlers{
		Health:        v1.NewHealthHandler(logger),
		Auth:          v1.NewAuthHandler(authService, logger),
		Billing:       v1.NewBillingHandler(billingService, invoiceService, logger),
		Trip:          v1.NewTripHandler(tripService, logger),
		ManagedClient: v1.NewManagedClientHandler(managedClientService, logger),
		Facility:      v1.NewFacilityHandler(facilityService, logger),
		Invoice:       v1.NewInvoiceHandler(invoiceService, logger),
		Payment:       v1.NewPaymentHandler(paymentService, logger),
		Notification:  v1.NewNotificationHandler(notificationService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db postgres.IClient,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return db.Close()
		},
	})
}
