package service

import (
	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/invoice"
	"github.com/medroute/medroute/internal/domain/managedclient"
	"github.com/medroute/medroute/internal/domain/payment"
	"github.com/medroute/medroute/internal/domain/profile"
	"github.com/medroute/medroute/internal/domain/trip"
	"github.com/medroute/medroute/internal/httpclient"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	TripRepo          trip.Repository
	ProfileRepo       profile.Repository
	ManagedClientRepo *managedclient.MergedRepository
	FacilityRepo      facility.Repository
	InvoiceRepo       invoice.Repository
	PaymentRepo       payment.Repository

	HTTPClient httpclient.Client
}

// NewServiceParams assembles the common service dependencies for fx
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	tripRepo trip.Repository,
	profileRepo profile.Repository,
	managedClientRepo *managedclient.MergedRepository,
	facilityRepo facility.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	httpClient httpclient.Client,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		DB:                db,
		TripRepo:          tripRepo,
		ProfileRepo:       profileRepo,
		ManagedClientRepo: managedClientRepo,
		FacilityRepo:      facilityRepo,
		InvoiceRepo:       invoiceRepo,
		PaymentRepo:       paymentRepo,
		HTTPClient:        httpClient,
	}
}
