package repository

import (
	"github.com/medroute/medroute/internal/cache"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/invoice"
	"github.com/medroute/medroute/internal/domain/managedclient"
	"github.com/medroute/medroute/internal/domain/payment"
	"github.com/medroute/medroute/internal/domain/profile"
	"github.com/medroute/medroute/internal/domain/trip"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/postgres"
	postgresRepo "github.com/medroute/medroute/internal/repository/postgres"
)

func NewTripRepository(db postgres.IClient, logger *logger.Logger) trip.Repository {
	return postgresRepo.NewTripRepository(db, logger)
}

func NewProfileRepository(db postgres.IClient, logger *logger.Logger, c cache.Cache) profile.Repository {
	return postgresRepo.NewProfileRepository(db, logger, c)
}

// NewManagedClientRepository wires every known managed-client table behind the
// merged repository. Order matters: managed_clients is the current table and
// wins id collisions, facility_managed_clients is the legacy one.
func NewManagedClientRepository(db postgres.IClient, logger *logger.Logger) *managedclient.MergedRepository {
	return managedclient.NewMergedRepository(logger,
		managedclient.Source{
			Name: "managed_clients",
			Repo: postgresRepo.NewManagedClientRepository(db, logger),
		},
		managedclient.Source{
			Name: "facility_managed_clients",
			Repo: postgresRepo.NewFacilityManagedClientRepository(db, logger),
		},
	)
}

func NewFacilityRepository(db postgres.IClient, logger *logger.Logger, c cache.Cache) facility.Repository {
	return postgresRepo.NewFacilityRepository(db, logger, c)
}

func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}
