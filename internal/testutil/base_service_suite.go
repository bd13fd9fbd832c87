package testutil

import (
	"context"
	"time"

	"github.com/medroute/medroute/internal/cache"
	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/invoice"
	"github.com/medroute/medroute/internal/domain/managedclient"
	"github.com/medroute/medroute/internal/domain/payment"
	"github.com/medroute/medroute/internal/domain/profile"
	"github.com/medroute/medroute/internal/domain/trip"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/types"
	"github.com/medroute/medroute/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing. The two managed
// client stores mirror the two historical tables behind the merged repository.
type Stores struct {
	TripRepo                   trip.Repository
	ProfileRepo                profile.Repository
	ManagedClientStore         *InMemoryManagedClientStore
	FacilityManagedClientStore *InMemoryManagedClientStore
	ManagedClientRepo          *managedclient.MergedRepository
	FacilityRepo               facility.Repository
	InvoiceRepo                invoice.Repository
	PaymentRepo                payment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := &config.Configuration{
		Deployment: config.DeploymentConfig{Mode: types.ModeLocal},
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	cache.Initialize(s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	mcStore := NewInMemoryManagedClientStore()
	fmcStore := NewInMemoryManagedClientStore()

	s.stores = Stores{
		TripRepo:                   NewInMemoryTripStore(),
		ProfileRepo:                NewInMemoryProfileStore(),
		ManagedClientStore:         mcStore,
		FacilityManagedClientStore: fmcStore,
		ManagedClientRepo: managedclient.NewMergedRepository(s.logger,
			managedclient.Source{Name: "managed_clients", Repo: mcStore},
			managedclient.Source{Name: "facility_managed_clients", Repo: fmcStore},
		),
		FacilityRepo: NewInMemoryFacilityStore(),
		InvoiceRepo:  NewInMemoryInvoiceStore(),
		PaymentRepo:  NewInMemoryPaymentStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TripRepo.(*InMemoryTripStore).Clear()
	s.stores.ProfileRepo.(*InMemoryProfileStore).Clear()
	s.stores.ManagedClientStore.Clear()
	s.stores.ManagedClientStore.SetError(nil)
	s.stores.FacilityManagedClientStore.Clear()
	s.stores.FacilityManagedClientStore.SetError(nil)
	s.stores.FacilityRepo.(*InMemoryFacilityStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
}

// ClearStores clears all the in-memory stores mid-test
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the timestamp fixed at test setup
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
