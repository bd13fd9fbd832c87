package service

import (
	"strings"
	"testing"
	"time"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/payment"
	"github.com/medroute/medroute/internal/domain/profile"
	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/testutil"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	invoiceService InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.invoiceService = NewInvoiceService(ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		TripRepo:          stores.TripRepo,
		ProfileRepo:       stores.ProfileRepo,
		ManagedClientRepo: stores.ManagedClientRepo,
		FacilityRepo:      stores.FacilityRepo,
		InvoiceRepo:       stores.InvoiceRepo,
		PaymentRepo:       stores.PaymentRepo,
	})

	err := stores.FacilityRepo.Create(s.GetContext(), &facility.Facility{
		ID:        types.DefaultFacilityID,
		Name:      "Sunrise Care Center",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	err = stores.ProfileRepo.Create(s.GetContext(), &profile.Profile{
		ID:         "user_1",
		FirstName:  "John",
		LastName:   "Smith",
		Phone:      "(614) 555-0123",
		Role:       types.UserRoleClient,
		FacilityID: lo.ToPtr(types.DefaultFacilityID),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *InvoiceServiceSuite) seedTrip(id, status string, withFacility bool) {
	t := &trip.Trip{
		ID:            id,
		BookingRef:    "BK-" + id,
		UserID:        lo.ToPtr("user_1"),
		PickupTime:    time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC),
		PickupAddress: "123 Main St, Columbus, OH 43215",
		TripStatus:    status,
		Price:         lo.ToPtr(decimal.RequireFromString("45.50")),
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	if withFacility {
		t.FacilityID = lo.ToPtr(types.DefaultFacilityID)
	}
	s.Require().NoError(s.GetStores().TripRepo.Create(s.GetContext(), t))
}

func (s *InvoiceServiceSuite) TestCreateSingleTripInvoice() {
	s.seedTrip("trip_1", "completed", true)

	resp, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_1",
		Amount: decimal.RequireFromString("45.50"),
	})
	s.Require().NoError(err)

	s.True(strings.HasPrefix(resp.BillNumber, "MR-2024-02-"))
	s.Equal("2024-02", resp.PeriodKey)
	s.Equal(types.DefaultFacilityID, resp.FacilityID)
	s.Equal("John Smith - (614) 555-0123", resp.ClientName)
	s.Equal(types.IdentityKindAuthenticated, resp.IdentityKind)
	s.Equal(types.BillingStatusDue, resp.BillingStatus)
	s.True(resp.AmountDue.Equal(decimal.RequireFromString("45.50")))

	s.Require().Len(resp.LineItems, 1)
	s.Equal("trip_1", resp.LineItems[0].TripID)
	s.True(resp.LineItems[0].Amount.Equal(resp.AmountDue))
}

func (s *InvoiceServiceSuite) TestCreateIsIdempotentPerClientAndPeriod() {
	s.seedTrip("trip_1", "completed", true)

	req := dto.CreateInvoiceRequest{
		TripID: "trip_1",
		Amount: decimal.RequireFromString("45.50"),
	}
	_, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), req)
	s.Require().NoError(err)

	_, err = s.invoiceService.CreateSingleTripInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *InvoiceServiceSuite) TestCreateRejectsTripWithoutFacility() {
	s.seedTrip("trip_orphan", "completed", false)

	_, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_orphan",
		Amount: decimal.RequireFromString("45.50"),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestCreateRejectsMissingTrip() {
	_, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_missing",
		Amount: decimal.RequireFromString("45.50"),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestCreateRejectsNegativeAmount() {
	_, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_1",
		Amount: decimal.RequireFromString("-1"),
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestPaidTripInvoicedAsPaid() {
	s.seedTrip("trip_1", "completed", true)
	err := s.GetStores().PaymentRepo.Create(s.GetContext(), &payment.Payment{
		ID:         "pay_1",
		FacilityID: types.DefaultFacilityID,
		TripID:     lo.ToPtr("trip_1"),
		Amount:     decimal.RequireFromString("45.50"),
		RecordedAt: s.GetNow(),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	resp, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_1",
		Amount: decimal.RequireFromString("45.50"),
	})
	s.Require().NoError(err)
	s.Equal(types.BillingStatusPaid, resp.BillingStatus)
}

func (s *InvoiceServiceSuite) TestGetAndListScopedToFacility() {
	s.seedTrip("trip_1", "completed", true)

	created, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_1",
		Amount: decimal.RequireFromString("45.50"),
	})
	s.Require().NoError(err)

	got, err := s.invoiceService.GetInvoice(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(created.BillNumber, got.BillNumber)

	list, err := s.invoiceService.ListInvoices(s.GetContext(), &types.InvoiceFilter{
		FacilityID: types.DefaultFacilityID,
		PeriodKey:  "2024-02",
	})
	s.Require().NoError(err)
	s.Equal(1, list.Total)

	_, err = s.invoiceService.ListInvoices(s.GetContext(), &types.InvoiceFilter{
		FacilityID: "fac_other",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *InvoiceServiceSuite) TestMarkInvoicePaidIsSticky() {
	s.seedTrip("trip_1", "completed", true)

	created, err := s.invoiceService.CreateSingleTripInvoice(s.GetContext(), dto.CreateInvoiceRequest{
		TripID: "trip_1",
		Amount: decimal.RequireFromString("45.50"),
	})
	s.Require().NoError(err)
	s.Equal(types.BillingStatusDue, created.BillingStatus)

	paid, err := s.invoiceService.MarkInvoicePaid(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(types.BillingStatusPaid, paid.BillingStatus)

	// marking twice is a no-op
	again, err := s.invoiceService.MarkInvoicePaid(s.GetContext(), created.ID)
	s.Require().NoError(err)
	s.Equal(types.BillingStatusPaid, again.BillingStatus)
}
