package service

import (
	"strings"
	"testing"
	"time"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/managedclient"
	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/testutil"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TripServiceSuite struct {
	testutil.BaseServiceTestSuite
	tripService TripService
}

func TestTripService(t *testing.T) {
	suite.Run(t, new(TripServiceSuite))
}

func (s *TripServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.tripService = NewTripService(ServiceParams{
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
}

func (s *TripServiceSuite) validRequest() dto.CreateTripRequest {
	return dto.CreateTripRequest{
		FacilityID:     types.DefaultFacilityID,
		UserID:         lo.ToPtr("user_1"),
		PickupTime:     time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC),
		PickupAddress:  "123 Main St, Columbus, OH 43215",
		DropoffAddress: "500 Hospital Dr, Columbus, OH 43210",
	}
}

func (s *TripServiceSuite) TestCreateTrip() {
	resp, err := s.tripService.CreateTrip(s.GetContext(), s.validRequest())
	s.Require().NoError(err)

	s.True(strings.HasPrefix(resp.ID, types.UUID_PREFIX_TRIP))
	s.True(strings.HasPrefix(resp.BookingRef, types.SHORT_ID_PREFIX_BOOKING))
	s.Equal(string(types.TripStatusPending), resp.TripStatus)
	s.Require().NotNil(resp.FacilityID)
	s.Equal(types.DefaultFacilityID, *resp.FacilityID)

	got, err := s.tripService.GetTrip(s.GetContext(), resp.ID)
	s.Require().NoError(err)
	s.Equal(resp.BookingRef, got.BookingRef)
}

func (s *TripServiceSuite) TestCreateRejectsBothClientIdentities() {
	req := s.validRequest()
	req.ManagedClientID = lo.ToPtr("mgc_1")

	_, err := s.tripService.CreateTrip(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TripServiceSuite) TestCreateRejectsNoClientIdentity() {
	req := s.validRequest()
	req.UserID = nil

	_, err := s.tripService.CreateTrip(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TripServiceSuite) TestCreateRejectsUnknownManagedClient() {
	req := s.validRequest()
	req.UserID = nil
	req.ManagedClientID = lo.ToPtr("mgc_missing")

	_, err := s.tripService.CreateTrip(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TripServiceSuite) TestCreateRejectsForeignFacility() {
	req := s.validRequest()
	req.FacilityID = "fac_other"

	_, err := s.tripService.CreateTrip(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *TripServiceSuite) TestCreateWithManagedClient() {
	err := s.GetStores().ManagedClientRepo.Create(s.GetContext(), &managedclient.ManagedClient{
		ID:         "mgc_1",
		FirstName:  "David",
		LastName:   "Patel",
		FacilityID: types.DefaultFacilityID,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	req := s.validRequest()
	req.UserID = nil
	req.ManagedClientID = lo.ToPtr("mgc_1")

	resp, err := s.tripService.CreateTrip(s.GetContext(), req)
	s.Require().NoError(err)
	s.Require().NotNil(resp.ManagedClientID)
	s.Equal("mgc_1", *resp.ManagedClientID)
}

func (s *TripServiceSuite) TestUpdateTripStatus() {
	created, err := s.tripService.CreateTrip(s.GetContext(), s.validRequest())
	s.Require().NoError(err)

	updated, err := s.tripService.UpdateTripStatus(s.GetContext(), created.ID, dto.UpdateTripStatusRequest{
		Status: "completed",
	})
	s.Require().NoError(err)
	s.Equal("completed", updated.TripStatus)
}

func (s *TripServiceSuite) TestStatusChangeKeepsLockedBreakdown() {
	req := s.validRequest()
	req.Price = lo.ToPtr(decimal.RequireFromString("50.00"))
	req.PricingBreakdown = &trip.PricingBreakdown{
		BaseFare: decimal.RequireFromString("40.00"),
		Tax:      decimal.RequireFromString("5.00"),
		Total:    decimal.RequireFromString("45.00"),
	}

	created, err := s.tripService.CreateTrip(s.GetContext(), req)
	s.Require().NoError(err)

	updated, err := s.tripService.UpdateTripStatus(s.GetContext(), created.ID, dto.UpdateTripStatusRequest{
		Status: "completed",
	})
	s.Require().NoError(err)

	s.Require().NotNil(updated.PricingBreakdown)
	s.True(updated.PricingBreakdown.Total.Equal(decimal.RequireFromString("45.00")))

	amount, priced := updated.BilledAmount()
	s.True(priced)
	s.True(amount.Equal(decimal.RequireFromString("45.00")))
}

func (s *TripServiceSuite) TestListTripsScopedToFacility() {
	_, err := s.tripService.CreateTrip(s.GetContext(), s.validRequest())
	s.Require().NoError(err)

	list, err := s.tripService.ListTrips(s.GetContext(), &types.TripFilter{
		QueryFilter: types.GetDefaultQueryFilter(),
		FacilityID:  types.DefaultFacilityID,
	})
	s.Require().NoError(err)
	s.Equal(1, list.Total)

	_, err = s.tripService.ListTrips(s.GetContext(), &types.TripFilter{
		QueryFilter: types.GetDefaultQueryFilter(),
		FacilityID:  "fac_other",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}
