package service

import (
	"errors"
	"testing"
	"time"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/managedclient"
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

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	billingService BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.billingService = NewBillingService(s.serviceParams())
	s.seedFacility()
}

func (s *BillingServiceSuite) serviceParams() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		TripRepo:          stores.TripRepo,
		ProfileRepo:       stores.ProfileRepo,
		ManagedClientRepo: stores.ManagedClientRepo,
		FacilityRepo:      stores.FacilityRepo,
		InvoiceRepo:       stores.InvoiceRepo,
		PaymentRepo:       stores.PaymentRepo,
	}
}

func (s *BillingServiceSuite) seedFacility() {
	err := s.GetStores().FacilityRepo.Create(s.GetContext(), &facility.Facility{
		ID:        types.DefaultFacilityID,
		Name:      "Sunrise Care Center",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *BillingServiceSuite) seedProfile(id, firstName, lastName, phone string) {
	err := s.GetStores().ProfileRepo.Create(s.GetContext(), &profile.Profile{
		ID:         id,
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		Role:       types.UserRoleClient,
		FacilityID: lo.ToPtr(types.DefaultFacilityID),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

type seedTrip struct {
	id              string
	facilityID      string
	userID          string
	managedClientID string
	pickupTime      time.Time
	pickupAddress   string
	status          string
	price           string
	breakdownTotal  string
	noFacility      bool
}

func (s *BillingServiceSuite) seedTrip(st seedTrip) {
	t := &trip.Trip{
		ID:            st.id,
		BookingRef:    "BK-" + st.id,
		PickupTime:    st.pickupTime,
		PickupAddress: st.pickupAddress,
		TripStatus:    st.status,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	if st.facilityID != "" {
		t.FacilityID = lo.ToPtr(st.facilityID)
	} else if !st.noFacility {
		t.FacilityID = lo.ToPtr(types.DefaultFacilityID)
	}
	if st.userID != "" {
		t.UserID = lo.ToPtr(st.userID)
	}
	if st.managedClientID != "" {
		t.ManagedClientID = lo.ToPtr(st.managedClientID)
	}
	if st.price != "" {
		t.Price = lo.ToPtr(decimal.RequireFromString(st.price))
	}
	if st.breakdownTotal != "" {
		t.PricingBreakdown = &trip.PricingBreakdown{
			Total: decimal.RequireFromString(st.breakdownTotal),
		}
	}
	s.Require().NoError(s.GetStores().TripRepo.Create(s.GetContext(), t))
}

func (s *BillingServiceSuite) seedPayment(tripID, amount string) {
	err := s.GetStores().PaymentRepo.Create(s.GetContext(), &payment.Payment{
		ID:         "pay_" + tripID,
		FacilityID: types.DefaultFacilityID,
		TripID:     lo.ToPtr(tripID),
		Amount:     decimal.RequireFromString(amount),
		RecordedAt: s.GetNow(),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)
}

func (s *BillingServiceSuite) monthlyBilling(year, month int) *dto.BillingResponse {
	resp, err := s.billingService.GetMonthlyBilling(s.GetContext(), &dto.BillingRequest{
		FacilityID: types.DefaultFacilityID,
		Year:       year,
		Month:      month,
	})
	s.Require().NoError(err)
	return resp
}

func (s *BillingServiceSuite) TestAuthenticatedClientResolvedWithPhone() {
	s.seedProfile("user_1", "John", "Smith", "(614) 555-0123")
	s.seedTrip(seedTrip{
		id:         "trip_1",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 10, 14, 30, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.Equal("John Smith - (614) 555-0123", bill.ClientName)
	s.Equal(types.IdentityKindAuthenticated, bill.ClientKind)
	s.Equal("(614) 555-0123", bill.Phone)
	s.True(bill.Amount.Equal(decimal.RequireFromString("45.50")))
	s.True(bill.DueAmount.Equal(decimal.RequireFromString("45.50")))
	s.Equal(1, bill.TripCount)
	s.Equal(1, bill.StatusCount[types.BillingStatusDue])

	s.Equal(1, resp.Summary.ClientCount)
	s.True(resp.Summary.DueAmount.Equal(decimal.RequireFromString("45.50")))
	s.False(resp.Partial)
}

func (s *BillingServiceSuite) TestManagedClientResolvedFromLegacySource() {
	err := s.GetStores().FacilityManagedClientStore.Create(s.GetContext(), &managedclient.ManagedClient{
		ID:         "mgc_9",
		FirstName:  "David",
		LastName:   "Patel",
		Phone:      "(416) 555-2233",
		FacilityID: types.DefaultFacilityID,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	s.seedTrip(seedTrip{
		id:              "trip_1",
		managedClientID: "mgc_9",
		pickupTime:      time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		status:          "completed",
		price:           "30.00",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.Equal("David Patel (Managed) - (416) 555-2233", bill.ClientName)
	s.Equal(types.IdentityKindManaged, bill.ClientKind)
	s.False(resp.Partial)
}

func (s *BillingServiceSuite) TestUnresolvedTripGetsAddressDerivedLabel() {
	s.seedTrip(seedTrip{
		id:            "trip_1",
		pickupTime:    time.Date(2024, 2, 12, 8, 0, 0, 0, time.UTC),
		pickupAddress: "123 Main St, Columbus, OH 43215",
		status:        "pending",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.Equal("Client from 123 Main St", bill.ClientName)
	s.Equal(types.IdentityKindUnresolved, bill.ClientKind)
	s.Equal(1, bill.TripCount)
	s.True(bill.Amount.IsZero())
	s.Require().Len(bill.TripDetails, 1)
	s.False(bill.TripDetails[0].Priced)
}

func (s *BillingServiceSuite) TestLeapYearPeriodBoundaries() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_first_instant",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "10.00",
	})
	s.seedTrip(seedTrip{
		id:         "trip_leap_day",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		status:     "completed",
		price:      "20.00",
	})
	s.seedTrip(seedTrip{
		id:         "trip_next_month",
		userID:     "user_1",
		pickupTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "40.00",
	})

	feb := s.monthlyBilling(2024, 2)
	s.Equal(2, feb.Summary.TripCount)
	s.True(feb.Summary.TotalAmount.Equal(decimal.RequireFromString("30.00")))

	march := s.monthlyBilling(2024, 3)
	s.Equal(1, march.Summary.TripCount)
	s.True(march.Summary.TotalAmount.Equal(decimal.RequireFromString("40.00")))
}

func (s *BillingServiceSuite) TestMixedStatusesGroupUnderOneClient() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_done",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_pending",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC),
		status:     "pending",
		price:      "20.00",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.Equal(2, bill.TripCount)
	s.True(bill.DueAmount.Equal(decimal.RequireFromString("45.50")))
	s.True(bill.UpcomingAmount.Equal(decimal.RequireFromString("20.00")))
	s.True(bill.Amount.Equal(decimal.RequireFromString("65.50")))
	s.Equal(1, bill.StatusCount[types.BillingStatusDue])
	s.Equal(1, bill.StatusCount[types.BillingStatusUpcoming])

	// line items ordered by pickup time
	s.Require().Len(bill.TripDetails, 2)
	s.Equal("trip_done", bill.TripDetails[0].TripID)
	s.Equal("trip_pending", bill.TripDetails[1].TripID)
}

func (s *BillingServiceSuite) TestUnpricedTripCountsButContributesZero() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_priced",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_unpriced",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 4, 10, 0, 0, 0, time.UTC),
		status:     "completed",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.Equal(2, bill.TripCount)
	s.True(bill.Amount.Equal(decimal.RequireFromString("45.50")))
	s.Equal(2, bill.StatusCount[types.BillingStatusDue])

	unpriced, found := lo.Find(bill.TripDetails, func(d dto.TripDetail) bool {
		return d.TripID == "trip_unpriced"
	})
	s.Require().True(found)
	s.False(unpriced.Priced)
	s.True(unpriced.Amount.IsZero())
}

func (s *BillingServiceSuite) TestLockedBreakdownBeatsLivePrice() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:             "trip_1",
		userID:         "user_1",
		pickupTime:     time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:         "completed",
		price:          "50.00",
		breakdownTotal: "45.00",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	s.True(resp.Bills[0].Amount.Equal(decimal.RequireFromString("45.00")))
}

func (s *BillingServiceSuite) TestPaymentRecordClassifiesPaid() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_paid",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedPayment("trip_paid", "45.50")

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.True(bill.PaidAmount.Equal(decimal.RequireFromString("45.50")))
	s.True(bill.DueAmount.IsZero())
	s.Equal(1, bill.StatusCount[types.BillingStatusPaid])
}

func (s *BillingServiceSuite) TestDirectAndUserPathTripCountedOnce() {
	s.seedProfile("user_1", "John", "Smith", "")
	// Linked to the facility directly and owned by a facility user: both fetch
	// paths find it, the bill must show it once.
	s.seedTrip(seedTrip{
		id:         "trip_1",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Equal(1, resp.Summary.TripCount)
	s.True(resp.Summary.TotalAmount.Equal(decimal.RequireFromString("45.50")))
}

func (s *BillingServiceSuite) TestUserPathTripWithoutDirectLinkIncluded() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_user_only",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
		noFacility: true,
	})

	resp := s.monthlyBilling(2024, 2)

	s.Equal(1, resp.Summary.TripCount)
	s.True(resp.Summary.TotalAmount.Equal(decimal.RequireFromString("45.50")))
}

func (s *BillingServiceSuite) TestUserTripLinkedToAnotherFacilityExcluded() {
	s.seedProfile("user_1", "John", "Smith", "")
	// Booked by one of this facility's users, but the direct link points at
	// another facility. The direct link wins: this trip bills there, not here.
	s.seedTrip(seedTrip{
		id:         "trip_foreign",
		facilityID: "fac_other",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_unlinked",
		noFacility: true,
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 4, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "20.00",
	})

	resp := s.monthlyBilling(2024, 2)

	s.Equal(1, resp.Summary.TripCount)
	s.True(resp.Summary.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	s.Require().Len(resp.Bills, 1)
	s.Equal("trip_unlinked", resp.Bills[0].TripDetails[0].TripID)
}

func (s *BillingServiceSuite) TestEmptyMonthRecheckedWithHalfOpenBound() {
	s.seedProfile("user_1", "John", "Smith", "")
	// Lands after the inclusive end-of-day bound but before the next month
	// start, the way a mishandled date-only pickup value does.
	s.seedTrip(seedTrip{
		id:         "trip_edge",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC),
		status:     "completed",
		price:      "45.50",
	})

	feb := s.monthlyBilling(2024, 2)
	s.Equal(1, feb.Summary.TripCount)
	s.True(feb.Summary.TotalAmount.Equal(decimal.RequireFromString("45.50")))
	s.False(feb.Partial)

	// the recheck bound is half-open, so the trip never bleeds into March
	march := s.monthlyBilling(2024, 3)
	s.Equal(0, march.Summary.TripCount)
}

func (s *BillingServiceSuite) TestFailedLegacySourceDegradesToPartial() {
	err := s.GetStores().FacilityManagedClientStore.Create(s.GetContext(), &managedclient.ManagedClient{
		ID:         "mgc_9",
		FirstName:  "David",
		LastName:   "Patel",
		FacilityID: types.DefaultFacilityID,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	s.seedTrip(seedTrip{
		id:              "trip_1",
		managedClientID: "mgc_9",
		pickupTime:      time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC),
		pickupAddress:   "55 Oak Ave, Toronto",
		status:          "completed",
		price:           "30.00",
	})

	s.GetStores().FacilityManagedClientStore.SetError(errors.New("connection refused"))

	resp := s.monthlyBilling(2024, 2)

	s.True(resp.Partial)
	s.NotEmpty(resp.Warnings)
	s.Require().Len(resp.Bills, 1)
	// resolution degraded, the trip falls back to the address label
	s.Equal("Client from 55 Oak Ave", resp.Bills[0].ClientName)
	s.Equal(types.IdentityKindUnresolved, resp.Bills[0].ClientKind)
	s.True(resp.Bills[0].Amount.Equal(decimal.RequireFromString("30.00")))
}

func (s *BillingServiceSuite) TestFetchedTripsOrderedMostRecentFirst() {
	s.seedProfile("user_1", "John", "Smith", "")
	// only reachable through the direct facility link
	s.seedTrip(seedTrip{
		id:         "trip_direct",
		pickupTime: time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "30.00",
	})
	// only reachable through the facility-user path, but more recent
	s.seedTrip(seedTrip{
		id:         "trip_user",
		noFacility: true,
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 25, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})

	period := types.BillingPeriod{Year: 2024, Month: 2}
	svc := s.billingService.(*billingService)
	trips, partial, _, err := svc.fetchTrips(s.GetContext(),
		types.DefaultFacilityID, period.Start(), period.End(), period.NextMonthStart())
	s.Require().NoError(err)
	s.False(partial)

	s.Require().Len(trips, 2)
	s.Equal("trip_user", trips[0].ID)
	s.Equal("trip_direct", trips[1].ID)
}

func (s *BillingServiceSuite) TestRepeatedRunsAreIdentical() {
	s.seedProfile("user_1", "John", "Smith", "(614) 555-0123")
	s.seedProfile("user_2", "Maria", "Garcia", "")
	s.seedTrip(seedTrip{
		id:         "trip_1",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_2",
		userID:     "user_2",
		pickupTime: time.Date(2024, 2, 4, 10, 0, 0, 0, time.UTC),
		status:     "pending",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:            "trip_3",
		pickupTime:    time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC),
		pickupAddress: "9 Elm St, Dayton",
		status:        "cancelled",
		price:         "15.00",
	})

	first := s.monthlyBilling(2024, 2)
	second := s.monthlyBilling(2024, 2)

	s.Equal(first, second)
}

func (s *BillingServiceSuite) TestStatusFilterRestrictsLineItems() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_done",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_pending",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC),
		status:     "pending",
		price:      "20.00",
	})

	resp, err := s.billingService.GetMonthlyBilling(s.GetContext(), &dto.BillingRequest{
		FacilityID: types.DefaultFacilityID,
		Year:       2024,
		Month:      2,
		Status:     types.BillingStatusDue,
	})
	s.Require().NoError(err)

	s.Require().Len(resp.Bills, 1)
	s.Equal(1, resp.Bills[0].TripCount)
	s.Equal("trip_done", resp.Bills[0].TripDetails[0].TripID)
	s.Equal(1, resp.Summary.TripCount)
}

func (s *BillingServiceSuite) TestClientFilterRestrictsBills() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedProfile("user_2", "Maria", "Garcia", "")
	s.seedTrip(seedTrip{
		id:         "trip_1",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_2",
		userID:     "user_2",
		pickupTime: time.Date(2024, 2, 4, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "30.00",
	})

	resp, err := s.billingService.GetMonthlyBilling(s.GetContext(), &dto.BillingRequest{
		FacilityID: types.DefaultFacilityID,
		Year:       2024,
		Month:      2,
		ClientID:   "user_2",
	})
	s.Require().NoError(err)

	s.Require().Len(resp.Bills, 1)
	s.Equal("Maria Garcia", resp.Bills[0].ClientName)
}

func (s *BillingServiceSuite) TestStatusVariantsAllClassified() {
	s.seedProfile("user_1", "John", "Smith", "")
	statuses := map[string]string{
		"trip_a": "Completed",
		"trip_b": "No-Show",
		"trip_c": "canceled",
		"trip_d": "In Progress",
	}
	day := 1
	for id, status := range statuses {
		s.seedTrip(seedTrip{
			id:         id,
			userID:     "user_1",
			pickupTime: time.Date(2024, 2, day, 10, 0, 0, 0, time.UTC),
			status:     status,
			price:      "10.00",
		})
		day++
	}

	resp := s.monthlyBilling(2024, 2)

	s.Require().Len(resp.Bills, 1)
	bill := resp.Bills[0]
	s.Equal(4, bill.TripCount)
	s.Equal(1, bill.StatusCount[types.BillingStatusDue])
	s.Equal(2, bill.StatusCount[types.BillingStatusCancelled])
	s.Equal(1, bill.StatusCount[types.BillingStatusUpcoming])
}

func (s *BillingServiceSuite) TestInvalidPeriodRejected() {
	_, err := s.billingService.GetMonthlyBilling(s.GetContext(), &dto.BillingRequest{
		FacilityID: types.DefaultFacilityID,
		Year:       2024,
		Month:      13,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.billingService.GetMonthlyBilling(s.GetContext(), &dto.BillingRequest{
		FacilityID: types.DefaultFacilityID,
		Year:       1999,
		Month:      6,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestForeignFacilityDenied() {
	_, err := s.billingService.GetMonthlyBilling(s.GetContext(), &dto.BillingRequest{
		FacilityID: "fac_other",
		Year:       2024,
		Month:      2,
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *BillingServiceSuite) TestDeterministicBillNumbers() {
	n1 := BillNumber("fac_1", "2024-02", "authenticated:user_1")
	n2 := BillNumber("fac_1", "2024-02", "authenticated:user_1")
	n3 := BillNumber("fac_1", "2024-03", "authenticated:user_1")
	n4 := BillNumber("fac_2", "2024-02", "authenticated:user_1")

	s.Equal(n1, n2)
	s.NotEqual(n1, n3)
	s.NotEqual(n1, n4)
	s.Regexp(`^MR-2024-02-[0-9A-F]{8}$`, n1)
}

func (s *BillingServiceSuite) TestClientSummaryAcrossMonths() {
	s.seedProfile("user_1", "John", "Smith", "")
	s.seedTrip(seedTrip{
		id:         "trip_feb",
		userID:     "user_1",
		pickupTime: time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "45.50",
	})
	s.seedTrip(seedTrip{
		id:         "trip_mar",
		userID:     "user_1",
		pickupTime: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
		status:     "pending",
		price:      "20.00",
	})
	s.seedTrip(seedTrip{
		id:         "trip_outside",
		userID:     "user_1",
		pickupTime: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
		status:     "completed",
		price:      "99.00",
	})

	resp, err := s.billingService.GetClientSummary(s.GetContext(), &dto.ClientSummaryRequest{
		FacilityID: types.DefaultFacilityID,
		StartDate:  "2024-02-01",
		EndDate:    "2024-03-31",
	})
	s.Require().NoError(err)

	s.Require().Len(resp.Clients, 1)
	row := resp.Clients[0]
	s.Equal("John Smith", row.ClientName)
	s.Equal(2, row.TripCount)
	s.True(row.TotalAmount.Equal(decimal.RequireFromString("65.50")))
	s.True(row.DueAmount.Equal(decimal.RequireFromString("45.50")))
	s.True(row.UpcomingAmount.Equal(decimal.RequireFromString("20.00")))
}
