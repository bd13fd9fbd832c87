package service

import (
	"strings"
	"testing"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/domain/managedclient"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/testutil"
	"github.com/medroute/medroute/internal/types"
	"github.com/stretchr/testify/suite"
)

type ManagedClientServiceSuite struct {
	testutil.BaseServiceTestSuite
	managedClientService ManagedClientService
}

func TestManagedClientService(t *testing.T) {
	suite.Run(t, new(ManagedClientServiceSuite))
}

func (s *ManagedClientServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.managedClientService = NewManagedClientService(ServiceParams{
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

func (s *ManagedClientServiceSuite) TestCreateManagedClient() {
	resp, err := s.managedClientService.CreateManagedClient(s.GetContext(), dto.CreateManagedClientRequest{
		FacilityID: types.DefaultFacilityID,
		FirstName:  "David",
		LastName:   "Patel",
		Phone:      "(416) 555-2233",
	})
	s.Require().NoError(err)

	s.True(strings.HasPrefix(resp.ID, types.UUID_PREFIX_MANAGED_CLIENT))
	s.Equal("David Patel", resp.FullName())

	// new records land in the current table, never the legacy one
	_, err = s.GetStores().ManagedClientStore.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	_, err = s.GetStores().FacilityManagedClientStore.Get(s.GetContext(), resp.ID)
	s.Error(err)
}

func (s *ManagedClientServiceSuite) TestCreateRequiresFacility() {
	_, err := s.managedClientService.CreateManagedClient(s.GetContext(), dto.CreateManagedClientRequest{
		FirstName: "David",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ManagedClientServiceSuite) TestCreateRejectsForeignFacility() {
	_, err := s.managedClientService.CreateManagedClient(s.GetContext(), dto.CreateManagedClientRequest{
		FacilityID: "fac_other",
		FirstName:  "David",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *ManagedClientServiceSuite) TestGetFindsLegacyRecords() {
	err := s.GetStores().FacilityManagedClientStore.Create(s.GetContext(), &managedclient.ManagedClient{
		ID:         "mgc_legacy",
		FirstName:  "Rosa",
		LastName:   "Martinez",
		FacilityID: types.DefaultFacilityID,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	resp, err := s.managedClientService.GetManagedClient(s.GetContext(), "mgc_legacy")
	s.Require().NoError(err)
	s.Equal("Rosa Martinez", resp.FullName())
}

func (s *ManagedClientServiceSuite) TestListMergesBothSources() {
	_, err := s.managedClientService.CreateManagedClient(s.GetContext(), dto.CreateManagedClientRequest{
		FacilityID: types.DefaultFacilityID,
		FirstName:  "David",
		LastName:   "Patel",
	})
	s.Require().NoError(err)

	err = s.GetStores().FacilityManagedClientStore.Create(s.GetContext(), &managedclient.ManagedClient{
		ID:         "mgc_legacy",
		FirstName:  "Rosa",
		LastName:   "Martinez",
		FacilityID: types.DefaultFacilityID,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.Require().NoError(err)

	list, err := s.managedClientService.ListManagedClients(s.GetContext(), types.DefaultFacilityID)
	s.Require().NoError(err)
	s.Equal(2, list.Total)
}
