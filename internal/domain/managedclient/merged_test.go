package managedclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/medroute/medroute/internal/config"
	"github.com/medroute/medroute/internal/domain/managedclient"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/logger"
	"github.com/medroute/medroute/internal/testutil"
	"github.com/medroute/medroute/internal/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MergedRepositorySuite struct {
	suite.Suite
	ctx       context.Context
	primary   *testutil.InMemoryManagedClientStore
	secondary *testutil.InMemoryManagedClientStore
	repo      *managedclient.MergedRepository
}

func TestMergedRepository(t *testing.T) {
	suite.Run(t, new(MergedRepositorySuite))
}

func (s *MergedRepositorySuite) SetupTest() {
	s.ctx = testutil.SetupContext()

	log, err := logger.NewLogger(config.GetDefaultConfig())
	require.NoError(s.T(), err)

	s.primary = testutil.NewInMemoryManagedClientStore()
	s.secondary = testutil.NewInMemoryManagedClientStore()
	s.repo = managedclient.NewMergedRepository(log,
		managedclient.Source{Name: "managed_clients", Repo: s.primary},
		managedclient.Source{Name: "facility_managed_clients", Repo: s.secondary},
	)
}

func (s *MergedRepositorySuite) seed(store *testutil.InMemoryManagedClientStore, id, firstName, lastName string) {
	err := store.Create(s.ctx, &managedclient.ManagedClient{
		ID:         id,
		FirstName:  firstName,
		LastName:   lastName,
		FacilityID: types.DefaultFacilityID,
	})
	s.NoError(err)
}

func (s *MergedRepositorySuite) TestPrimarySourceWinsCollisions() {
	s.seed(s.primary, "mgc_1", "Primary", "Record")
	s.seed(s.secondary, "mgc_1", "Legacy", "Record")

	result, err := s.repo.GetByIDsPartial(s.ctx, []string{"mgc_1"})
	s.NoError(err)
	s.False(result.Partial)
	s.Require().Contains(result.Clients, "mgc_1")
	s.Equal("Primary Record", result.Clients["mgc_1"].FullName())
}

func (s *MergedRepositorySuite) TestSecondarySourceFillsGaps() {
	s.seed(s.primary, "mgc_1", "Alice", "Nguyen")
	s.seed(s.secondary, "mgc_2", "David", "Patel")

	result, err := s.repo.GetByIDsPartial(s.ctx, []string{"mgc_1", "mgc_2"})
	s.NoError(err)
	s.False(result.Partial)
	s.Len(result.Clients, 2)
	s.Equal("David Patel", result.Clients["mgc_2"].FullName())
}

func (s *MergedRepositorySuite) TestOneFailedSourceDegradesToPartial() {
	s.seed(s.primary, "mgc_1", "Alice", "Nguyen")
	s.seed(s.secondary, "mgc_2", "David", "Patel")
	s.secondary.SetError(errors.New("connection refused"))

	result, err := s.repo.GetByIDsPartial(s.ctx, []string{"mgc_1", "mgc_2"})
	s.NoError(err)
	s.True(result.Partial)
	s.Equal([]string{"facility_managed_clients"}, result.FailedSources)
	s.Len(result.Clients, 1)
	s.Contains(result.Clients, "mgc_1")
	s.NotContains(result.Clients, "mgc_2")
}

func (s *MergedRepositorySuite) TestAllSourcesFailedErrorsOut() {
	s.primary.SetError(errors.New("connection refused"))
	s.secondary.SetError(errors.New("connection refused"))

	_, err := s.repo.GetByIDsPartial(s.ctx, []string{"mgc_1"})
	s.Error(err)
	s.True(ierr.IsDatabase(err))
}

func (s *MergedRepositorySuite) TestGetFallsThroughToSecondary() {
	s.seed(s.secondary, "mgc_2", "David", "Patel")

	mc, err := s.repo.Get(s.ctx, "mgc_2")
	s.NoError(err)
	s.Equal("David Patel", mc.FullName())

	_, err = s.repo.Get(s.ctx, "mgc_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *MergedRepositorySuite) TestCreateWritesToPrimarySource() {
	err := s.repo.Create(s.ctx, &managedclient.ManagedClient{
		ID:         "mgc_new",
		FirstName:  "New",
		LastName:   "Client",
		FacilityID: types.DefaultFacilityID,
	})
	s.NoError(err)

	_, err = s.primary.Get(s.ctx, "mgc_new")
	s.NoError(err)
	_, err = s.secondary.Get(s.ctx, "mgc_new")
	s.Error(err)
}

func (s *MergedRepositorySuite) TestListByFacilityMergesAndDedupes() {
	s.seed(s.primary, "mgc_1", "Alice", "Nguyen")
	s.seed(s.primary, "mgc_2", "Current", "Copy")
	s.seed(s.secondary, "mgc_2", "Legacy", "Copy")
	s.seed(s.secondary, "mgc_3", "David", "Patel")

	clients, err := s.repo.ListByFacility(s.ctx, types.DefaultFacilityID)
	s.NoError(err)
	s.Len(clients, 3)

	byID := map[string]*managedclient.ManagedClient{}
	for _, mc := range clients {
		byID[mc.ID] = mc
	}
	s.Equal("Current Copy", byID["mgc_2"].FullName())
}
