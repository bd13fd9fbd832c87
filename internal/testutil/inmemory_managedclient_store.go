package testutil

import (
	"context"
	"sync"

	"github.com/medroute/medroute/internal/domain/managedclient"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InMemoryManagedClientStore implements managedclient.Repository for one
// source table. Tests exercising partial resolution flip failErr to simulate
// an unreachable source.
type InMemoryManagedClientStore struct {
	*InMemoryStore[*managedclient.ManagedClient]

	mu      sync.Mutex
	failErr error
}

// NewInMemoryManagedClientStore creates a new in-memory managed client store
func NewInMemoryManagedClientStore() *InMemoryManagedClientStore {
	return &InMemoryManagedClientStore{
		InMemoryStore: NewInMemoryStore[*managedclient.ManagedClient](),
	}
}

// SetError makes every subsequent read fail with err. Pass nil to recover.
func (s *InMemoryManagedClientStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *InMemoryManagedClientStore) currentError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failErr
}

func copyManagedClient(mc *managedclient.ManagedClient) *managedclient.ManagedClient {
	if mc == nil {
		return nil
	}
	c := *mc
	return &c
}

func (s *InMemoryManagedClientStore) Create(ctx context.Context, mc *managedclient.ManagedClient) error {
	if err := s.currentError(); err != nil {
		return err
	}
	if err := s.InMemoryStore.Create(ctx, mc.ID, copyManagedClient(mc)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryManagedClientStore) Get(ctx context.Context, id string) (*managedclient.ManagedClient, error) {
	if err := s.currentError(); err != nil {
		return nil, err
	}
	mc, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || mc.Status == types.StatusDeleted {
		return nil, ierr.NewError("managed client not found").
			WithHintf("No managed client with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyManagedClient(mc), nil
}

func (s *InMemoryManagedClientStore) GetByIDs(ctx context.Context, ids []string) (map[string]*managedclient.ManagedClient, error) {
	if err := s.currentError(); err != nil {
		return nil, err
	}
	result := make(map[string]*managedclient.ManagedClient, len(ids))
	for _, id := range ids {
		mc, err := s.InMemoryStore.Get(ctx, id)
		if err != nil || mc.Status == types.StatusDeleted {
			continue
		}
		result[id] = copyManagedClient(mc)
	}
	return result, nil
}

func (s *InMemoryManagedClientStore) ListByFacility(ctx context.Context, facilityID string) ([]*managedclient.ManagedClient, error) {
	if err := s.currentError(); err != nil {
		return nil, err
	}
	items, err := s.InMemoryStore.List(ctx, facilityID, func(_ context.Context, mc *managedclient.ManagedClient, f interface{}) bool {
		return mc.Status != types.StatusDeleted && mc.FacilityID == f.(string)
	}, func(a, b *managedclient.ManagedClient) bool {
		return a.FullName() < b.FullName()
	})
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return lo.Map(items, func(mc *managedclient.ManagedClient, _ int) *managedclient.ManagedClient {
		return copyManagedClient(mc)
	}), nil
}
