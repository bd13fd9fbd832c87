package testutil

import (
	"context"

	"github.com/medroute/medroute/internal/domain/facility"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InMemoryFacilityStore implements facility.Repository
type InMemoryFacilityStore struct {
	*InMemoryStore[*facility.Facility]
}

// NewInMemoryFacilityStore creates a new in-memory facility store
func NewInMemoryFacilityStore() *InMemoryFacilityStore {
	return &InMemoryFacilityStore{
		InMemoryStore: NewInMemoryStore[*facility.Facility](),
	}
}

func copyFacility(f *facility.Facility) *facility.Facility {
	if f == nil {
		return nil
	}
	c := *f
	if f.StripeCustomerID != nil {
		id := *f.StripeCustomerID
		c.StripeCustomerID = &id
	}
	return &c
}

func (s *InMemoryFacilityStore) Create(ctx context.Context, f *facility.Facility) error {
	if err := s.InMemoryStore.Create(ctx, f.ID, copyFacility(f)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryFacilityStore) Get(ctx context.Context, id string) (*facility.Facility, error) {
	f, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || f.Status == types.StatusDeleted {
		return nil, ierr.NewError("facility not found").
			WithHintf("No facility with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyFacility(f), nil
}

func (s *InMemoryFacilityStore) Update(ctx context.Context, f *facility.Facility) error {
	if err := s.InMemoryStore.Update(ctx, f.ID, copyFacility(f)); err != nil {
		return ierr.NewError("facility not found").
			WithHintf("No facility with id %s", f.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryFacilityStore) List(ctx context.Context) ([]*facility.Facility, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, f *facility.Facility, _ interface{}) bool {
		return f.Status == types.StatusActive
	}, func(a, b *facility.Facility) bool {
		return a.Name < b.Name
	})
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return lo.Map(items, func(f *facility.Facility, _ int) *facility.Facility {
		return copyFacility(f)
	}), nil
}
