package testutil

import (
	"context"

	"github.com/medroute/medroute/internal/domain/profile"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InMemoryProfileStore implements profile.Repository
type InMemoryProfileStore struct {
	*InMemoryStore[*profile.Profile]
}

// NewInMemoryProfileStore creates a new in-memory profile store
func NewInMemoryProfileStore() *InMemoryProfileStore {
	return &InMemoryProfileStore{
		InMemoryStore: NewInMemoryStore[*profile.Profile](),
	}
}

func copyProfile(p *profile.Profile) *profile.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (s *InMemoryProfileStore) Create(ctx context.Context, p *profile.Profile) error {
	if err := s.InMemoryStore.Create(ctx, p.ID, copyProfile(p)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryProfileStore) Get(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.Status == types.StatusDeleted {
		return nil, ierr.NewError("profile not found").
			WithHintf("No profile with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyProfile(p), nil
}

func (s *InMemoryProfileStore) GetByIDs(ctx context.Context, ids []string) (map[string]*profile.Profile, error) {
	result := make(map[string]*profile.Profile, len(ids))
	for _, id := range ids {
		p, err := s.InMemoryStore.Get(ctx, id)
		if err != nil || p.Status == types.StatusDeleted {
			continue
		}
		result[id] = copyProfile(p)
	}
	return result, nil
}

func (s *InMemoryProfileStore) ListByFacility(ctx context.Context, facilityID string) ([]*profile.Profile, error) {
	items, err := s.InMemoryStore.List(ctx, facilityID, func(_ context.Context, p *profile.Profile, f interface{}) bool {
		return p.Status != types.StatusDeleted &&
			p.FacilityID != nil && *p.FacilityID == f.(string)
	}, func(a, b *profile.Profile) bool {
		return a.FullName() < b.FullName()
	})
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return lo.Map(items, func(p *profile.Profile, _ int) *profile.Profile {
		return copyProfile(p)
	}), nil
}
