package testutil

import (
	"context"

	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/samber/lo"
)

// InMemoryTripStore implements trip.Repository
type InMemoryTripStore struct {
	*InMemoryStore[*trip.Trip]
}

// NewInMemoryTripStore creates a new in-memory trip store
func NewInMemoryTripStore() *InMemoryTripStore {
	return &InMemoryTripStore{
		InMemoryStore: NewInMemoryStore[*trip.Trip](),
	}
}

func copyTrip(t *trip.Trip) *trip.Trip {
	if t == nil {
		return nil
	}

	c := *t
	if t.PricingBreakdown != nil {
		pb := *t.PricingBreakdown
		c.PricingBreakdown = &pb
	}
	if t.Metadata != nil {
		c.Metadata = lo.Assign(types.Metadata{}, t.Metadata)
	}
	return &c
}

func (s *InMemoryTripStore) Create(ctx context.Context, t *trip.Trip) error {
	if err := s.InMemoryStore.Create(ctx, t.ID, copyTrip(t)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTripStore) Get(ctx context.Context, id string) (*trip.Trip, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || t.Status == types.StatusDeleted {
		return nil, ierr.NewError("trip not found").
			WithHintf("No trip with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyTrip(t), nil
}

// Update keeps a previously locked pricing breakdown, mirroring the COALESCE
// behavior of the persisted store.
func (s *InMemoryTripStore) Update(ctx context.Context, t *trip.Trip) error {
	existing, err := s.InMemoryStore.Get(ctx, t.ID)
	if err != nil {
		return ierr.NewError("trip not found").
			WithHintf("No trip with id %s", t.ID).
			Mark(ierr.ErrNotFound)
	}

	updated := copyTrip(t)
	if existing.PricingBreakdown != nil {
		pb := *existing.PricingBreakdown
		updated.PricingBreakdown = &pb
	}
	return s.InMemoryStore.Update(ctx, t.ID, updated)
}

func (s *InMemoryTripStore) List(ctx context.Context, filter *types.TripFilter) ([]*trip.Trip, error) {
	items, err := s.InMemoryStore.List(ctx, filter, tripFilterFn, tripSortFn)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	if filter != nil && filter.Limit != nil {
		start := filter.GetOffset()
		if start >= len(items) {
			items = nil
		} else {
			end := start + filter.GetLimit()
			if end > len(items) {
				end = len(items)
			}
			items = items[start:end]
		}
	}

	return lo.Map(items, func(t *trip.Trip, _ int) *trip.Trip {
		return copyTrip(t)
	}), nil
}

func (s *InMemoryTripStore) ListByUserIDs(ctx context.Context, userIDs []string, filter *types.TripFilter) ([]*trip.Trip, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	idSet := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		idSet[id] = struct{}{}
	}

	all, err := s.InMemoryStore.List(ctx, filter, func(ctx context.Context, t *trip.Trip, f interface{}) bool {
		if t.UserID == nil {
			return false
		}
		if _, ok := idSet[*t.UserID]; !ok {
			return false
		}
		return tripMatchesFilterExceptFacility(ctx, t, f)
	}, tripSortFn)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	return lo.Map(all, func(t *trip.Trip, _ int) *trip.Trip {
		return copyTrip(t)
	}), nil
}

func (s *InMemoryTripStore) Count(ctx context.Context, filter *types.TripFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, tripFilterFn)
}

func tripFilterFn(ctx context.Context, t *trip.Trip, filter interface{}) bool {
	f, _ := filter.(*types.TripFilter)
	if t.Status == types.StatusDeleted {
		return false
	}
	if f == nil {
		return true
	}
	if f.FacilityID != "" && (t.FacilityID == nil || *t.FacilityID != f.FacilityID) {
		return false
	}
	return tripMatchesFilterExceptFacility(ctx, t, f)
}

func tripMatchesFilterExceptFacility(_ context.Context, t *trip.Trip, filter interface{}) bool {
	f, _ := filter.(*types.TripFilter)
	if t.Status == types.StatusDeleted {
		return false
	}
	if f == nil {
		return true
	}
	if f.UserID != "" && (t.UserID == nil || *t.UserID != f.UserID) {
		return false
	}
	if f.FacilityIDOrUnlinked != "" && t.FacilityID != nil && *t.FacilityID != f.FacilityIDOrUnlinked {
		return false
	}
	if f.ManagedClientID != "" && (t.ManagedClientID == nil || *t.ManagedClientID != f.ManagedClientID) {
		return false
	}
	if f.PickupAfter != nil && t.PickupTime.Before(*f.PickupAfter) {
		return false
	}
	if f.PickupBefore != nil {
		if f.PickupBeforeExclusive {
			if !t.PickupTime.Before(*f.PickupBefore) {
				return false
			}
		} else if t.PickupTime.After(*f.PickupBefore) {
			return false
		}
	}
	if len(f.Statuses) > 0 {
		normalized := t.NormalizedStatus()
		if !lo.Contains(f.Statuses, normalized) {
			return false
		}
	}
	return true
}

func tripSortFn(a, b *trip.Trip) bool {
	if !a.PickupTime.Equal(b.PickupTime) {
		return a.PickupTime.After(b.PickupTime)
	}
	return a.ID < b.ID
}
