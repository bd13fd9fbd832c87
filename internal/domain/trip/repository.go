package trip

import (
	"context"

	"github.com/medroute/medroute/internal/types"
)

// Repository defines the interface for trip persistence operations
type Repository interface {
	// Create creates a new trip
	Create(ctx context.Context, trip *Trip) error

	// Get retrieves a trip by ID
	Get(ctx context.Context, id string) (*Trip, error)

	// Update updates an existing trip. Implementations must never overwrite a
	// locked pricing breakdown.
	Update(ctx context.Context, trip *Trip) error

	// List retrieves trips based on filter criteria, most recent pickup first
	List(ctx context.Context, filter *types.TripFilter) ([]*Trip, error)

	// ListByUserIDs retrieves trips owned by any of the given profiles within
	// the filter's pickup window. This is the indirect facility-linkage path.
	ListByUserIDs(ctx context.Context, userIDs []string, filter *types.TripFilter) ([]*Trip, error)

	// Count returns the total count of trips matching the filter
	Count(ctx context.Context, filter *types.TripFilter) (int, error)
}
