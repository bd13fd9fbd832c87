package profile

import "context"

// Repository defines the interface for profile persistence operations
type Repository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *Profile) error

	// Get retrieves a profile by ID
	Get(ctx context.Context, id string) (*Profile, error)

	// GetByIDs retrieves profiles for the given ids, keyed by id. Missing ids
	// are simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Profile, error)

	// ListByFacility retrieves all profiles attached to a facility
	ListByFacility(ctx context.Context, facilityID string) ([]*Profile, error)
}
