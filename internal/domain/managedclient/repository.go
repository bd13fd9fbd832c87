package managedclient

import "context"

// Repository defines the interface for one managed-client source. There is
// one implementation per historical table; callers that need the full picture
// go through the merged repository instead of picking a table themselves.
type Repository interface {
	// Create creates a new managed client in this source
	Create(ctx context.Context, client *ManagedClient) error

	// Get retrieves a managed client by ID from this source
	Get(ctx context.Context, id string) (*ManagedClient, error)

	// GetByIDs retrieves managed clients for the given ids, keyed by id.
	// Missing ids are simply absent from the result, not an error.
	GetByIDs(ctx context.Context, ids []string) (map[string]*ManagedClient, error)

	// ListByFacility retrieves all managed clients of a facility in this source
	ListByFacility(ctx context.Context, facilityID string) ([]*ManagedClient, error)
}
