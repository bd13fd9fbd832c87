package facility

import "context"

// Repository defines the interface for facility persistence operations
type Repository interface {
	// Create creates a new facility
	Create(ctx context.Context, facility *Facility) error

	// Get retrieves a facility by ID
	Get(ctx context.Context, id string) (*Facility, error)

	// Update updates an existing facility
	Update(ctx context.Context, facility *Facility) error

	// List retrieves all active facilities
	List(ctx context.Context) ([]*Facility, error)
}
