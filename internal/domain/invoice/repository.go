package invoice

import (
	"context"

	"github.com/medroute/medroute/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create persists an invoice with its line items as a single atomic
	// insert keyed by (facility_id, period_key, client_key). A duplicate key
	// surfaces as ErrAlreadyExists, which callers treat as "already billed".
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID including its line items
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetByPeriodClient retrieves the invoice for one facility/period/client
	GetByPeriodClient(ctx context.Context, facilityID, periodKey, clientKey string) (*Invoice, error)

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// MarkPaid sets the paid timestamp and billing status on an invoice
	MarkPaid(ctx context.Context, id string) error
}
