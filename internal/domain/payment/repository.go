package payment

import "context"

// Repository defines the interface for payment persistence operations
type Repository interface {
	// Create records a new payment
	Create(ctx context.Context, payment *Payment) error

	// Get retrieves a payment by ID
	Get(ctx context.Context, id string) (*Payment, error)

	// PaidTripIDs returns the subset of the given trip ids that have at least
	// one recorded payment.
	PaidTripIDs(ctx context.Context, tripIDs []string) (map[string]struct{}, error)

	// ListByInvoice retrieves all payments recorded against an invoice
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)
}
