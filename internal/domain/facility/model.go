package facility

import (
	"github.com/medroute/medroute/internal/types"
)

// Facility is the billed organizational entity that books transportation on
// behalf of its clients.
type Facility struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	AddressLine1 string `db:"address_line1" json:"address_line1,omitempty"`
	AddressLine2 string `db:"address_line2" json:"address_line2,omitempty"`
	City         string `db:"city" json:"city,omitempty"`
	State        string `db:"state" json:"state,omitempty"`
	PostalCode   string `db:"postal_code" json:"postal_code,omitempty"`

	BillingEmail string `db:"billing_email" json:"billing_email,omitempty"`
	BillingPhone string `db:"billing_phone" json:"billing_phone,omitempty"`
	ContactName  string `db:"contact_name" json:"contact_name,omitempty"`

	// StripeCustomerID is created lazily on first payment setup
	StripeCustomerID *string `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`

	types.BaseModel
}
