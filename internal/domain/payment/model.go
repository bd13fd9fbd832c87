package payment

import (
	"time"

	"github.com/medroute/medroute/internal/types"
	"github.com/shopspring/decimal"
)

// Payment records money received against a trip or a persisted invoice. A
// completed trip with a recorded payment classifies as PAID instead of DUE.
type Payment struct {
	ID         string  `db:"id" json:"id"`
	FacilityID string  `db:"facility_id" json:"facility_id"`
	TripID     *string `db:"trip_id" json:"trip_id,omitempty"`
	InvoiceID  *string `db:"invoice_id" json:"invoice_id,omitempty"`

	Amount decimal.Decimal `db:"amount" json:"amount"`

	// StripePaymentIntentID cross-references the processor side of the charge
	StripePaymentIntentID *string `db:"stripe_payment_intent_id" json:"stripe_payment_intent_id,omitempty"`

	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`

	types.BaseModel
}
