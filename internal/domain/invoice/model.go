package invoice

import (
	"time"

	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is the persisted output of billing aggregation for one client
// within one period: identity label, trip lines, subtotal, and the
// professional billing status.
type Invoice struct {
	ID         string `db:"id" json:"id"`
	BillNumber string `db:"bill_number" json:"bill_number"`
	FacilityID string `db:"facility_id" json:"facility_id"`

	// PeriodKey is the YYYY-MM month the invoice covers. Together with
	// FacilityID and ClientKey it forms the idempotency key: creating the
	// same invoice twice is "already billed", not an error to retry.
	PeriodKey   string    `db:"period_key" json:"period_key"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`

	ClientKey    string             `db:"client_key" json:"client_key"`
	ClientName   string             `db:"client_name" json:"client_name"`
	IdentityKind types.IdentityKind `db:"identity_kind" json:"identity_kind"`

	AmountDue     decimal.Decimal     `db:"amount_due" json:"amount_due"`
	Tax           decimal.Decimal     `db:"tax" json:"tax"`
	BillingStatus types.BillingStatus `db:"billing_status" json:"billing_status"`

	PaidAt *time.Time `db:"paid_at" json:"paid_at,omitempty"`

	LineItems []*LineItem    `json:"line_items,omitempty"`
	Metadata  types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// LineItem ties an invoice back to one billable trip. Every invoice amount
// must be reconstructable by summing its line items.
type LineItem struct {
	ID            string              `db:"id" json:"id"`
	InvoiceID     string              `db:"invoice_id" json:"invoice_id"`
	TripID        string              `db:"trip_id" json:"trip_id"`
	PickupTime    time.Time           `db:"pickup_time" json:"pickup_time"`
	PickupAddress string              `db:"pickup_address" json:"pickup_address,omitempty"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	RawStatus     string              `db:"raw_status" json:"raw_status"`
	BillingStatus types.BillingStatus `db:"billing_status" json:"billing_status"`

	types.BaseModel
}

func (i *Invoice) Validate() error {
	if i.AmountDue.IsNegative() {
		return ierr.NewError("amount_due must be non negative").Mark(ierr.ErrValidation)
	}
	if i.PeriodEnd.Before(i.PeriodStart) {
		return ierr.NewError("period_end must be after period_start").Mark(ierr.ErrValidation)
	}
	if len(i.LineItems) > 0 {
		sum := decimal.Zero
		for _, item := range i.LineItems {
			if item.Amount.IsNegative() {
				return ierr.NewError("line item amount must be non negative").
					WithReportableDetails(map[string]any{"trip_id": item.TripID}).
					Mark(ierr.ErrValidation)
			}
			sum = sum.Add(item.Amount)
		}
		if !sum.Equal(i.AmountDue) {
			return ierr.NewError("amount_due does not equal the sum of line items").
				WithReportableDetails(map[string]any{
					"amount_due":     i.AmountDue.String(),
					"line_item_sum":  sum.String(),
					"line_item_kind": string(i.IdentityKind),
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
