package dto

import (
	"github.com/medroute/medroute/internal/domain/invoice"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest persists a single-trip invoice. The trip's resolved
// identity and classified status drive the stored client and billing status.
type CreateInvoiceRequest struct {
	TripID string          `json:"trip_id"`
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if r.TripID == "" {
		return ierr.NewError("trip_id is required").
			Mark(ierr.ErrValidation)
	}
	if r.Amount.IsNegative() {
		return ierr.NewError("amount must be non negative").
			Mark(ierr.ErrValidation)
	}
	if r.Tax.IsNegative() {
		return ierr.NewError("tax must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type InvoiceResponse struct {
	*invoice.Invoice
}

type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}
