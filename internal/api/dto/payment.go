package dto

import (
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/shopspring/decimal"
)

// CreateSetupIntentRequest prepares a facility for off-session charges
type CreateSetupIntentRequest struct {
	FacilityID string `json:"facility_id"`
}

func (r *CreateSetupIntentRequest) Validate() error {
	if r.FacilityID == "" {
		return ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type SetupIntentResponse struct {
	SetupIntentID  string `json:"setup_intent_id"`
	ClientSecret   string `json:"client_secret"`
	PublishableKey string `json:"publishable_key"`
}

// CreatePaymentIntentRequest charges a saved payment method against an
// invoice or a single trip.
type CreatePaymentIntentRequest struct {
	FacilityID      string          `json:"facility_id"`
	PaymentMethodID string          `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	InvoiceID       *string         `json:"invoice_id,omitempty"`
	TripID          *string         `json:"trip_id,omitempty"`
}

func (r *CreatePaymentIntentRequest) Validate() error {
	if r.FacilityID == "" {
		return ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	if r.PaymentMethodID == "" {
		return ierr.NewError("payment_method_id is required").
			Mark(ierr.ErrValidation)
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			Mark(ierr.ErrValidation)
	}
	if r.InvoiceID == nil && r.TripID == nil {
		return ierr.NewError("payment needs a target").
			WithHint("Provide invoice_id or trip_id").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PaymentIntentResponse struct {
	PaymentID       string `json:"payment_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
	Succeeded       bool   `json:"succeeded"`
}
