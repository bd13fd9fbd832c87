package dto

import (
	"context"

	"github.com/medroute/medroute/internal/domain/facility"
	"github.com/medroute/medroute/internal/types"
	"github.com/medroute/medroute/internal/validator"
)

type CreateFacilityRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	AddressLine1 string `json:"address_line1" validate:"omitempty,max=255"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"omitempty,max=100"`
	State        string `json:"state" validate:"omitempty,max=100"`
	PostalCode   string `json:"postal_code" validate:"omitempty,max=20"`
	BillingEmail string `json:"billing_email" validate:"omitempty,email"`
	BillingPhone string `json:"billing_phone" validate:"omitempty,max=30"`
	ContactName  string `json:"contact_name" validate:"omitempty,max=255"`
}

func (r *CreateFacilityRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateFacilityRequest) ToFacility(ctx context.Context) *facility.Facility {
	return &facility.Facility{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FACILITY),
		Name:         r.Name,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		BillingEmail: r.BillingEmail,
		BillingPhone: r.BillingPhone,
		ContactName:  r.ContactName,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
}

// UpdateFacilityRequest updates billing contact fields. Nil fields are left
// untouched.
type UpdateFacilityRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	AddressLine1 *string `json:"address_line1" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=20"`
	BillingEmail *string `json:"billing_email" validate:"omitempty,email"`
	BillingPhone *string `json:"billing_phone" validate:"omitempty,max=30"`
	ContactName  *string `json:"contact_name" validate:"omitempty,max=255"`
}

func (r *UpdateFacilityRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type FacilityResponse struct {
	*facility.Facility
}

type ListFacilitiesResponse struct {
	Items []*FacilityResponse `json:"items"`
	Total int                 `json:"total"`
}
