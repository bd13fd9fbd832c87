package dto

import (
	"context"
	"time"

	"github.com/medroute/medroute/internal/domain/trip"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/medroute/medroute/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateTripRequest struct {
	FacilityID      string  `json:"facility_id"`
	UserID          *string `json:"user_id,omitempty"`
	ManagedClientID *string `json:"managed_client_id,omitempty"`

	PickupTime     time.Time `json:"pickup_time" validate:"required"`
	PickupAddress  string    `json:"pickup_address" validate:"required,max=500"`
	DropoffAddress string    `json:"dropoff_address" validate:"required,max=500"`

	Price            *decimal.Decimal       `json:"price,omitempty"`
	PricingBreakdown *trip.PricingBreakdown `json:"pricing_breakdown,omitempty"`

	Metadata types.Metadata `json:"metadata,omitempty"`
}

func (r *CreateTripRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.UserID != nil && r.ManagedClientID != nil {
		return ierr.NewError("trip has both user_id and managed_client_id").
			WithHint("A trip belongs to exactly one client identity space").
			Mark(ierr.ErrValidation)
	}
	if r.UserID == nil && r.ManagedClientID == nil {
		return ierr.NewError("trip has no client").
			WithHint("Provide either user_id or managed_client_id").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateTripRequest) ToTrip(ctx context.Context) *trip.Trip {
	var facilityID *string
	if r.FacilityID != "" {
		facilityID = &r.FacilityID
	}
	return &trip.Trip{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRIP),
		BookingRef:       types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_BOOKING),
		FacilityID:       facilityID,
		UserID:           r.UserID,
		ManagedClientID:  r.ManagedClientID,
		PickupTime:       r.PickupTime.UTC(),
		PickupAddress:    r.PickupAddress,
		DropoffAddress:   r.DropoffAddress,
		TripStatus:       string(types.TripStatusPending),
		Price:            r.Price,
		PricingBreakdown: r.PricingBreakdown,
		Metadata:         r.Metadata,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

type UpdateTripStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

func (r *UpdateTripStatusRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type TripResponse struct {
	*trip.Trip
}

type ListTripsResponse struct {
	Items []*TripResponse `json:"items"`
	Total int             `json:"total"`
}
