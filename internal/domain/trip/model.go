package trip

import (
	"time"

	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/shopspring/decimal"
)

// Trip represents a single transportation booking.
//
// Ownership is mutually exclusive: exactly one of UserID (authenticated
// profile) or ManagedClientID (facility managed client) is authoritative for
// identity resolution. Historical rows may carry neither, in which case the
// identity resolver falls back to an address derived label.
type Trip struct {
	ID         string  `db:"id" json:"id"`
	BookingRef string  `db:"booking_ref" json:"booking_ref"`
	FacilityID *string `db:"facility_id" json:"facility_id,omitempty"`

	UserID          *string `db:"user_id" json:"user_id,omitempty"`
	ManagedClientID *string `db:"managed_client_id" json:"managed_client_id,omitempty"`

	// PickupTime is authoritative for period bucketing. PickupDate is the
	// legacy date-only column some booking paths still populate.
	PickupTime time.Time `db:"pickup_time" json:"pickup_time"`
	PickupDate *string   `db:"pickup_date" json:"pickup_date,omitempty"`

	PickupAddress  string `db:"pickup_address" json:"pickup_address"`
	DropoffAddress string `db:"dropoff_address" json:"dropoff_address"`

	// TripStatus is the raw lifecycle status written by booking and dispatch
	// workflows. Treated case and spelling variant tolerantly everywhere.
	TripStatus string `db:"trip_status" json:"trip_status"`

	Price     *decimal.Decimal `db:"price" json:"price,omitempty"`
	TotalFare *decimal.Decimal `db:"total_fare" json:"total_fare,omitempty"`

	// PricingBreakdown is captured at booking time and never recomputed.
	// Once set it is the sole source of the billed amount.
	PricingBreakdown *PricingBreakdown `db:"pricing_breakdown" json:"pricing_breakdown,omitempty"`

	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// PricingBreakdown holds the sub-total fields locked at booking time.
type PricingBreakdown struct {
	BaseFare       decimal.Decimal `json:"base_fare"`
	DistanceCharge decimal.Decimal `json:"distance_charge"`
	TimeCharge     decimal.Decimal `json:"time_charge"`
	Surcharges     decimal.Decimal `json:"surcharges"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// BilledAmount returns the amount this trip contributes to monetary totals
// and whether the trip is priced at all. The locked breakdown total always
// wins over the live price field when both are present. Trips with a null or
// non-positive price still appear as line items; they just contribute zero.
func (t *Trip) BilledAmount() (decimal.Decimal, bool) {
	if t.PricingBreakdown != nil && t.PricingBreakdown.Total.IsPositive() {
		return t.PricingBreakdown.Total, true
	}
	if t.Price != nil && t.Price.IsPositive() {
		return *t.Price, true
	}
	if t.TotalFare != nil && t.TotalFare.IsPositive() {
		return *t.TotalFare, true
	}
	return decimal.Zero, false
}

// NormalizedStatus returns the spelling-normalized lifecycle status.
func (t *Trip) NormalizedStatus() types.TripStatus {
	return types.NormalizeTripStatus(t.TripStatus)
}

func (t *Trip) Validate() error {
	if t.UserID != nil && t.ManagedClientID != nil {
		return ierr.NewError("trip has both user_id and managed_client_id").
			WithHint("A trip belongs to exactly one client identity space").
			Mark(ierr.ErrValidation)
	}
	if t.PickupTime.IsZero() {
		return ierr.NewError("trip has no pickup time").
			WithHint("Pickup time is required").
			Mark(ierr.ErrValidation)
	}
	if t.Price != nil && t.Price.IsNegative() {
		return ierr.NewError("trip price is negative").
			WithHint("Price must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
