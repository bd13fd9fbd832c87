package types

import (
	"time"

	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/samber/lo"
)

const (
	FilterDefaultLimit = 50
	FilterMaxLimit     = 1000
)

// QueryFilter holds the common pagination knobs shared by list endpoints
type QueryFilter struct {
	Limit  *int `json:"limit,omitempty" form:"limit"`
	Offset *int `json:"offset,omitempty" form:"offset"`
}

func GetDefaultQueryFilter() QueryFilter {
	return QueryFilter{
		Limit:  lo.ToPtr(FilterDefaultLimit),
		Offset: lo.ToPtr(0),
	}
}

func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return FilterDefaultLimit
	}
	return *f.Limit
}

func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f QueryFilter) Validate() error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FilterMaxLimit) {
		return ierr.NewError("invalid limit").
			WithHintf("Limit must be between 1 and %d", FilterMaxLimit).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("Offset must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TripFilter selects trips for listing and for the billing pipeline
type TripFilter struct {
	QueryFilter
	FacilityID      string       `json:"facility_id,omitempty" form:"facility_id"`
	UserID          string       `json:"user_id,omitempty" form:"user_id"`
	ManagedClientID string       `json:"managed_client_id,omitempty" form:"managed_client_id"`
	Statuses        []TripStatus `json:"statuses,omitempty" form:"statuses"`
	PickupAfter     *time.Time   `json:"pickup_after,omitempty" form:"pickup_after"`
	PickupBefore    *time.Time   `json:"pickup_before,omitempty" form:"pickup_before"`

	// PickupBeforeExclusive switches the upper bound from `<=` to `<`. The
	// billing period fallback uses this to defend against date-only pickup
	// values truncated at midnight.
	PickupBeforeExclusive bool `json:"-" form:"-"`

	// FacilityIDOrUnlinked keeps only trips whose direct facility link is
	// absent or equals the given facility. A direct link is authoritative:
	// a trip linked to another facility bills there, regardless of who
	// booked it.
	FacilityIDOrUnlinked string `json:"-" form:"-"`
}

// InvoiceFilter selects persisted invoices
type InvoiceFilter struct {
	QueryFilter
	FacilityID    string        `json:"facility_id,omitempty" form:"facility_id"`
	PeriodKey     string        `json:"period,omitempty" form:"period"`
	ClientKey     string        `json:"client_id,omitempty" form:"client_id"`
	BillingStatus BillingStatus `json:"status,omitempty" form:"status"`
}
