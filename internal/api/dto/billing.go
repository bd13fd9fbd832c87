package dto

import (
	"time"

	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/types"
	"github.com/shopspring/decimal"
)

// BillingRequest selects one facility month for aggregation
type BillingRequest struct {
	FacilityID string `form:"facility_id" json:"facility_id"`
	Year       int    `form:"year" json:"year"`
	Month      int    `form:"month" json:"month"`

	// ClientID restricts the response to one resolved client identity
	ClientID string `form:"client_id" json:"client_id,omitempty"`
	// Status restricts line items to one professional billing status
	Status types.BillingStatus `form:"status" json:"status,omitempty"`
}

func (r *BillingRequest) Validate() error {
	if r.FacilityID == "" {
		return ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	if r.Status != "" {
		switch r.Status {
		case types.BillingStatusUpcoming, types.BillingStatusDue, types.BillingStatusPaid, types.BillingStatusCancelled:
		default:
			return ierr.NewError("invalid status filter").
				WithHint("Status must be one of UPCOMING, DUE, PAID, CANCELLED").
				Mark(ierr.ErrValidation)
		}
	}
	period := types.BillingPeriod{Year: r.Year, Month: r.Month}
	return period.Validate()
}

// ClientSummaryRequest selects an arbitrary date range for the per-client view
type ClientSummaryRequest struct {
	FacilityID string `form:"facility_id" json:"facility_id"`
	StartDate  string `form:"start_date" json:"start_date"`
	EndDate    string `form:"end_date" json:"end_date"`
	ClientID   string `form:"client_id" json:"client_id,omitempty"`
}

func (r *ClientSummaryRequest) Validate() error {
	if r.FacilityID == "" {
		return ierr.NewError("facility_id is required").
			Mark(ierr.ErrValidation)
	}
	if _, _, err := r.Range(); err != nil {
		return err
	}
	return nil
}

// Range parses the date range. Dates are date-only and interpreted as
// inclusive UTC days.
func (r *ClientSummaryRequest) Range() (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", r.StartDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ierr.WithError(err).
			WithHint("start_date must be formatted YYYY-MM-DD").
			Mark(ierr.ErrValidation)
	}
	end, err := time.ParseInLocation("2006-01-02", r.EndDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ierr.WithError(err).
			WithHint("end_date must be formatted YYYY-MM-DD").
			Mark(ierr.ErrValidation)
	}
	end = end.Add(24*time.Hour - time.Millisecond)
	if end.Before(start) {
		return time.Time{}, time.Time{}, ierr.NewError("end_date is before start_date").
			Mark(ierr.ErrValidation)
	}
	return start, end, nil
}

// TripDetail is one trip line on a bill. Amount is zero for unpriced trips,
// which stay listed but do not contribute to monetary totals.
type TripDetail struct {
	TripID        string              `json:"trip_id"`
	BookingRef    string              `json:"booking_ref,omitempty"`
	PickupTime    time.Time           `json:"pickup_time"`
	PickupAddress string              `json:"pickup_address,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
	Priced        bool                `json:"priced"`
	RawStatus     string              `json:"raw_status"`
	BillingStatus types.BillingStatus `json:"billing_status"`
}

// Bill is the assembled per-client output of one aggregation run
type Bill struct {
	BillNumber string             `json:"bill_number"`
	ClientKey  string             `json:"client_id"`
	ClientName string             `json:"client_name"`
	ClientKind types.IdentityKind `json:"client_kind"`
	Phone      string             `json:"phone,omitempty"`

	Amount          decimal.Decimal `json:"amount"`
	DueAmount       decimal.Decimal `json:"due_amount"`
	UpcomingAmount  decimal.Decimal `json:"upcoming_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	CancelledAmount decimal.Decimal `json:"cancelled_amount"`

	TripCount   int                         `json:"trip_count"`
	StatusCount map[types.BillingStatus]int `json:"status_count"`

	TripDetails []TripDetail `json:"trip_details"`
}

// BillingSummary totals the whole facility month
type BillingSummary struct {
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DueAmount       decimal.Decimal `json:"due_amount"`
	UpcomingAmount  decimal.Decimal `json:"upcoming_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	CancelledAmount decimal.Decimal `json:"cancelled_amount"`

	TripCount   int                         `json:"trip_count"`
	ClientCount int                         `json:"client_count"`
	StatusCount map[types.BillingStatus]int `json:"status_count"`
}

// BillingResponse is the full monthly billing view. Partial is set when a
// lookup source was unreachable and the response degraded to best effort.
type BillingResponse struct {
	Period   string         `json:"period"`
	Bills    []*Bill        `json:"bills"`
	Summary  BillingSummary `json:"summary"`
	Partial  bool           `json:"partial,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ClientSummaryRow is one client's totals over the requested range
type ClientSummaryRow struct {
	ClientKey  string             `json:"client_id"`
	ClientName string             `json:"client_name"`
	ClientKind types.IdentityKind `json:"client_kind"`

	TotalAmount     decimal.Decimal `json:"total_amount"`
	DueAmount       decimal.Decimal `json:"due_amount"`
	UpcomingAmount  decimal.Decimal `json:"upcoming_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	CancelledAmount decimal.Decimal `json:"cancelled_amount"`

	TripCount   int                         `json:"trip_count"`
	StatusCount map[types.BillingStatus]int `json:"status_count"`
}

// ClientSummaryResponse groups the range per resolved client
type ClientSummaryResponse struct {
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Clients   []*ClientSummaryRow `json:"clients"`
	Partial   bool                `json:"partial,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
}
