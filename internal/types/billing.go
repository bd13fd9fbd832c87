package types

// BillingStatus is the professional four-value classification shown to
// facility billing staff, derived from but distinct from the raw trip status.
type BillingStatus string

const (
	BillingStatusUpcoming  BillingStatus = "UPCOMING"
	BillingStatusDue       BillingStatus = "DUE"
	BillingStatusPaid      BillingStatus = "PAID"
	BillingStatusCancelled BillingStatus = "CANCELLED"
)

// ClassifyTripStatus maps a raw trip lifecycle status to its professional
// billing status. The function is total: unknown inputs default to UPCOMING so
// an unclassified trip stays visible on the bill pending review instead of
// silently disappearing.
func ClassifyTripStatus(raw string, hasPayment bool) BillingStatus {
	switch NormalizeTripStatus(raw) {
	case TripStatusCompleted:
		if hasPayment {
			return BillingStatusPaid
		}
		return BillingStatusDue
	case TripStatusCancelled, TripStatusCanceled, TripStatusRejected, TripStatusNoShow:
		return BillingStatusCancelled
	case TripStatusPending, TripStatusUpcoming, TripStatusConfirmed, TripStatusApproved, TripStatusInProgress:
		return BillingStatusUpcoming
	default:
		return BillingStatusUpcoming
	}
}

// IdentityKind tells which identity space a trip's client resolved from
type IdentityKind string

const (
	IdentityKindAuthenticated IdentityKind = "authenticated"
	IdentityKindManaged       IdentityKind = "managed"
	IdentityKindUnresolved    IdentityKind = "unresolved"
)
