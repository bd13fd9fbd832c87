package types

import "strings"

// TripStatus is the raw trip lifecycle status as stored by the booking and
// dispatch workflows. The set is open ended and historically inconsistent
// (case, spelling, separators), so all comparisons go through Normalize.
type TripStatus string

const (
	TripStatusPending    TripStatus = "pending"
	TripStatusUpcoming   TripStatus = "upcoming"
	TripStatusConfirmed  TripStatus = "confirmed"
	TripStatusApproved   TripStatus = "approved"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
	TripStatusCanceled   TripStatus = "canceled"
	TripStatusRejected   TripStatus = "rejected"
	TripStatusNoShow     TripStatus = "no_show"
)

// NormalizeTripStatus lowercases, trims, and collapses separator variants
// ("No-Show", "no show" -> "no_show") so that downstream classification can
// match on a single spelling.
func NormalizeTripStatus(raw string) TripStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return TripStatus(s)
}

// BillableTripStatuses is the deliberately broad allow-list used by billing.
// Billing must show upcoming and cancelled trips, not just completed ones.
func BillableTripStatuses() []TripStatus {
	return []TripStatus{
		TripStatusPending,
		TripStatusUpcoming,
		TripStatusConfirmed,
		TripStatusApproved,
		TripStatusInProgress,
		TripStatusCompleted,
		TripStatusCancelled,
		TripStatusCanceled,
		TripStatusRejected,
		TripStatusNoShow,
	}
}
